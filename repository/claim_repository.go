package repository

import (
	"context"
	"fmt"
	"time"

	"solyx/database"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ClaimRepository implements interfaces.ClaimRepository.
type ClaimRepository struct {
	q       queryable
	guildID int64
}

// NewClaimRepository creates a claim repository over the pool.
func NewClaimRepository(db *database.DB, guildID int64) *ClaimRepository {
	return &ClaimRepository{q: db.Pool, guildID: guildID}
}

func newClaimRepository(tx queryable, guildID int64) *ClaimRepository {
	return &ClaimRepository{q: tx, guildID: guildID}
}

// Get reads the claim row without locking. Returns (nil, nil) when the user
// never claimed.
func (r *ClaimRepository) Get(ctx context.Context, discordID int64, claimType entities.ClaimType) (*entities.Claim, error) {
	query := `
		SELECT discord_id, guild_id, claim_type, last_claimed_at, streak, weekly_state
		FROM claims
		WHERE discord_id = $1 AND guild_id = $2 AND claim_type = $3
	`

	var claim entities.Claim
	err := r.q.QueryRow(ctx, query, discordID, r.guildID, claimType).Scan(
		&claim.DiscordID,
		&claim.GuildID,
		&claim.Type,
		&claim.LastClaimedAt,
		&claim.Streak,
		&claim.WeeklyState,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s claim for user %d in guild %d: %w", claimType, discordID, r.guildID, err)
	}

	return &claim, nil
}

// GetForUpdate reads the claim row under FOR UPDATE so concurrent claim
// attempts by the same user serialize on the row lock for the duration of
// the transaction. A missing row is seeded first; FOR UPDATE on a row that
// does not exist locks nothing, which would let two first-time claimants
// through. The returned claim is never nil; a zero LastClaimedAt means the
// user never claimed.
func (r *ClaimRepository) GetForUpdate(ctx context.Context, discordID int64, claimType entities.ClaimType) (*entities.Claim, error) {
	seed := `
		INSERT INTO claims (discord_id, guild_id, claim_type, last_claimed_at, streak, weekly_state)
		VALUES ($1, $2, $3, $4, 0, 0)
		ON CONFLICT (discord_id, guild_id, claim_type) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, seed, discordID, r.guildID, claimType, time.Time{}); err != nil {
		return nil, fmt.Errorf("failed to seed %s claim for user %d in guild %d: %w", claimType, discordID, r.guildID, err)
	}

	query := `
		SELECT discord_id, guild_id, claim_type, last_claimed_at, streak, weekly_state
		FROM claims
		WHERE discord_id = $1 AND guild_id = $2 AND claim_type = $3
		FOR UPDATE
	`

	var claim entities.Claim
	err := r.q.QueryRow(ctx, query, discordID, r.guildID, claimType).Scan(
		&claim.DiscordID,
		&claim.GuildID,
		&claim.Type,
		&claim.LastClaimedAt,
		&claim.Streak,
		&claim.WeeklyState,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s claim for user %d in guild %d: %w", claimType, discordID, r.guildID, err)
	}

	return &claim, nil
}

// Upsert writes the claim state.
func (r *ClaimRepository) Upsert(ctx context.Context, claim *entities.Claim) error {
	query := `
		INSERT INTO claims (discord_id, guild_id, claim_type, last_claimed_at, streak, weekly_state)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (discord_id, guild_id, claim_type) DO UPDATE
			SET last_claimed_at = EXCLUDED.last_claimed_at,
			    streak = EXCLUDED.streak,
			    weekly_state = EXCLUDED.weekly_state
	`

	_, err := r.q.Exec(ctx, query,
		claim.DiscordID,
		r.guildID,
		claim.Type,
		claim.LastClaimedAt,
		claim.Streak,
		claim.WeeklyState,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s claim for user %d in guild %d: %w", claim.Type, claim.DiscordID, r.guildID, err)
	}

	claim.GuildID = r.guildID
	return nil
}
