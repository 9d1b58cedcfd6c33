package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ClanRepository implements interfaces.ClanRepository.
type ClanRepository struct {
	q       queryable
	guildID int64
}

// NewClanRepository creates a clan repository over the pool.
func NewClanRepository(db *database.DB, guildID int64) *ClanRepository {
	return &ClanRepository{q: db.Pool, guildID: guildID}
}

func newClanRepository(tx queryable, guildID int64) *ClanRepository {
	return &ClanRepository{q: tx, guildID: guildID}
}

// Create inserts a clan row.
func (r *ClanRepository) Create(ctx context.Context, clan *entities.Clan) error {
	query := `
		INSERT INTO clans (clan_role_id, guild_id, owner_discord_id, motto)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, clan.ClanRoleID, r.guildID, clan.OwnerDiscordID, clan.Motto).Scan(&clan.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create clan %d in guild %d: %w", clan.ClanRoleID, r.guildID, err)
	}

	clan.GuildID = r.guildID
	return nil
}

// GetByRoleID retrieves a clan by its role ID.
func (r *ClanRepository) GetByRoleID(ctx context.Context, clanRoleID int64) (*entities.Clan, error) {
	query := `
		SELECT clan_role_id, guild_id, owner_discord_id, motto, created_at
		FROM clans
		WHERE clan_role_id = $1 AND guild_id = $2
	`

	var clan entities.Clan
	err := r.q.QueryRow(ctx, query, clanRoleID, r.guildID).Scan(
		&clan.ClanRoleID,
		&clan.GuildID,
		&clan.OwnerDiscordID,
		&clan.Motto,
		&clan.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}

	return &clan, nil
}

// UpdateOwner sets the clan's owner column.
func (r *ClanRepository) UpdateOwner(ctx context.Context, clanRoleID, ownerDiscordID int64) error {
	query := `
		UPDATE clans
		SET owner_discord_id = $1
		WHERE clan_role_id = $2 AND guild_id = $3
	`

	result, err := r.q.Exec(ctx, query, ownerDiscordID, clanRoleID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update owner of clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// UpdateMotto sets or clears the clan's motto.
func (r *ClanRepository) UpdateMotto(ctx context.Context, clanRoleID int64, motto *string) error {
	query := `
		UPDATE clans
		SET motto = $1
		WHERE clan_role_id = $2 AND guild_id = $3
	`

	result, err := r.q.Exec(ctx, query, motto, clanRoleID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update motto of clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes the clan row.
func (r *ClanRepository) Delete(ctx context.Context, clanRoleID int64) error {
	query := `
		DELETE FROM clans
		WHERE clan_role_id = $1 AND guild_id = $2
	`

	if _, err := r.q.Exec(ctx, query, clanRoleID, r.guildID); err != nil {
		return fmt.Errorf("failed to delete clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}

	return nil
}

// ListAll returns every clan across all guilds for the period-reset
// scheduler; the repository's guild scope is intentionally not applied.
func (r *ClanRepository) ListAll(ctx context.Context) ([]*entities.Clan, error) {
	query := `
		SELECT clan_role_id, guild_id, owner_discord_id, motto, created_at
		FROM clans
		ORDER BY guild_id, clan_role_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clans: %w", err)
	}
	defer rows.Close()

	var clans []*entities.Clan
	for rows.Next() {
		var clan entities.Clan
		err := rows.Scan(
			&clan.ClanRoleID,
			&clan.GuildID,
			&clan.OwnerDiscordID,
			&clan.Motto,
			&clan.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clan: %w", err)
		}
		clans = append(clans, &clan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clans: %w", err)
	}

	return clans, nil
}
