package repository

import (
	"context"
	"fmt"
	"time"

	"solyx/database"
	"solyx/domain/entities"
)

// ClanTaxRepository implements interfaces.ClanTaxRepository.
type ClanTaxRepository struct {
	q       queryable
	guildID int64
}

// NewClanTaxRepository creates a tax repository over the pool.
func NewClanTaxRepository(db *database.DB, guildID int64) *ClanTaxRepository {
	return &ClanTaxRepository{q: db.Pool, guildID: guildID}
}

func newClanTaxRepository(tx queryable, guildID int64) *ClanTaxRepository {
	return &ClanTaxRepository{q: tx, guildID: guildID}
}

// GetOrCreate lazily provisions the tax row for the current period.
func (r *ClanTaxRepository) GetOrCreate(ctx context.Context, clanRoleID int64) (*entities.ClanTax, error) {
	query := `
		INSERT INTO clan_taxes (clan_role_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (clan_role_id, guild_id) DO UPDATE
			SET clan_role_id = clan_taxes.clan_role_id
		RETURNING clan_role_id, guild_id, amount_contributed, last_contributor_id, last_reset_at
	`

	var tax entities.ClanTax
	err := r.q.QueryRow(ctx, query, clanRoleID, r.guildID).Scan(
		&tax.ClanRoleID,
		&tax.GuildID,
		&tax.AmountContributed,
		&tax.LastContributorID,
		&tax.LastResetAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create tax row for clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}

	return &tax, nil
}

// AddContribution increments the period counter and records the contributor.
func (r *ClanTaxRepository) AddContribution(ctx context.Context, clanRoleID, amount, contributorID int64) (*entities.ClanTax, error) {
	query := `
		INSERT INTO clan_taxes (clan_role_id, guild_id, amount_contributed, last_contributor_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (clan_role_id, guild_id) DO UPDATE
			SET amount_contributed = clan_taxes.amount_contributed + EXCLUDED.amount_contributed,
			    last_contributor_id = EXCLUDED.last_contributor_id
		RETURNING clan_role_id, guild_id, amount_contributed, last_contributor_id, last_reset_at
	`

	var tax entities.ClanTax
	err := r.q.QueryRow(ctx, query, clanRoleID, r.guildID, amount, contributorID).Scan(
		&tax.ClanRoleID,
		&tax.GuildID,
		&tax.AmountContributed,
		&tax.LastContributorID,
		&tax.LastResetAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add contribution of %d to clan %d in guild %d: %w", amount, clanRoleID, r.guildID, err)
	}

	return &tax, nil
}

// ResetPeriod zeroes the counter and clears the last contributor.
func (r *ClanTaxRepository) ResetPeriod(ctx context.Context, clanRoleID int64, resetAt time.Time) error {
	query := `
		UPDATE clan_taxes
		SET amount_contributed = 0, last_contributor_id = NULL, last_reset_at = $1
		WHERE clan_role_id = $2 AND guild_id = $3
	`

	if _, err := r.q.Exec(ctx, query, resetAt, clanRoleID, r.guildID); err != nil {
		return fmt.Errorf("failed to reset tax period for clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}

	return nil
}

// Delete removes the tax row.
func (r *ClanTaxRepository) Delete(ctx context.Context, clanRoleID int64) error {
	query := `
		DELETE FROM clan_taxes
		WHERE clan_role_id = $1 AND guild_id = $2
	`

	if _, err := r.q.Exec(ctx, query, clanRoleID, r.guildID); err != nil {
		return fmt.Errorf("failed to delete tax row for clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}

	return nil
}
