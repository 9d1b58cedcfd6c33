package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ClanWalletRepository implements interfaces.ClanWalletRepository.
type ClanWalletRepository struct {
	q       queryable
	guildID int64
}

// NewClanWalletRepository creates a clan wallet repository over the pool.
func NewClanWalletRepository(db *database.DB, guildID int64) *ClanWalletRepository {
	return &ClanWalletRepository{q: db.Pool, guildID: guildID}
}

func newClanWalletRepository(tx queryable, guildID int64) *ClanWalletRepository {
	return &ClanWalletRepository{q: tx, guildID: guildID}
}

// GetOrCreate lazily provisions the treasury with a zero balance.
func (r *ClanWalletRepository) GetOrCreate(ctx context.Context, clanRoleID int64) (*entities.ClanWallet, error) {
	query := `
		INSERT INTO clan_wallets (clan_role_id, guild_id, currency, balance)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (clan_role_id, guild_id, currency) DO UPDATE
			SET updated_at = clan_wallets.updated_at
		RETURNING id, clan_role_id, guild_id, currency, balance, updated_at
	`

	var wallet entities.ClanWallet
	err := r.q.QueryRow(ctx, query, clanRoleID, r.guildID, entities.CurrencySolyx).Scan(
		&wallet.ID,
		&wallet.ClanRoleID,
		&wallet.GuildID,
		&wallet.Currency,
		&wallet.Balance,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create treasury for clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}

	return &wallet, nil
}

// ApplyDelta adds amount to the treasury under the non-negative
// conditional update.
func (r *ClanWalletRepository) ApplyDelta(ctx context.Context, clanRoleID int64, amount int64) (int64, error) {
	if _, err := r.GetOrCreate(ctx, clanRoleID); err != nil {
		return 0, err
	}

	query := `
		UPDATE clan_wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE clan_role_id = $2 AND guild_id = $3 AND currency = $4
		  AND balance + $1 >= 0
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, clanRoleID, r.guildID, entities.CurrencySolyx).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, domain.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply delta %d to treasury of clan %d in guild %d: %w", amount, clanRoleID, r.guildID, err)
	}

	return newBalance, nil
}

// Delete removes the treasury row.
func (r *ClanWalletRepository) Delete(ctx context.Context, clanRoleID int64) error {
	query := `
		DELETE FROM clan_wallets
		WHERE clan_role_id = $1 AND guild_id = $2
	`

	if _, err := r.q.Exec(ctx, query, clanRoleID, r.guildID); err != nil {
		return fmt.Errorf("failed to delete treasury of clan %d in guild %d: %w", clanRoleID, r.guildID, err)
	}

	return nil
}
