package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WalletRepository implements interfaces.WalletRepository, scoped to one
// guild and the single Solyx currency.
type WalletRepository struct {
	q       queryable
	guildID int64
}

// NewWalletRepository creates a wallet repository over the pool.
func NewWalletRepository(db *database.DB, guildID int64) *WalletRepository {
	return &WalletRepository{q: db.Pool, guildID: guildID}
}

func newWalletRepository(tx queryable, guildID int64) *WalletRepository {
	return &WalletRepository{q: tx, guildID: guildID}
}

// GetOrCreate lazily provisions the wallet with the documented defaults
// (balance 0, capacity 250000) on first access.
func (r *WalletRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.Wallet, error) {
	query := `
		INSERT INTO wallets (discord_id, guild_id, currency, balance, capacity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (discord_id, guild_id, currency) DO UPDATE
			SET updated_at = wallets.updated_at
		RETURNING id, discord_id, guild_id, currency, balance, capacity, created_at, updated_at
	`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query,
		discordID, r.guildID, entities.CurrencySolyx,
		entities.DefaultWalletBalance, entities.DefaultWalletCapacity,
	).Scan(
		&wallet.ID,
		&wallet.DiscordID,
		&wallet.GuildID,
		&wallet.Currency,
		&wallet.Balance,
		&wallet.Capacity,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create wallet for user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return &wallet, nil
}

// ApplyDelta adds amount to the balance in one conditional update. The
// WHERE clause carries the non-negative invariant so concurrent debits
// cannot race a balance below zero.
func (r *WalletRepository) ApplyDelta(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if _, err := r.GetOrCreate(ctx, discordID); err != nil {
		return 0, err
	}

	query := `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3 AND currency = $4
		  AND balance + $1 >= 0
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, discordID, r.guildID, entities.CurrencySolyx).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, domain.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply delta %d to wallet of user %d in guild %d: %w", amount, discordID, r.guildID, err)
	}

	return newBalance, nil
}

// ApplyDeltaCapped is ApplyDelta with the wallet's capacity enforced on
// credits, used when withdrawing from a clan treasury into a wallet.
func (r *WalletRepository) ApplyDeltaCapped(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if _, err := r.GetOrCreate(ctx, discordID); err != nil {
		return 0, err
	}

	query := `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3 AND currency = $4
		  AND balance + $1 >= 0
		  AND balance + $1 <= capacity
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, discordID, r.guildID, entities.CurrencySolyx).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		if amount < 0 {
			return 0, domain.ErrInsufficientFunds
		}
		return 0, domain.ErrCapacityExceeded
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply capped delta %d to wallet of user %d in guild %d: %w", amount, discordID, r.guildID, err)
	}

	return newBalance, nil
}

// GetTopByBalance returns the guild's wallets ordered by balance
// descending, ties broken by discord ID for a stable order.
func (r *WalletRepository) GetTopByBalance(ctx context.Context, limit int) ([]*entities.Wallet, error) {
	query := `
		SELECT id, discord_id, guild_id, currency, balance, capacity, created_at, updated_at
		FROM wallets
		WHERE guild_id = $1 AND currency = $2
		ORDER BY balance DESC, discord_id ASC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, entities.CurrencySolyx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top wallets in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	var wallets []*entities.Wallet
	for rows.Next() {
		var wallet entities.Wallet
		err := rows.Scan(
			&wallet.ID,
			&wallet.DiscordID,
			&wallet.GuildID,
			&wallet.Currency,
			&wallet.Balance,
			&wallet.Capacity,
			&wallet.CreatedAt,
			&wallet.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, &wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}

	return wallets, nil
}

// GetRank computes the 1-based rank by counting strictly richer wallets.
// A full ordering scan is fine at guild scale.
func (r *WalletRepository) GetRank(ctx context.Context, discordID int64) (int, int64, error) {
	query := `
		SELECT w.balance,
			(SELECT COUNT(*) + 1
			 FROM wallets o
			 WHERE o.guild_id = w.guild_id AND o.currency = w.currency
			   AND (o.balance > w.balance
			        OR (o.balance = w.balance AND o.discord_id < w.discord_id)))
		FROM wallets w
		WHERE w.discord_id = $1 AND w.guild_id = $2 AND w.currency = $3
	`

	var balance int64
	var rank int
	err := r.q.QueryRow(ctx, query, discordID, r.guildID, entities.CurrencySolyx).Scan(&balance, &rank)
	if err == pgx.ErrNoRows {
		return 0, 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rank for user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return rank, balance, nil
}
