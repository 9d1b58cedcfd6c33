package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain/entities"
)

// LedgerRepository implements interfaces.LedgerRepository. The table is
// append-only; there is deliberately no update or delete here.
type LedgerRepository struct {
	q       queryable
	guildID int64
}

// NewLedgerRepository creates a ledger repository over the pool.
func NewLedgerRepository(db *database.DB, guildID int64) *LedgerRepository {
	return &LedgerRepository{q: db.Pool, guildID: guildID}
}

func newLedgerRepository(tx queryable, guildID int64) *LedgerRepository {
	return &LedgerRepository{q: tx, guildID: guildID}
}

// Record appends a ledger entry.
func (r *LedgerRepository) Record(ctx context.Context, tx *entities.LedgerTransaction) error {
	query := `
		INSERT INTO ledger_transactions (discord_id, guild_id, amount, reason, moderator_discord_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		tx.DiscordID,
		r.guildID,
		tx.Amount,
		tx.Reason,
		tx.ModeratorID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for user %d in guild %d: %w", tx.DiscordID, r.guildID, err)
	}

	tx.GuildID = r.guildID
	return nil
}

// GetByUser returns the most recent entries for a user.
func (r *LedgerRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.LedgerTransaction, error) {
	query := `
		SELECT id, discord_id, guild_id, amount, reason, moderator_discord_id, created_at
		FROM ledger_transactions
		WHERE discord_id = $1 AND guild_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, discordID, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %d in guild %d: %w", discordID, r.guildID, err)
	}
	defer rows.Close()

	var entries []*entities.LedgerTransaction
	for rows.Next() {
		var entry entities.LedgerTransaction
		err := rows.Scan(
			&entry.ID,
			&entry.DiscordID,
			&entry.GuildID,
			&entry.Amount,
			&entry.Reason,
			&entry.ModeratorID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
