package repository

import (
	"context"
	"fmt"
	"time"

	"solyx/database"

	"github.com/jackc/pgx/v5"
)

// GuildEarningsRepository implements interfaces.GuildEarningsRepository,
// the per-guild per-day currency-acquired aggregate read by analytics.
type GuildEarningsRepository struct {
	q       queryable
	guildID int64
}

// NewGuildEarningsRepository creates an earnings repository over the pool.
func NewGuildEarningsRepository(db *database.DB, guildID int64) *GuildEarningsRepository {
	return &GuildEarningsRepository{q: db.Pool, guildID: guildID}
}

func newGuildEarningsRepository(tx queryable, guildID int64) *GuildEarningsRepository {
	return &GuildEarningsRepository{q: tx, guildID: guildID}
}

// AddAcquired upserts the row for day and adds amount to it.
func (r *GuildEarningsRepository) AddAcquired(ctx context.Context, day time.Time, amount int64) error {
	query := `
		INSERT INTO guild_earnings (guild_id, day, total_acquired)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, day) DO UPDATE
			SET total_acquired = guild_earnings.total_acquired + EXCLUDED.total_acquired
	`

	if _, err := r.q.Exec(ctx, query, r.guildID, day.UTC().Format("2006-01-02"), amount); err != nil {
		return fmt.Errorf("failed to add acquired amount for guild %d: %w", r.guildID, err)
	}

	return nil
}

// GetAcquired returns the aggregate for day, zero when absent.
func (r *GuildEarningsRepository) GetAcquired(ctx context.Context, day time.Time) (int64, error) {
	query := `
		SELECT total_acquired
		FROM guild_earnings
		WHERE guild_id = $1 AND day = $2
	`

	var total int64
	err := r.q.QueryRow(ctx, query, r.guildID, day.UTC().Format("2006-01-02")).Scan(&total)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get acquired amount for guild %d: %w", r.guildID, err)
	}

	return total, nil
}
