package repository

import (
	"context"
	"fmt"
	"time"

	"solyx/database"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RaffleRepository implements interfaces.RaffleRepository.
type RaffleRepository struct {
	q       queryable
	guildID int64
}

// NewRaffleRepository creates a raffle repository over the pool.
func NewRaffleRepository(db *database.DB, guildID int64) *RaffleRepository {
	return &RaffleRepository{q: db.Pool, guildID: guildID}
}

func newRaffleRepository(tx queryable, guildID int64) *RaffleRepository {
	return &RaffleRepository{q: tx, guildID: guildID}
}

// Create inserts a raffle and fills in its generated ID.
func (r *RaffleRepository) Create(ctx context.Context, raffle *entities.Raffle) error {
	query := `
		INSERT INTO raffles (guild_id, title, channel_id, ticket_cost, num_winners, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		raffle.Title,
		raffle.ChannelID,
		raffle.TicketCost,
		raffle.NumWinners,
		raffle.EndTime,
		entities.RaffleStatusActive,
	).Scan(&raffle.ID, &raffle.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create raffle in guild %d: %w", r.guildID, err)
	}

	raffle.GuildID = r.guildID
	raffle.Status = entities.RaffleStatusActive
	return nil
}

// GetByID retrieves a raffle, or (nil, nil) if unknown.
func (r *RaffleRepository) GetByID(ctx context.Context, id int64) (*entities.Raffle, error) {
	query := `
		SELECT id, guild_id, title, channel_id, message_id, ticket_cost, num_winners,
		       end_time, status, winner_ids, created_at
		FROM raffles
		WHERE id = $1 AND guild_id = $2
	`

	var raffle entities.Raffle
	err := r.q.QueryRow(ctx, query, id, r.guildID).Scan(
		&raffle.ID,
		&raffle.GuildID,
		&raffle.Title,
		&raffle.ChannelID,
		&raffle.MessageID,
		&raffle.TicketCost,
		&raffle.NumWinners,
		&raffle.EndTime,
		&raffle.Status,
		&raffle.WinnerIDs,
		&raffle.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle %d in guild %d: %w", id, r.guildID, err)
	}

	return &raffle, nil
}

// SetMessageID records the posted dashboard message.
func (r *RaffleRepository) SetMessageID(ctx context.Context, id, messageID int64) error {
	query := `
		UPDATE raffles
		SET message_id = $1
		WHERE id = $2 AND guild_id = $3
	`

	result, err := r.q.Exec(ctx, query, messageID, id, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to set message ID for raffle %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// MarkEnded flips status active -> ended and stores the winner list in one
// conditional update. A false return means another caller already ended the
// raffle, which makes redundant draw attempts a no-op.
func (r *RaffleRepository) MarkEnded(ctx context.Context, id int64, winnerIDs []int64) (bool, error) {
	query := `
		UPDATE raffles
		SET status = $1, winner_ids = $2
		WHERE id = $3 AND status = $4
	`

	if winnerIDs == nil {
		winnerIDs = []int64{}
	}

	result, err := r.q.Exec(ctx, query, entities.RaffleStatusEnded, winnerIDs, id, entities.RaffleStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to mark raffle %d ended: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// ListExpired returns active raffles whose end time has passed, across all
// guilds; the repository's guild scope is intentionally not applied because
// the expiry sweep runs once for the whole process.
func (r *RaffleRepository) ListExpired(ctx context.Context, now time.Time) ([]*entities.Raffle, error) {
	query := `
		SELECT id, guild_id, title, channel_id, message_id, ticket_cost, num_winners,
		       end_time, status, winner_ids, created_at
		FROM raffles
		WHERE status = $1 AND end_time <= $2
		ORDER BY end_time ASC
	`

	rows, err := r.q.Query(ctx, query, entities.RaffleStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired raffles: %w", err)
	}
	defer rows.Close()

	var raffles []*entities.Raffle
	for rows.Next() {
		var raffle entities.Raffle
		err := rows.Scan(
			&raffle.ID,
			&raffle.GuildID,
			&raffle.Title,
			&raffle.ChannelID,
			&raffle.MessageID,
			&raffle.TicketCost,
			&raffle.NumWinners,
			&raffle.EndTime,
			&raffle.Status,
			&raffle.WinnerIDs,
			&raffle.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raffle: %w", err)
		}
		raffles = append(raffles, &raffle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate raffles: %w", err)
	}

	return raffles, nil
}
