package repository

import (
	"context"
	"fmt"

	"solyx/database"
)

// RaffleEntryRepository implements interfaces.RaffleEntryRepository.
// Entries are keyed by raffle ID which is already guild-scoped, so the
// queries do not repeat the guild filter.
type RaffleEntryRepository struct {
	q       queryable
	guildID int64
}

// NewRaffleEntryRepository creates an entry repository over the pool.
func NewRaffleEntryRepository(db *database.DB, guildID int64) *RaffleEntryRepository {
	return &RaffleEntryRepository{q: db.Pool, guildID: guildID}
}

func newRaffleEntryRepository(tx queryable, guildID int64) *RaffleEntryRepository {
	return &RaffleEntryRepository{q: tx, guildID: guildID}
}

// Add appends one ticket entry.
func (r *RaffleEntryRepository) Add(ctx context.Context, raffleID, discordID int64) error {
	query := `
		INSERT INTO raffle_entries (raffle_id, discord_id)
		VALUES ($1, $2)
	`

	if _, err := r.q.Exec(ctx, query, raffleID, discordID); err != nil {
		return fmt.Errorf("failed to add entry for user %d in raffle %d: %w", discordID, raffleID, err)
	}

	return nil
}

// GetParticipants returns the deduplicated participant IDs in entry order.
func (r *RaffleEntryRepository) GetParticipants(ctx context.Context, raffleID int64) ([]int64, error) {
	query := `
		SELECT discord_id
		FROM raffle_entries
		WHERE raffle_id = $1
		GROUP BY discord_id
		ORDER BY MIN(id)
	`

	rows, err := r.q.Query(ctx, query, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants of raffle %d: %w", raffleID, err)
	}
	defer rows.Close()

	var participants []int64
	for rows.Next() {
		var discordID int64
		if err := rows.Scan(&discordID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, discordID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// CountByUser returns how many tickets a user holds in a raffle.
func (r *RaffleEntryRepository) CountByUser(ctx context.Context, raffleID, discordID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM raffle_entries
		WHERE raffle_id = $1 AND discord_id = $2
	`

	var count int
	err := r.q.QueryRow(ctx, query, raffleID, discordID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets of user %d in raffle %d: %w", discordID, raffleID, err)
	}

	return count, nil
}
