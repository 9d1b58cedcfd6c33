package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements interfaces.UserRepository. Users are global
// (not guild-scoped); wallets carry the guild dimension.
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository over the pool.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

func newUserRepository(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user by their Discord ID.
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	query := `
		SELECT discord_id, username, referred_by, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.ReferredBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", discordID, err)
	}

	return &user, nil
}

// GetOrCreate upserts the user row, refreshing the username on conflict.
func (r *UserRepository) GetOrCreate(ctx context.Context, discordID int64, username string) (*entities.User, error) {
	query := `
		INSERT INTO users (discord_id, username)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
			SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING discord_id, username, referred_by, created_at, updated_at
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, discordID, username).Scan(
		&user.DiscordID,
		&user.Username,
		&user.ReferredBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user %d: %w", discordID, err)
	}

	return &user, nil
}

// SetReferrer records the referrer, conditional on referred_by being unset
// so the link can never be rewritten.
func (r *UserRepository) SetReferrer(ctx context.Context, discordID, referrerID int64) error {
	query := `
		UPDATE users
		SET referred_by = $1, updated_at = NOW()
		WHERE discord_id = $2 AND referred_by IS NULL
	`

	result, err := r.q.Exec(ctx, query, referrerID, discordID)
	if err != nil {
		return fmt.Errorf("failed to set referrer for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		existing, err := r.GetByDiscordID(ctx, discordID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadyExists
	}

	return nil
}
