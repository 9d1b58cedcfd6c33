package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain/entities"
)

// GuildSettingsRepository implements interfaces.GuildSettingsRepository.
// Unlike the other repositories it takes the guild ID per call: settings
// are read outside guild-scoped units of work by the cache layer.
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a settings repository over the pool.
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

func newGuildSettingsRepository(tx queryable) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx}
}

// GetOrCreateGuildSettings retrieves settings, creating a row with defaults
// when the guild is new.
func (r *GuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	query := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE
			SET guild_id = guild_settings.guild_id
		RETURNING guild_id, daily_reward, weekly_reward, tax_minimum, tax_quota,
		          raffle_channel_id, log_channel_id
	`

	var settings entities.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.DailyReward,
		&settings.WeeklyReward,
		&settings.TaxMinimum,
		&settings.TaxQuota,
		&settings.RaffleChannelID,
		&settings.LogChannelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// UpdateGuildSettings persists the settings row.
func (r *GuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET daily_reward = $1,
		    weekly_reward = $2,
		    tax_minimum = $3,
		    tax_quota = $4,
		    raffle_channel_id = $5,
		    log_channel_id = $6
		WHERE guild_id = $7
	`

	_, err := r.q.Exec(ctx, query,
		settings.DailyReward,
		settings.WeeklyReward,
		settings.TaxMinimum,
		settings.TaxQuota,
		settings.RaffleChannelID,
		settings.LogChannelID,
		settings.GuildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings for guild %d: %w", settings.GuildID, err)
	}

	return nil
}
