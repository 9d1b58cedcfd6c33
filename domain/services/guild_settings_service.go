package services

import (
	"context"
	"fmt"
	"sync"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/interfaces"
)

// guildSettingsService implements GuildSettingsService with an explicit
// in-memory cache keyed by guild. Every mutation writes through and drops
// the cached copy, and a SettingsSavedEvent is published so other processes
// holding the cache can invalidate too.
type guildSettingsService struct {
	repo interfaces.GuildSettingsRepository
	bus  *events.Bus

	mu    sync.RWMutex
	cache map[int64]*entities.GuildSettings
}

// NewGuildSettingsService creates the settings service. The bus may be nil
// in tests that do not care about invalidation events.
func NewGuildSettingsService(repo interfaces.GuildSettingsRepository, bus *events.Bus) interfaces.GuildSettingsService {
	return &guildSettingsService{
		repo:  repo,
		bus:   bus,
		cache: make(map[int64]*entities.GuildSettings),
	}
}

// GetOrCreateSettings retrieves guild settings, serving repeated reads from
// the cache. Callers must not mutate the returned struct; updates go
// through the Update methods.
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	s.mu.RLock()
	cached, ok := s.cache[guildID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	settings, err := s.repo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings: %w", err)
	}

	s.mu.Lock()
	s.cache[guildID] = settings
	s.mu.Unlock()

	return settings, nil
}

// UpdateRewards sets the daily and weekly reward amounts.
func (s *guildSettingsService) UpdateRewards(ctx context.Context, guildID int64, daily, weekly int64) error {
	if daily <= 0 || weekly <= 0 {
		return domain.NewValidationError("reward amounts must be positive")
	}

	return s.update(ctx, guildID, func(settings *entities.GuildSettings) {
		settings.DailyReward = daily
		settings.WeeklyReward = weekly
	})
}

// UpdateTax sets the contribution floor and the period quota.
func (s *guildSettingsService) UpdateTax(ctx context.Context, guildID int64, minimum, quota int64) error {
	if minimum <= 0 || quota <= 0 {
		return domain.NewValidationError("tax parameters must be positive")
	}
	if minimum > quota {
		return domain.NewValidationError("tax minimum cannot exceed the quota")
	}

	return s.update(ctx, guildID, func(settings *entities.GuildSettings) {
		settings.TaxMinimum = minimum
		settings.TaxQuota = quota
	})
}

// UpdateRaffleChannel sets or clears the raffle announcement channel.
func (s *guildSettingsService) UpdateRaffleChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.update(ctx, guildID, func(settings *entities.GuildSettings) {
		settings.RaffleChannelID = channelID
	})
}

// UpdateLogChannel sets or clears the audit log channel.
func (s *guildSettingsService) UpdateLogChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.update(ctx, guildID, func(settings *entities.GuildSettings) {
		settings.LogChannelID = channelID
	})
}

// Invalidate drops the cached settings for a guild.
func (s *guildSettingsService) Invalidate(guildID int64) {
	s.mu.Lock()
	delete(s.cache, guildID)
	s.mu.Unlock()
}

func (s *guildSettingsService) update(ctx context.Context, guildID int64, mutate func(*entities.GuildSettings)) error {
	settings, err := s.repo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	mutate(settings)

	if err := s.repo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	s.Invalidate(guildID)
	if s.bus != nil {
		s.bus.Emit(ctx, events.SettingsSavedEvent{GuildID: guildID})
	}

	return nil
}
