package services

import (
	"context"
	"fmt"
	"time"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type claimService struct {
	uowFactory interfaces.UnitOfWorkFactory
	settings   interfaces.GuildSettingsService
	now        func() time.Time
}

// NewClaimService creates the reward claim service. The clock is injectable
// for tests; pass nil to use time.Now.
func NewClaimService(uowFactory interfaces.UnitOfWorkFactory, settings interfaces.GuildSettingsService, now func() time.Time) interfaces.ClaimService {
	if now == nil {
		now = time.Now
	}
	return &claimService{uowFactory: uowFactory, settings: settings, now: now}
}

// GetDailyStatus reports the user's current daily-claim window.
func (s *claimService) GetDailyStatus(ctx context.Context, guildID, discordID int64) (*interfaces.DailyStatus, error) {
	now := s.now().UTC()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	claim, err := uow.ClaimRepository().Get(ctx, discordID, entities.ClaimTypeDaily)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	status := &interfaces.DailyStatus{
		CanClaim:    claim.CanClaimDaily(now),
		WeeklyState: claim.CurrentWeekState(now),
		NextClaimAt: entities.NextDailyClaimAt(now),
	}
	if claim != nil {
		status.Streak = claim.Streak
	}
	return status, nil
}

// ClaimDaily credits the guild's daily reward exactly once per calendar day.
// The claim row is seeded when missing and locked for the duration of the
// transaction, so concurrent attempts serialize even for a first-time
// claimant; eligibility is checked only after the lock is held.
func (s *claimService) ClaimDaily(ctx context.Context, guildID, discordID int64) (*interfaces.ClaimResult, error) {
	now := s.now().UTC()

	settings, err := s.settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	claim, err := uow.ClaimRepository().GetForUpdate(ctx, discordID, entities.ClaimTypeDaily)
	if err != nil {
		return nil, err
	}
	if !claim.CanClaimDaily(now) {
		return nil, domain.ErrAlreadyClaimed
	}

	reward := settings.DailyReward
	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, reward)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    reward,
		Reason:    entities.ReasonDailyClaim,
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		return nil, err
	}

	streak := claim.NextStreak(now)
	updated := &entities.Claim{
		DiscordID:     discordID,
		GuildID:       guildID,
		Type:          entities.ClaimTypeDaily,
		LastClaimedAt: now,
		Streak:        streak,
		WeeklyState:   claim.CurrentWeekState(now).Mark(entities.WeekdayIndex(now)),
	}
	if err := uow.ClaimRepository().Upsert(ctx, updated); err != nil {
		return nil, err
	}

	s.creditReferrer(ctx, uow, guildID, discordID, reward)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.ClaimResult{Reward: reward, NewBalance: newBalance, Streak: streak}, nil
}

// creditReferrer pays the claimant's referrer a 10% passive bonus. The
// bonus is best effort: a failure is logged and the claim still commits.
func (s *claimService) creditReferrer(ctx context.Context, uow interfaces.UnitOfWork, guildID, discordID, reward int64) {
	bonus := reward / 10
	if bonus <= 0 {
		return
	}

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil || user == nil || !user.HasReferrer() {
		if err != nil {
			log.WithError(err).WithField("discordID", discordID).Warn("Failed to look up claimant for referral bonus")
		}
		return
	}

	referrerID := *user.ReferredBy
	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, referrerID, bonus)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"referrerID": referrerID,
			"bonus":      bonus,
		}).Warn("Failed to credit referral bonus")
		return
	}

	entry := &entities.LedgerTransaction{
		DiscordID: referrerID,
		GuildID:   guildID,
		Amount:    bonus,
		Reason:    entities.ReasonReferralBonus,
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		log.WithError(err).WithField("referrerID", referrerID).Warn("Failed to record referral bonus")
	}
}

// CanClaimWeekly reports whether the 168-hour cooldown has elapsed.
func (s *claimService) CanClaimWeekly(ctx context.Context, guildID, discordID int64) (bool, time.Time, error) {
	now := s.now().UTC()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return false, time.Time{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	claim, err := uow.ClaimRepository().Get(ctx, discordID, entities.ClaimTypeWeekly)
	if err != nil {
		return false, time.Time{}, err
	}

	if err := uow.Commit(); err != nil {
		return false, time.Time{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if claim.CanClaimWeekly(now) {
		return true, now, nil
	}
	return false, claim.NextWeeklyClaimAt(), nil
}

// ClaimWeekly credits the guild's weekly reward on a 168-hour cooldown.
func (s *claimService) ClaimWeekly(ctx context.Context, guildID, discordID int64) (*interfaces.ClaimResult, error) {
	now := s.now().UTC()

	settings, err := s.settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	claim, err := uow.ClaimRepository().GetForUpdate(ctx, discordID, entities.ClaimTypeWeekly)
	if err != nil {
		return nil, err
	}
	if !claim.CanClaimWeekly(now) {
		return nil, domain.ErrAlreadyClaimed
	}

	reward := settings.WeeklyReward
	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, reward)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    reward,
		Reason:    entities.ReasonWeeklyClaim,
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		return nil, err
	}

	updated := &entities.Claim{
		DiscordID:     discordID,
		GuildID:       guildID,
		Type:          entities.ClaimTypeWeekly,
		LastClaimedAt: now,
	}
	if err := uow.ClaimRepository().Upsert(ctx, updated); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.ClaimResult{Reward: reward, NewBalance: newBalance}, nil
}
