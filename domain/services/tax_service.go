package services

import (
	"context"
	"fmt"
	"time"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/interfaces"
)

type taxService struct {
	uowFactory interfaces.UnitOfWorkFactory
	settings   interfaces.GuildSettingsService
	now        func() time.Time
}

// NewTaxService creates the clan tax service. Pass nil for now to use
// time.Now.
func NewTaxService(uowFactory interfaces.UnitOfWorkFactory, settings interfaces.GuildSettingsService, now func() time.Time) interfaces.TaxService {
	if now == nil {
		now = time.Now
	}
	return &taxService{uowFactory: uowFactory, settings: settings, now: now}
}

// Contribute debits the member's wallet and increments the clan's period
// counter in one transaction. The debit failing aborts everything.
func (s *taxService) Contribute(ctx context.Context, guildID, clanRoleID, discordID, amount int64) (*interfaces.ContributionResult, error) {
	settings, err := s.settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if amount < settings.TaxMinimum {
		return nil, domain.NewValidationError("contribution must be at least %d", settings.TaxMinimum)
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clan, err := uow.ClanRepository().GetByRoleID(ctx, clanRoleID)
	if err != nil {
		return nil, err
	}
	if clan == nil {
		return nil, domain.ErrNotFound
	}

	member, err := uow.ClanMemberRepository().Get(ctx, clanRoleID, discordID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.NewValidationError("you are not a member of this clan")
	}

	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, -amount)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    -amount,
		Reason:    entities.ReasonTaxPayment,
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		return nil, err
	}

	tax, err := uow.ClanTaxRepository().AddContribution(ctx, clanRoleID, amount, discordID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.ContributionResult{
		Amount:           amount,
		NewWalletBalance: newBalance,
		TotalContributed: tax.AmountContributed,
		Quota:            settings.TaxQuota,
	}, nil
}

// ResetPeriod zeroes the clan's counter. Idempotent; invoked by the
// calendar scheduler.
func (s *taxService) ResetPeriod(ctx context.Context, guildID, clanRoleID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ClanTaxRepository().ResetPeriod(ctx, clanRoleID, s.now().UTC()); err != nil {
		return err
	}

	uow.EventBus().Publish(events.TaxResetEvent{
		ClanRoleID: clanRoleID,
		GuildID:    guildID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetProgress returns contribution progress against the guild quota.
func (s *taxService) GetProgress(ctx context.Context, guildID, clanRoleID int64) (*interfaces.TaxProgress, error) {
	settings, err := s.settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clan, err := uow.ClanRepository().GetByRoleID(ctx, clanRoleID)
	if err != nil {
		return nil, err
	}
	if clan == nil {
		return nil, domain.ErrNotFound
	}

	tax, err := uow.ClanTaxRepository().GetOrCreate(ctx, clanRoleID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.TaxProgress{
		Contributed:       tax.AmountContributed,
		Quota:             settings.TaxQuota,
		LastContributorID: tax.LastContributorID,
		LastResetAt:       tax.LastResetAt,
	}, nil
}
