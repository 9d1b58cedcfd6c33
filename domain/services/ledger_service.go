package services

import (
	"context"
	"fmt"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/interfaces"
)

type ledgerService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewLedgerService creates the wallet ledger service.
func NewLedgerService(uowFactory interfaces.UnitOfWorkFactory) interfaces.LedgerService {
	return &ledgerService{uowFactory: uowFactory}
}

// ModifyBalance atomically applies a delta to a wallet and appends the
// ledger entry. The non-negative balance check happens inside the
// conditional update, so callers need no pre-check.
func (s *ledgerService) ModifyBalance(ctx context.Context, guildID, discordID, amount int64, reason string, moderatorID *int64) (*interfaces.BalanceChangeResult, error) {
	if amount == 0 {
		return nil, domain.NewValidationError("amount must not be zero")
	}
	if reason == "" {
		return nil, domain.NewValidationError("reason is required")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, amount)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID:   discordID,
		GuildID:     guildID,
		Amount:      amount,
		Reason:      reason,
		ModeratorID: moderatorID,
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.BalanceChangeResult{NewBalance: newBalance}, nil
}

// Transfer moves amount between two users in one transaction.
func (s *ledgerService) Transfer(ctx context.Context, guildID, fromDiscordID, toDiscordID, amount int64, reason string) (*interfaces.TransferResult, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("transfer amount must be positive")
	}
	if fromDiscordID == toDiscordID {
		return nil, domain.NewValidationError("cannot transfer to yourself")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newSenderBalance, err := uow.WalletRepository().ApplyDelta(ctx, fromDiscordID, -amount)
	if err != nil {
		return nil, err
	}

	newRecipientBalance, err := uow.WalletRepository().ApplyDelta(ctx, toDiscordID, amount)
	if err != nil {
		return nil, err
	}

	debit := &entities.LedgerTransaction{
		DiscordID: fromDiscordID,
		GuildID:   guildID,
		Amount:    -amount,
		Reason:    reason,
	}
	if err := recordBalanceChange(ctx, uow, debit, newSenderBalance); err != nil {
		return nil, err
	}

	credit := &entities.LedgerTransaction{
		DiscordID: toDiscordID,
		GuildID:   guildID,
		Amount:    amount,
		Reason:    reason,
	}
	if err := recordBalanceChange(ctx, uow, credit, newRecipientBalance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.TransferResult{
		Amount:              amount,
		NewSenderBalance:    newSenderBalance,
		NewRecipientBalance: newRecipientBalance,
	}, nil
}

// GetBalance returns the wallet balance, provisioning the wallet on first
// access.
func (s *ledgerService) GetBalance(ctx context.Context, guildID, discordID int64) (int64, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wallet, err := uow.WalletRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return wallet.Balance, nil
}

// DepositToClan moves amount from a member's wallet into the clan treasury.
func (s *ledgerService) DepositToClan(ctx context.Context, guildID, discordID, clanRoleID, amount int64) (*interfaces.TreasuryMoveResult, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("deposit amount must be positive")
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

	newWalletBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, -amount)
	if err != nil {
		return nil, err
	}

	newTreasuryBalance, err := uow.ClanWalletRepository().ApplyDelta(ctx, clanRoleID, amount)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    -amount,
		Reason:    entities.ReasonClanDeposit,
	}
	if err := recordBalanceChange(ctx, uow, entry, newWalletBalance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.TreasuryMoveResult{
		Amount:             amount,
		NewWalletBalance:   newWalletBalance,
		NewTreasuryBalance: newTreasuryBalance,
	}, nil
}

// WithdrawFromClan moves amount from the clan treasury into a member's
// wallet. The credit is capped by the wallet's capacity.
func (s *ledgerService) WithdrawFromClan(ctx context.Context, guildID, discordID, clanRoleID, amount int64) (*interfaces.TreasuryMoveResult, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("withdrawal amount must be positive")
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
	if member.Authority != entities.AuthorityOwner && member.Authority != entities.AuthorityViceGuildMaster {
		return nil, domain.NewValidationError("only the clan owner or a vice guild master can withdraw from the treasury")
	}

	newTreasuryBalance, err := uow.ClanWalletRepository().ApplyDelta(ctx, clanRoleID, -amount)
	if err != nil {
		return nil, err
	}

	newWalletBalance, err := uow.WalletRepository().ApplyDeltaCapped(ctx, discordID, amount)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    amount,
		Reason:    entities.ReasonClanWithdraw,
	}
	if err := recordBalanceChange(ctx, uow, entry, newWalletBalance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.TreasuryMoveResult{
		Amount:             amount,
		NewWalletBalance:   newWalletBalance,
		NewTreasuryBalance: newTreasuryBalance,
	}, nil
}

// GetTopUsers returns the richest wallets in the guild.
func (s *ledgerService) GetTopUsers(ctx context.Context, guildID int64, limit int) ([]*entities.Wallet, error) {
	if limit <= 0 {
		return nil, domain.NewValidationError("limit must be positive")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wallets, err := uow.WalletRepository().GetTopByBalance(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return wallets, nil
}

// GetUserRank returns the user's 1-based rank by balance.
func (s *ledgerService) GetUserRank(ctx context.Context, guildID, discordID int64) (*interfaces.RankResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rank, balance, err := uow.WalletRepository().GetRank(ctx, discordID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.RankResult{Rank: rank, Balance: balance}, nil
}
