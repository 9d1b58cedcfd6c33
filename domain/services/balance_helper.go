package services

import (
	"context"
	"fmt"

	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/interfaces"
)

// recordBalanceChange is the single entry point for wallet mutations inside
// a unit of work: it appends the ledger entry, feeds the currency-acquired
// aggregate for organic credits, and queues the balance change event for
// delivery after commit.
func recordBalanceChange(ctx context.Context, uow interfaces.UnitOfWork, entry *entities.LedgerTransaction, newBalance int64) error {
	if err := uow.LedgerRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	if entry.IsOrganic() {
		if err := uow.GuildEarningsRepository().AddAcquired(ctx, entry.CreatedAt, entry.Amount); err != nil {
			return fmt.Errorf("failed to update guild earnings: %w", err)
		}
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:  entry.DiscordID,
		GuildID:    entry.GuildID,
		Amount:     entry.Amount,
		NewBalance: newBalance,
		Reason:     entry.Reason,
	})

	return nil
}
