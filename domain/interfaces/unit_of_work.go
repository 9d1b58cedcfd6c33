package interfaces

import (
	"context"

	"solyx/domain/events"
)

// EventPublisher queues events for delivery after the surrounding unit of
// work commits.
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork groups repository operations into one database transaction.
// Every money-moving service operation runs entirely inside a single unit
// of work so concurrent requests serialize on the rows they touch.
type UnitOfWork interface {
	// Begin starts the transaction.
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events.
	Commit() error

	// Rollback rolls back the transaction; a no-op after Commit.
	Rollback() error

	// Repository getters, valid only between Begin and Commit/Rollback.
	UserRepository() UserRepository
	WalletRepository() WalletRepository
	ClanWalletRepository() ClanWalletRepository
	LedgerRepository() LedgerRepository
	GuildEarningsRepository() GuildEarningsRepository
	ClanRepository() ClanRepository
	ClanMemberRepository() ClanMemberRepository
	ShopItemRepository() ShopItemRepository
	ClaimRepository() ClaimRepository
	ClanTaxRepository() ClanTaxRepository
	RaffleRepository() RaffleRepository
	RaffleEntryRepository() RaffleEntryRepository
	GuildSettingsRepository() GuildSettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances.
type UnitOfWorkFactory interface {
	// CreateForGuild creates a unit of work scoped to a guild. Guild 0 is
	// used by schedulers for cross-guild queries.
	CreateForGuild(guildID int64) UnitOfWork
}
