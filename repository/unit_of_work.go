package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain/events"
	"solyx/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements interfaces.UnitOfWork over a pgx transaction. All
// repositories handed out share the transaction, and events published
// through EventBus are held back until Commit.
type unitOfWork struct {
	db        *database.DB
	bus       *events.Bus
	guildID   int64
	tx        pgx.Tx
	ctx       context.Context
	txBus     *events.TransactionalBus
	committed bool

	userRepo          *UserRepository
	walletRepo        *WalletRepository
	clanWalletRepo    *ClanWalletRepository
	ledgerRepo        *LedgerRepository
	earningsRepo      *GuildEarningsRepository
	clanRepo          *ClanRepository
	clanMemberRepo    *ClanMemberRepository
	shopItemRepo      *ShopItemRepository
	claimRepo         *ClaimRepository
	clanTaxRepo       *ClanTaxRepository
	raffleRepo        *RaffleRepository
	raffleEntryRepo   *RaffleEntryRepository
	guildSettingsRepo *GuildSettingsRepository
}

// unitOfWorkFactory implements interfaces.UnitOfWorkFactory.
type unitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a factory producing units of work over the
// given database and event bus.
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, bus: bus}
}

// CreateForGuild creates a unit of work scoped to a guild.
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	return &unitOfWork{db: f.db, bus: f.bus, guildID: guildID}
}

// Begin starts the transaction and builds the transaction-scoped
// repositories.
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("unit of work already started")
	}

	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.txBus = events.NewTransactionalBus(u.bus)

	u.userRepo = newUserRepository(tx)
	u.walletRepo = newWalletRepository(tx, u.guildID)
	u.clanWalletRepo = newClanWalletRepository(tx, u.guildID)
	u.ledgerRepo = newLedgerRepository(tx, u.guildID)
	u.earningsRepo = newGuildEarningsRepository(tx, u.guildID)
	u.clanRepo = newClanRepository(tx, u.guildID)
	u.clanMemberRepo = newClanMemberRepository(tx, u.guildID)
	u.shopItemRepo = newShopItemRepository(tx, u.guildID)
	u.claimRepo = newClaimRepository(tx, u.guildID)
	u.clanTaxRepo = newClanTaxRepository(tx, u.guildID)
	u.raffleRepo = newRaffleRepository(tx, u.guildID)
	u.raffleEntryRepo = newRaffleEntryRepository(tx, u.guildID)
	u.guildSettingsRepo = newGuildSettingsRepository(tx)

	return nil
}

// Commit commits the transaction and flushes pending events.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("unit of work not started")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		u.txBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.committed = true
	u.txBus.Flush(u.ctx)
	return nil
}

// Rollback rolls back the transaction. Safe to defer: a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil || u.committed {
		return nil
	}

	u.txBus.Discard()
	if err := u.tx.Rollback(u.ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func (u *unitOfWork) UserRepository() interfaces.UserRepository       { return u.userRepo }
func (u *unitOfWork) WalletRepository() interfaces.WalletRepository   { return u.walletRepo }
func (u *unitOfWork) LedgerRepository() interfaces.LedgerRepository   { return u.ledgerRepo }
func (u *unitOfWork) ClanRepository() interfaces.ClanRepository       { return u.clanRepo }
func (u *unitOfWork) ClaimRepository() interfaces.ClaimRepository     { return u.claimRepo }
func (u *unitOfWork) RaffleRepository() interfaces.RaffleRepository   { return u.raffleRepo }
func (u *unitOfWork) ClanTaxRepository() interfaces.ClanTaxRepository { return u.clanTaxRepo }
func (u *unitOfWork) EventBus() interfaces.EventPublisher             { return u.txBus }

func (u *unitOfWork) ClanWalletRepository() interfaces.ClanWalletRepository {
	return u.clanWalletRepo
}

func (u *unitOfWork) GuildEarningsRepository() interfaces.GuildEarningsRepository {
	return u.earningsRepo
}

func (u *unitOfWork) ClanMemberRepository() interfaces.ClanMemberRepository {
	return u.clanMemberRepo
}

func (u *unitOfWork) ShopItemRepository() interfaces.ShopItemRepository {
	return u.shopItemRepo
}

func (u *unitOfWork) RaffleEntryRepository() interfaces.RaffleEntryRepository {
	return u.raffleEntryRepo
}

func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	return u.guildSettingsRepo
}
