// Package testhelpers provides testify mocks for the repository and unit
// of work interfaces, shared by service and handler tests.
package testhelpers

import (
	"context"
	"time"

	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, discordID int64, username string) (*entities.User, error) {
	args := m.Called(ctx, discordID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) SetReferrer(ctx context.Context, discordID, referrerID int64) error {
	args := m.Called(ctx, discordID, referrerID)
	return args.Error(0)
}

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ApplyDelta(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) ApplyDeltaCapped(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) GetTopByBalance(ctx context.Context, limit int) ([]*entities.Wallet, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetRank(ctx context.Context, discordID int64) (int, int64, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Get(1).(int64), args.Error(2)
}

// MockClanWalletRepository is a mock implementation of ClanWalletRepository.
type MockClanWalletRepository struct {
	mock.Mock
}

func (m *MockClanWalletRepository) GetOrCreate(ctx context.Context, clanRoleID int64) (*entities.ClanWallet, error) {
	args := m.Called(ctx, clanRoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanWallet), args.Error(1)
}

func (m *MockClanWalletRepository) ApplyDelta(ctx context.Context, clanRoleID int64, amount int64) (int64, error) {
	args := m.Called(ctx, clanRoleID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClanWalletRepository) Delete(ctx context.Context, clanRoleID int64) error {
	args := m.Called(ctx, clanRoleID)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, tx *entities.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.LedgerTransaction, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerTransaction), args.Error(1)
}

// MockGuildEarningsRepository is a mock implementation of
// GuildEarningsRepository.
type MockGuildEarningsRepository struct {
	mock.Mock
}

func (m *MockGuildEarningsRepository) AddAcquired(ctx context.Context, day time.Time, amount int64) error {
	args := m.Called(ctx, day, amount)
	return args.Error(0)
}

func (m *MockGuildEarningsRepository) GetAcquired(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockClanRepository is a mock implementation of ClanRepository.
type MockClanRepository struct {
	mock.Mock
}

func (m *MockClanRepository) Create(ctx context.Context, clan *entities.Clan) error {
	args := m.Called(ctx, clan)
	return args.Error(0)
}

func (m *MockClanRepository) GetByRoleID(ctx context.Context, clanRoleID int64) (*entities.Clan, error) {
	args := m.Called(ctx, clanRoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Clan), args.Error(1)
}

func (m *MockClanRepository) UpdateOwner(ctx context.Context, clanRoleID, ownerDiscordID int64) error {
	args := m.Called(ctx, clanRoleID, ownerDiscordID)
	return args.Error(0)
}

func (m *MockClanRepository) UpdateMotto(ctx context.Context, clanRoleID int64, motto *string) error {
	args := m.Called(ctx, clanRoleID, motto)
	return args.Error(0)
}

func (m *MockClanRepository) Delete(ctx context.Context, clanRoleID int64) error {
	args := m.Called(ctx, clanRoleID)
	return args.Error(0)
}

func (m *MockClanRepository) ListAll(ctx context.Context) ([]*entities.Clan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clan), args.Error(1)
}

// MockClanMemberRepository is a mock implementation of ClanMemberRepository.
type MockClanMemberRepository struct {
	mock.Mock
}

func (m *MockClanMemberRepository) Get(ctx context.Context, clanRoleID, discordID int64) (*entities.ClanMember, error) {
	args := m.Called(ctx, clanRoleID, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanMember), args.Error(1)
}

func (m *MockClanMemberRepository) Add(ctx context.Context, member *entities.ClanMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockClanMemberRepository) UpdateAuthority(ctx context.Context, clanRoleID, discordID int64, authority entities.ClanAuthority) error {
	args := m.Called(ctx, clanRoleID, discordID, authority)
	return args.Error(0)
}

func (m *MockClanMemberRepository) Remove(ctx context.Context, clanRoleID, discordID int64) error {
	args := m.Called(ctx, clanRoleID, discordID)
	return args.Error(0)
}

func (m *MockClanMemberRepository) CountByAuthority(ctx context.Context, clanRoleID int64, authority entities.ClanAuthority) (int, error) {
	args := m.Called(ctx, clanRoleID, authority)
	return args.Int(0), args.Error(1)
}

func (m *MockClanMemberRepository) ListByClan(ctx context.Context, clanRoleID int64) ([]*entities.ClanMember, error) {
	args := m.Called(ctx, clanRoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ClanMember), args.Error(1)
}

func (m *MockClanMemberRepository) RemoveByClan(ctx context.Context, clanRoleID int64) error {
	args := m.Called(ctx, clanRoleID)
	return args.Error(0)
}

// MockShopItemRepository is a mock implementation of ShopItemRepository.
type MockShopItemRepository struct {
	mock.Mock
}

func (m *MockShopItemRepository) Create(ctx context.Context, item *entities.ShopItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShopItemRepository) GetByRoleID(ctx context.Context, roleID int64) (*entities.ShopItem, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) Update(ctx context.Context, item *entities.ShopItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShopItemRepository) Delete(ctx context.Context, roleID int64) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *MockShopItemRepository) List(ctx context.Context) ([]*entities.ShopItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ShopItem), args.Error(1)
}

// MockClaimRepository is a mock implementation of ClaimRepository.
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Get(ctx context.Context, discordID int64, claimType entities.ClaimType) (*entities.Claim, error) {
	args := m.Called(ctx, discordID, claimType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) GetForUpdate(ctx context.Context, discordID int64, claimType entities.ClaimType) (*entities.Claim, error) {
	args := m.Called(ctx, discordID, claimType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) Upsert(ctx context.Context, claim *entities.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

// MockClanTaxRepository is a mock implementation of ClanTaxRepository.
type MockClanTaxRepository struct {
	mock.Mock
}

func (m *MockClanTaxRepository) GetOrCreate(ctx context.Context, clanRoleID int64) (*entities.ClanTax, error) {
	args := m.Called(ctx, clanRoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanTax), args.Error(1)
}

func (m *MockClanTaxRepository) AddContribution(ctx context.Context, clanRoleID, amount, contributorID int64) (*entities.ClanTax, error) {
	args := m.Called(ctx, clanRoleID, amount, contributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanTax), args.Error(1)
}

func (m *MockClanTaxRepository) ResetPeriod(ctx context.Context, clanRoleID int64, resetAt time.Time) error {
	args := m.Called(ctx, clanRoleID, resetAt)
	return args.Error(0)
}

func (m *MockClanTaxRepository) Delete(ctx context.Context, clanRoleID int64) error {
	args := m.Called(ctx, clanRoleID)
	return args.Error(0)
}

// MockRaffleRepository is a mock implementation of RaffleRepository.
type MockRaffleRepository struct {
	mock.Mock
}

func (m *MockRaffleRepository) Create(ctx context.Context, raffle *entities.Raffle) error {
	args := m.Called(ctx, raffle)
	return args.Error(0)
}

func (m *MockRaffleRepository) GetByID(ctx context.Context, id int64) (*entities.Raffle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) SetMessageID(ctx context.Context, id, messageID int64) error {
	args := m.Called(ctx, id, messageID)
	return args.Error(0)
}

func (m *MockRaffleRepository) MarkEnded(ctx context.Context, id int64, winnerIDs []int64) (bool, error) {
	args := m.Called(ctx, id, winnerIDs)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaffleRepository) ListExpired(ctx context.Context, now time.Time) ([]*entities.Raffle, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Raffle), args.Error(1)
}

// MockRaffleEntryRepository is a mock implementation of
// RaffleEntryRepository.
type MockRaffleEntryRepository struct {
	mock.Mock
}

func (m *MockRaffleEntryRepository) Add(ctx context.Context, raffleID, discordID int64) error {
	args := m.Called(ctx, raffleID, discordID)
	return args.Error(0)
}

func (m *MockRaffleEntryRepository) GetParticipants(ctx context.Context, raffleID int64) ([]int64, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockRaffleEntryRepository) CountByUser(ctx context.Context, raffleID, discordID int64) (int, error) {
	args := m.Called(ctx, raffleID, discordID)
	return args.Int(0), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of
// GuildSettingsRepository.
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// RecordingEventBus collects events published inside a unit of work so
// tests can assert on them.
type RecordingEventBus struct {
	Events []events.Event
}

func (b *RecordingEventBus) Publish(e events.Event) {
	b.Events = append(b.Events, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the instances wired via SetRepositories; unset repositories come
// back nil, which fails loudly when a test forgets to wire one.
type MockUnitOfWork struct {
	mock.Mock

	userRepo          interfaces.UserRepository
	walletRepo        interfaces.WalletRepository
	clanWalletRepo    interfaces.ClanWalletRepository
	ledgerRepo        interfaces.LedgerRepository
	earningsRepo      interfaces.GuildEarningsRepository
	clanRepo          interfaces.ClanRepository
	clanMemberRepo    interfaces.ClanMemberRepository
	shopItemRepo      interfaces.ShopItemRepository
	claimRepo         interfaces.ClaimRepository
	clanTaxRepo       interfaces.ClanTaxRepository
	raffleRepo        interfaces.RaffleRepository
	raffleEntryRepo   interfaces.RaffleEntryRepository
	guildSettingsRepo interfaces.GuildSettingsRepository

	Bus *RecordingEventBus
}

// SetRepositories wires the repositories commonly needed by money-moving
// tests. Less common repositories have dedicated setters.
func (m *MockUnitOfWork) SetRepositories(
	userRepo interfaces.UserRepository,
	walletRepo interfaces.WalletRepository,
	ledgerRepo interfaces.LedgerRepository,
	earningsRepo interfaces.GuildEarningsRepository,
) {
	m.userRepo = userRepo
	m.walletRepo = walletRepo
	m.ledgerRepo = ledgerRepo
	m.earningsRepo = earningsRepo
	if m.Bus == nil {
		m.Bus = &RecordingEventBus{}
	}
}

func (m *MockUnitOfWork) SetClanRepositories(
	clanRepo interfaces.ClanRepository,
	clanMemberRepo interfaces.ClanMemberRepository,
	clanWalletRepo interfaces.ClanWalletRepository,
	clanTaxRepo interfaces.ClanTaxRepository,
) {
	m.clanRepo = clanRepo
	m.clanMemberRepo = clanMemberRepo
	m.clanWalletRepo = clanWalletRepo
	m.clanTaxRepo = clanTaxRepo
	if m.Bus == nil {
		m.Bus = &RecordingEventBus{}
	}
}

func (m *MockUnitOfWork) SetShopItemRepository(repo interfaces.ShopItemRepository) {
	m.shopItemRepo = repo
	if m.Bus == nil {
		m.Bus = &RecordingEventBus{}
	}
}

func (m *MockUnitOfWork) SetClaimRepository(repo interfaces.ClaimRepository) {
	m.claimRepo = repo
	if m.Bus == nil {
		m.Bus = &RecordingEventBus{}
	}
}

func (m *MockUnitOfWork) SetRaffleRepositories(raffleRepo interfaces.RaffleRepository, entryRepo interfaces.RaffleEntryRepository) {
	m.raffleRepo = raffleRepo
	m.raffleEntryRepo = entryRepo
	if m.Bus == nil {
		m.Bus = &RecordingEventBus{}
	}
}

func (m *MockUnitOfWork) SetGuildSettingsRepository(repo interfaces.GuildSettingsRepository) {
	m.guildSettingsRepo = repo
	if m.Bus == nil {
		m.Bus = &RecordingEventBus{}
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() interfaces.UserRepository       { return m.userRepo }
func (m *MockUnitOfWork) WalletRepository() interfaces.WalletRepository   { return m.walletRepo }
func (m *MockUnitOfWork) LedgerRepository() interfaces.LedgerRepository   { return m.ledgerRepo }
func (m *MockUnitOfWork) ClanRepository() interfaces.ClanRepository       { return m.clanRepo }
func (m *MockUnitOfWork) ClaimRepository() interfaces.ClaimRepository     { return m.claimRepo }
func (m *MockUnitOfWork) RaffleRepository() interfaces.RaffleRepository   { return m.raffleRepo }
func (m *MockUnitOfWork) ClanTaxRepository() interfaces.ClanTaxRepository { return m.clanTaxRepo }

func (m *MockUnitOfWork) ClanWalletRepository() interfaces.ClanWalletRepository {
	return m.clanWalletRepo
}

func (m *MockUnitOfWork) GuildEarningsRepository() interfaces.GuildEarningsRepository {
	return m.earningsRepo
}

func (m *MockUnitOfWork) ClanMemberRepository() interfaces.ClanMemberRepository {
	return m.clanMemberRepo
}

func (m *MockUnitOfWork) ShopItemRepository() interfaces.ShopItemRepository {
	return m.shopItemRepo
}

func (m *MockUnitOfWork) RaffleEntryRepository() interfaces.RaffleEntryRepository {
	return m.raffleEntryRepo
}

func (m *MockUnitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	return m.guildSettingsRepo
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	if m.Bus == nil {
		m.Bus = &RecordingEventBus{}
	}
	return m.Bus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory.
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	args := m.Called(guildID)
	return args.Get(0).(interfaces.UnitOfWork)
}
