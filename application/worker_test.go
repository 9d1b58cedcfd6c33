package application

import (
	"context"
	"testing"
	"time"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/interfaces"
	"solyx/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var workerNow = time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)

type mockRaffleService struct {
	mock.Mock
}

func (m *mockRaffleService) CreateRaffle(ctx context.Context, guildID int64, title string, channelID, ticketCost int64, numWinners int, endTime time.Time) (*entities.Raffle, error) {
	args := m.Called(ctx, guildID, title, channelID, ticketCost, numWinners, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *mockRaffleService) BuyTicket(ctx context.Context, guildID, raffleID, discordID int64) (*interfaces.BalanceChangeResult, error) {
	args := m.Called(ctx, guildID, raffleID, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.BalanceChangeResult), args.Error(1)
}

func (m *mockRaffleService) DrawWinners(ctx context.Context, guildID, raffleID int64) (*interfaces.DrawResult, error) {
	args := m.Called(ctx, guildID, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.DrawResult), args.Error(1)
}

func (m *mockRaffleService) GetRaffle(ctx context.Context, guildID, raffleID int64) (*entities.Raffle, error) {
	args := m.Called(ctx, guildID, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Raffle), args.Error(1)
}

func (m *mockRaffleService) ListExpired(ctx context.Context, now time.Time) ([]*entities.Raffle, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Raffle), args.Error(1)
}

type mockTaxService struct {
	mock.Mock
}

func (m *mockTaxService) Contribute(ctx context.Context, guildID, clanRoleID, discordID, amount int64) (*interfaces.ContributionResult, error) {
	args := m.Called(ctx, guildID, clanRoleID, discordID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.ContributionResult), args.Error(1)
}

func (m *mockTaxService) ResetPeriod(ctx context.Context, guildID, clanRoleID int64) error {
	args := m.Called(ctx, guildID, clanRoleID)
	return args.Error(0)
}

func (m *mockTaxService) GetProgress(ctx context.Context, guildID, clanRoleID int64) (*interfaces.TaxProgress, error) {
	args := m.Called(ctx, guildID, clanRoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.TaxProgress), args.Error(1)
}

func TestRaffleSweepWorker_DrawsExpiredRaffles(t *testing.T) {
	raffles := new(mockRaffleService)
	expired := []*entities.Raffle{
		{ID: 1, GuildID: 100},
		{ID: 2, GuildID: 200},
	}
	raffles.On("ListExpired", mock.Anything, workerNow).Return(expired, nil)
	raffles.On("DrawWinners", mock.Anything, int64(100), int64(1)).
		Return(&interfaces.DrawResult{Raffle: expired[0], WinnerIDs: []int64{5}, Participants: 3}, nil)
	raffles.On("DrawWinners", mock.Anything, int64(200), int64(2)).
		Return(&interfaces.DrawResult{Raffle: expired[1], WinnerIDs: []int64{}, Participants: 0}, nil)

	worker := NewRaffleSweepWorker(raffles, func() time.Time { return workerNow })
	err := worker.Run(context.Background())

	require.NoError(t, err)
	raffles.AssertExpectations(t)
}

func TestRaffleSweepWorker_SkipsConcurrentlyDrawn(t *testing.T) {
	raffles := new(mockRaffleService)
	expired := []*entities.Raffle{
		{ID: 1, GuildID: 100},
		{ID: 2, GuildID: 100},
	}
	raffles.On("ListExpired", mock.Anything, workerNow).Return(expired, nil)
	raffles.On("DrawWinners", mock.Anything, int64(100), int64(1)).
		Return(nil, domain.ErrRaffleEnded)
	raffles.On("DrawWinners", mock.Anything, int64(100), int64(2)).
		Return(&interfaces.DrawResult{Raffle: expired[1], WinnerIDs: []int64{9}, Participants: 1}, nil)

	worker := NewRaffleSweepWorker(raffles, func() time.Time { return workerNow })
	err := worker.Run(context.Background())

	// A raffle drawn by another instance is skipped, the rest still draw.
	require.NoError(t, err)
	raffles.AssertExpectations(t)
}

func TestTaxResetWorker_ResetsEveryClan(t *testing.T) {
	mockClanRepo := new(testhelpers.MockClanRepository)
	mockClanRepo.On("ListAll", mock.Anything).Return([]*entities.Clan{
		{ClanRoleID: 11, GuildID: 100},
		{ClanRoleID: 22, GuildID: 200},
	}, nil)

	mockUoW := new(testhelpers.MockUnitOfWork)
	mockUoW.SetClanRepositories(mockClanRepo, nil, nil, nil)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	factory := new(testhelpers.MockUnitOfWorkFactory)
	factory.On("CreateForGuild", int64(0)).Return(mockUoW)

	taxes := new(mockTaxService)
	taxes.On("ResetPeriod", mock.Anything, int64(100), int64(11)).Return(nil)
	taxes.On("ResetPeriod", mock.Anything, int64(200), int64(22)).Return(nil)

	worker := NewTaxResetWorker(factory, taxes)
	err := worker.Run(context.Background())

	require.NoError(t, err)
	taxes.AssertExpectations(t)
}

func TestTaxResetWorker_ContinuesPastFailures(t *testing.T) {
	mockClanRepo := new(testhelpers.MockClanRepository)
	mockClanRepo.On("ListAll", mock.Anything).Return([]*entities.Clan{
		{ClanRoleID: 11, GuildID: 100},
		{ClanRoleID: 22, GuildID: 100},
	}, nil)

	mockUoW := new(testhelpers.MockUnitOfWork)
	mockUoW.SetClanRepositories(mockClanRepo, nil, nil, nil)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	factory := new(testhelpers.MockUnitOfWorkFactory)
	factory.On("CreateForGuild", int64(0)).Return(mockUoW)

	taxes := new(mockTaxService)
	taxes.On("ResetPeriod", mock.Anything, int64(100), int64(11)).Return(assert.AnError)
	taxes.On("ResetPeriod", mock.Anything, int64(100), int64(22)).Return(nil)

	worker := NewTaxResetWorker(factory, taxes)
	err := worker.Run(context.Background())

	// One clan failing must not stop the remaining resets.
	require.NoError(t, err)
	taxes.AssertExpectations(t)
}
