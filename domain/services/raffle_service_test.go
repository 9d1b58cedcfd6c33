package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var raffleNow = time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)

func newRaffleFixture() (*testhelpers.MockUnitOfWorkFactory, *testhelpers.MockUnitOfWork, *testhelpers.MockWalletRepository, *testhelpers.MockRaffleRepository, *testhelpers.MockRaffleEntryRepository) {
	mockUoW := new(testhelpers.MockUnitOfWork)
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)
	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockLedgerRepo := new(testhelpers.MockLedgerRepository)
	mockEarningsRepo := new(testhelpers.MockGuildEarningsRepository)
	mockRaffleRepo := new(testhelpers.MockRaffleRepository)
	mockEntryRepo := new(testhelpers.MockRaffleEntryRepository)

	mockUoW.SetRepositories(nil, mockWalletRepo, mockLedgerRepo, mockEarningsRepo)
	mockUoW.SetRaffleRepositories(mockRaffleRepo, mockEntryRepo)

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLedgerRepo.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()

	return mockFactory, mockUoW, mockWalletRepo, mockRaffleRepo, mockEntryRepo
}

func activeRaffle() *entities.Raffle {
	return &entities.Raffle{
		ID:         7,
		GuildID:    testGuildID,
		Title:      "Nitro giveaway",
		ChannelID:  123,
		TicketCost: 250,
		NumWinners: 2,
		EndTime:    raffleNow.Add(time.Hour),
		Status:     entities.RaffleStatusActive,
	}
}

func TestRaffleService_BuyTicket(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockRaffleRepo, mockEntryRepo := newRaffleFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewRaffleService(mockFactory, nil, fixedClock(raffleNow))

	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(activeRaffle(), nil)
	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(-250)).Return(int64(750), nil)
	mockEntryRepo.On("Add", ctx, int64(7), int64(111)).Return(nil)

	result, err := service.BuyTicket(ctx, testGuildID, 7, 111)

	require.NoError(t, err)
	assert.Equal(t, int64(750), result.NewBalance)
	mockEntryRepo.AssertExpectations(t)
}

func TestRaffleService_BuyTicket_PastEndTime(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockRaffleRepo, _ := newRaffleFixture()

	service := NewRaffleService(mockFactory, nil, fixedClock(raffleNow.Add(2*time.Hour)))

	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(activeRaffle(), nil)

	_, err := service.BuyTicket(ctx, testGuildID, 7, 111)

	assert.ErrorIs(t, err, domain.ErrRaffleEnded)
	mockWalletRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestRaffleService_BuyTicket_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockRaffleRepo, mockEntryRepo := newRaffleFixture()

	service := NewRaffleService(mockFactory, nil, fixedClock(raffleNow))

	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(activeRaffle(), nil)
	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(-250)).Return(int64(0), domain.ErrInsufficientFunds)

	_, err := service.BuyTicket(ctx, testGuildID, 7, 111)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	mockEntryRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestRaffleService_DrawWinners_Deterministic(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockRaffleRepo, mockEntryRepo := newRaffleFixture()
	mockUoW.On("Commit").Return(nil)

	rng := rand.New(rand.NewSource(1))
	service := NewRaffleService(mockFactory, rng, fixedClock(raffleNow))

	participants := []int64{101, 102, 103, 104, 105}
	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(activeRaffle(), nil)
	mockEntryRepo.On("GetParticipants", ctx, int64(7)).Return(participants, nil)

	expected := make([]int64, len(participants))
	copy(expected, participants)
	check := rand.New(rand.NewSource(1))
	check.Shuffle(len(expected), func(i, j int) {
		expected[i], expected[j] = expected[j], expected[i]
	})
	expected = expected[:2]

	mockRaffleRepo.On("MarkEnded", ctx, int64(7), expected).Return(true, nil)

	result, err := service.DrawWinners(ctx, testGuildID, 7)

	require.NoError(t, err)
	assert.Equal(t, expected, result.WinnerIDs)
	assert.Equal(t, 5, result.Participants)
	assert.True(t, result.Raffle.IsEnded())

	require.Len(t, mockUoW.Bus.Events, 1)
	ended, ok := mockUoW.Bus.Events[0].(events.RaffleEndedEvent)
	require.True(t, ok)
	assert.Equal(t, expected, ended.WinnerIDs)
	assert.Equal(t, int64(123), ended.ChannelID)
}

func TestRaffleService_DrawWinners_FewerParticipantsThanSlots(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockRaffleRepo, mockEntryRepo := newRaffleFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewRaffleService(mockFactory, rand.New(rand.NewSource(1)), fixedClock(raffleNow))

	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(activeRaffle(), nil)
	mockEntryRepo.On("GetParticipants", ctx, int64(7)).Return([]int64{101}, nil)
	mockRaffleRepo.On("MarkEnded", ctx, int64(7), []int64{101}).Return(true, nil)

	result, err := service.DrawWinners(ctx, testGuildID, 7)

	require.NoError(t, err)
	assert.Equal(t, []int64{101}, result.WinnerIDs)
}

func TestRaffleService_DrawWinners_NoParticipants(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockRaffleRepo, mockEntryRepo := newRaffleFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewRaffleService(mockFactory, nil, fixedClock(raffleNow))

	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(activeRaffle(), nil)
	mockEntryRepo.On("GetParticipants", ctx, int64(7)).Return(nil, nil)
	mockRaffleRepo.On("MarkEnded", ctx, int64(7), []int64{}).Return(true, nil)

	result, err := service.DrawWinners(ctx, testGuildID, 7)

	require.NoError(t, err)
	assert.Empty(t, result.WinnerIDs)
	assert.Equal(t, 0, result.Participants)
}

func TestRaffleService_DrawWinners_AlreadyEnded(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockRaffleRepo, mockEntryRepo := newRaffleFixture()

	service := NewRaffleService(mockFactory, nil, fixedClock(raffleNow))

	ended := activeRaffle()
	ended.Status = entities.RaffleStatusEnded
	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(ended, nil)

	_, err := service.DrawWinners(ctx, testGuildID, 7)

	assert.ErrorIs(t, err, domain.ErrRaffleEnded)
	mockEntryRepo.AssertNotCalled(t, "GetParticipants", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestRaffleService_DrawWinners_LostConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockRaffleRepo, mockEntryRepo := newRaffleFixture()

	service := NewRaffleService(mockFactory, rand.New(rand.NewSource(1)), fixedClock(raffleNow))

	// The read saw an active raffle, but another draw won the conditional
	// update in between.
	mockRaffleRepo.On("GetByID", ctx, int64(7)).Return(activeRaffle(), nil)
	mockEntryRepo.On("GetParticipants", ctx, int64(7)).Return([]int64{101, 102}, nil)
	mockRaffleRepo.On("MarkEnded", ctx, int64(7), mock.Anything).Return(false, nil)

	_, err := service.DrawWinners(ctx, testGuildID, 7)

	assert.ErrorIs(t, err, domain.ErrRaffleEnded)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestRaffleService_CreateRaffle_Validation(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)

	service := NewRaffleService(mockFactory, nil, fixedClock(raffleNow))

	var ve *domain.ValidationError

	_, err := service.CreateRaffle(ctx, testGuildID, "", 123, 250, 2, raffleNow.Add(time.Hour))
	assert.ErrorAs(t, err, &ve)

	_, err = service.CreateRaffle(ctx, testGuildID, "Nitro", 123, 250, 0, raffleNow.Add(time.Hour))
	assert.ErrorAs(t, err, &ve)

	_, err = service.CreateRaffle(ctx, testGuildID, "Nitro", 123, 250, 2, raffleNow.Add(-time.Hour))
	assert.ErrorAs(t, err, &ve)

	mockFactory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
}
