package services

import (
	"context"
	"testing"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*testhelpers.MockUnitOfWorkFactory, *testhelpers.MockUnitOfWork, *testhelpers.MockUserRepository, *testhelpers.MockWalletRepository) {
	mockUoW := new(testhelpers.MockUnitOfWork)
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)
	mockUserRepo := new(testhelpers.MockUserRepository)
	mockWalletRepo := new(testhelpers.MockWalletRepository)

	mockUoW.SetRepositories(mockUserRepo, mockWalletRepo, nil, nil)

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockUserRepo, mockWalletRepo
}

func TestUserService_GetOrCreateUser_New(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockWalletRepo := newUserFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewUserService(mockFactory)

	created := &entities.User{DiscordID: 111, Username: "newcomer"}
	mockUserRepo.On("GetByDiscordID", ctx, int64(111)).Return(nil, nil)
	mockUserRepo.On("GetOrCreate", ctx, int64(111), "newcomer").Return(created, nil)
	mockWalletRepo.On("GetOrCreate", ctx, int64(111)).Return(&entities.Wallet{
		DiscordID: 111,
		Balance:   entities.DefaultWalletBalance,
		Capacity:  entities.DefaultWalletCapacity,
	}, nil)

	user, err := service.GetOrCreateUser(ctx, testGuildID, 111, "newcomer")

	require.NoError(t, err)
	assert.Equal(t, created, user)

	require.Len(t, mockUoW.Bus.Events, 1)
	evt, ok := mockUoW.Bus.Events[0].(events.UserCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(111), evt.DiscordID)
}

func TestUserService_GetOrCreateUser_Existing(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockWalletRepo := newUserFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewUserService(mockFactory)

	existing := &entities.User{DiscordID: 111, Username: "veteran"}
	mockUserRepo.On("GetByDiscordID", ctx, int64(111)).Return(existing, nil)
	mockUserRepo.On("GetOrCreate", ctx, int64(111), "veteran").Return(existing, nil)
	mockWalletRepo.On("GetOrCreate", ctx, int64(111)).Return(&entities.Wallet{DiscordID: 111}, nil)

	_, err := service.GetOrCreateUser(ctx, testGuildID, 111, "veteran")

	require.NoError(t, err)
	assert.Empty(t, mockUoW.Bus.Events, "no creation event for a known user")
}

func TestUserService_RegisterReferral(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newUserFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewUserService(mockFactory)

	mockUserRepo.On("GetByDiscordID", ctx, int64(999)).Return(&entities.User{DiscordID: 999, Username: "referrer"}, nil)
	mockUserRepo.On("SetReferrer", ctx, int64(111), int64(999)).Return(nil)

	err := service.RegisterReferral(ctx, testGuildID, 111, 999)

	require.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_RegisterReferral_Self(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)

	service := NewUserService(mockFactory)

	err := service.RegisterReferral(ctx, testGuildID, 111, 111)

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockFactory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
}

func TestUserService_RegisterReferral_SecondAttempt(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newUserFixture()

	service := NewUserService(mockFactory)

	mockUserRepo.On("GetByDiscordID", ctx, int64(999)).Return(&entities.User{DiscordID: 999, Username: "referrer"}, nil)
	mockUserRepo.On("SetReferrer", ctx, int64(111), int64(999)).Return(domain.ErrAlreadyExists)

	err := service.RegisterReferral(ctx, testGuildID, 111, 999)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestUserService_RegisterReferral_UnknownReferrer(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockUserRepo, _ := newUserFixture()

	service := NewUserService(mockFactory)

	mockUserRepo.On("GetByDiscordID", ctx, int64(999)).Return(nil, nil)

	err := service.RegisterReferral(ctx, testGuildID, 111, 999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockUserRepo.AssertNotCalled(t, "SetReferrer", mock.Anything, mock.Anything, mock.Anything)
}
