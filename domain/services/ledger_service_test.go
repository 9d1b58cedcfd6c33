package services

import (
	"context"
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

const testGuildID = int64(900100)

func newLedgerFixture() (*testhelpers.MockUnitOfWorkFactory, *testhelpers.MockUnitOfWork, *testhelpers.MockWalletRepository, *testhelpers.MockLedgerRepository, *testhelpers.MockGuildEarningsRepository) {
	mockUoW := new(testhelpers.MockUnitOfWork)
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)
	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockLedgerRepo := new(testhelpers.MockLedgerRepository)
	mockEarningsRepo := new(testhelpers.MockGuildEarningsRepository)

	mockUoW.SetRepositories(nil, mockWalletRepo, mockLedgerRepo, mockEarningsRepo)

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockEarningsRepo
}

func TestLedgerService_ModifyBalance_Credit(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockEarningsRepo := newLedgerFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewLedgerService(mockFactory)

	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(500)).Return(int64(1500), nil)
	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.LedgerTransaction) bool {
		return tx.DiscordID == 111 && tx.Amount == 500 && tx.Reason == "event prize" && tx.ModeratorID == nil
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.LedgerTransaction).CreatedAt = time.Now().UTC()
	})
	mockEarningsRepo.On("AddAcquired", ctx, mock.AnythingOfType("time.Time"), int64(500)).Return(nil)

	result, err := service.ModifyBalance(ctx, testGuildID, 111, 500, "event prize", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1500), result.NewBalance)

	require.Len(t, mockUoW.Bus.Events, 1)
	change, ok := mockUoW.Bus.Events[0].(events.BalanceChangeEvent)
	require.True(t, ok)
	assert.Equal(t, int64(500), change.Amount)
	assert.Equal(t, int64(1500), change.NewBalance)

	mockWalletRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockEarningsRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestLedgerService_ModifyBalance_AdminGrantSkipsEarnings(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockEarningsRepo := newLedgerFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewLedgerService(mockFactory)

	moderatorID := int64(42)
	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(500)).Return(int64(500), nil)
	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.LedgerTransaction) bool {
		return tx.ModeratorID != nil && *tx.ModeratorID == 42
	})).Return(nil)

	_, err := service.ModifyBalance(ctx, testGuildID, 111, 500, "admin grant", &moderatorID)

	require.NoError(t, err)
	mockEarningsRepo.AssertNotCalled(t, "AddAcquired", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_ModifyBalance_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockWalletRepo, mockLedgerRepo, _ := newLedgerFixture()

	service := NewLedgerService(mockFactory)

	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(-9000)).Return(int64(0), domain.ErrInsufficientFunds)

	result, err := service.ModifyBalance(ctx, testGuildID, 111, -9000, "big spend", nil)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Nil(t, result)
	mockLedgerRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_ModifyBalance_ZeroAmount(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)

	service := NewLedgerService(mockFactory)

	_, err := service.ModifyBalance(ctx, testGuildID, 111, 0, "noop", nil)

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockFactory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
}

func TestLedgerService_Transfer_Conservation(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockEarningsRepo := newLedgerFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewLedgerService(mockFactory)

	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(-300)).Return(int64(700), nil)
	mockWalletRepo.On("ApplyDelta", ctx, int64(222), int64(300)).Return(int64(1300), nil)

	var deltaSum int64
	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.LedgerTransaction) bool {
		return tx.Reason == "gift"
	})).Return(nil).Run(func(args mock.Arguments) {
		deltaSum += args.Get(1).(*entities.LedgerTransaction).Amount
	}).Twice()
	mockEarningsRepo.On("AddAcquired", ctx, mock.AnythingOfType("time.Time"), int64(300)).Return(nil)

	result, err := service.Transfer(ctx, testGuildID, 111, 222, 300, "gift")

	require.NoError(t, err)
	assert.Equal(t, int64(700), result.NewSenderBalance)
	assert.Equal(t, int64(1300), result.NewRecipientBalance)
	assert.Equal(t, int64(0), deltaSum, "ledger entries must sum to zero")

	mockWalletRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
}

func TestLedgerService_Transfer_ToSelf(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)

	service := NewLedgerService(mockFactory)

	_, err := service.Transfer(ctx, testGuildID, 111, 111, 300, "gift")

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestLedgerService_Transfer_SenderBroke(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, _ := newLedgerFixture()

	service := NewLedgerService(mockFactory)

	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(-300)).Return(int64(0), domain.ErrInsufficientFunds)

	_, err := service.Transfer(ctx, testGuildID, 111, 222, 300, "gift")

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	mockWalletRepo.AssertNotCalled(t, "ApplyDelta", ctx, int64(222), int64(300))
	mockLedgerRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_WithdrawFromClan_RequiresAuthority(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, _, _ := newLedgerFixture()

	mockClanRepo := new(testhelpers.MockClanRepository)
	mockMemberRepo := new(testhelpers.MockClanMemberRepository)
	mockClanWalletRepo := new(testhelpers.MockClanWalletRepository)
	mockUoW.SetClanRepositories(mockClanRepo, mockMemberRepo, mockClanWalletRepo, nil)

	service := NewLedgerService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{ClanRoleID: 555, OwnerDiscordID: 1}, nil)
	mockMemberRepo.On("Get", ctx, int64(555), int64(111)).Return(&entities.ClanMember{
		DiscordID: 111, ClanRoleID: 555, Authority: entities.AuthorityMember,
	}, nil)

	_, err := service.WithdrawFromClan(ctx, testGuildID, 111, 555, 100)

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockWalletRepo.AssertNotCalled(t, "ApplyDeltaCapped", mock.Anything, mock.Anything, mock.Anything)
	mockClanWalletRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_WithdrawFromClan_CapacityBounded(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, _, _ := newLedgerFixture()

	mockClanRepo := new(testhelpers.MockClanRepository)
	mockMemberRepo := new(testhelpers.MockClanMemberRepository)
	mockClanWalletRepo := new(testhelpers.MockClanWalletRepository)
	mockUoW.SetClanRepositories(mockClanRepo, mockMemberRepo, mockClanWalletRepo, nil)

	service := NewLedgerService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{ClanRoleID: 555, OwnerDiscordID: 111}, nil)
	mockMemberRepo.On("Get", ctx, int64(555), int64(111)).Return(&entities.ClanMember{
		DiscordID: 111, ClanRoleID: 555, Authority: entities.AuthorityOwner,
	}, nil)
	mockClanWalletRepo.On("ApplyDelta", ctx, int64(555), int64(-100)).Return(int64(900), nil)
	mockWalletRepo.On("ApplyDeltaCapped", ctx, int64(111), int64(100)).Return(int64(0), domain.ErrCapacityExceeded)

	_, err := service.WithdrawFromClan(ctx, testGuildID, 111, 555, 100)

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_GetUserRank(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, _, _ := newLedgerFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewLedgerService(mockFactory)

	mockWalletRepo.On("GetRank", ctx, int64(111)).Return(3, int64(4200), nil)

	result, err := service.GetUserRank(ctx, testGuildID, 111)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Rank)
	assert.Equal(t, int64(4200), result.Balance)
}
