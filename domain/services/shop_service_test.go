package services

import (
	"context"
	"testing"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newShopFixture() (*testhelpers.MockUnitOfWorkFactory, *testhelpers.MockUnitOfWork, *testhelpers.MockWalletRepository, *testhelpers.MockLedgerRepository, *testhelpers.MockShopItemRepository) {
	mockUoW := new(testhelpers.MockUnitOfWork)
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)
	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockLedgerRepo := new(testhelpers.MockLedgerRepository)
	mockEarningsRepo := new(testhelpers.MockGuildEarningsRepository)
	mockShopRepo := new(testhelpers.MockShopItemRepository)

	mockUoW.SetRepositories(nil, mockWalletRepo, mockLedgerRepo, mockEarningsRepo)
	mockUoW.SetShopItemRepository(mockShopRepo)

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockShopRepo
}

func TestShopService_PurchaseItem(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockShopRepo := newShopFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewShopService(mockFactory)

	item := &entities.ShopItem{RoleID: 777, GuildID: testGuildID, Price: 1200, Name: "VIP"}
	mockShopRepo.On("GetByRoleID", ctx, int64(777)).Return(item, nil)
	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(-1200)).Return(int64(800), nil)
	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.LedgerTransaction) bool {
		return tx.Amount == -1200 && tx.Reason == "shop purchase: VIP"
	})).Return(nil)

	result, err := service.PurchaseItem(ctx, testGuildID, 111, 777)

	require.NoError(t, err)
	assert.Equal(t, int64(1200), result.Price)
	assert.Equal(t, int64(800), result.NewBalance)
	assert.Equal(t, entities.CurrencySolyx, result.Currency)
	assert.Equal(t, "VIP", result.Item.Name)
}

func TestShopService_PurchaseItem_NotInShop(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, _, mockShopRepo := newShopFixture()

	service := NewShopService(mockFactory)

	mockShopRepo.On("GetByRoleID", ctx, int64(777)).Return(nil, nil)

	result, err := service.PurchaseItem(ctx, testGuildID, 111, 777)

	assert.ErrorIs(t, err, domain.ErrNotInShop)
	assert.Nil(t, result)
	mockWalletRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestShopService_PurchaseItem_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockShopRepo := newShopFixture()

	service := NewShopService(mockFactory)

	item := &entities.ShopItem{RoleID: 777, GuildID: testGuildID, Price: 1200, Name: "VIP"}
	mockShopRepo.On("GetByRoleID", ctx, int64(777)).Return(item, nil)
	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(-1200)).Return(int64(0), domain.ErrInsufficientFunds)

	_, err := service.PurchaseItem(ctx, testGuildID, 111, 777)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	mockLedgerRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestShopService_Refund_CompensatesPurchase(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockShopRepo := newShopFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewShopService(mockFactory)

	item := &entities.ShopItem{RoleID: 777, GuildID: testGuildID, Price: 1200, Name: "VIP"}
	mockShopRepo.On("GetByRoleID", ctx, int64(777)).Return(item, nil)
	mockWalletRepo.On("ApplyDelta", ctx, int64(111), int64(1200)).Return(int64(2000), nil)
	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.LedgerTransaction) bool {
		// Refunds are attributed, so they stay out of the organic aggregate.
		return tx.Amount == 1200 && tx.Reason == "shop refund: VIP" && tx.ModeratorID != nil
	})).Return(nil)

	result, err := service.Refund(ctx, testGuildID, 111, 777)

	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.NewBalance)
}

func TestShopService_AddItem_Duplicate(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, mockShopRepo := newShopFixture()

	service := NewShopService(mockFactory)

	item := &entities.ShopItem{RoleID: 777, Price: 100, Name: "VIP"}
	mockShopRepo.On("Create", ctx, item).Return(domain.ErrAlreadyExists)

	err := service.AddItem(ctx, testGuildID, item)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestShopService_AddItem_NegativePrice(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)

	service := NewShopService(mockFactory)

	err := service.AddItem(ctx, testGuildID, &entities.ShopItem{RoleID: 777, Price: -5, Name: "VIP"})

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockFactory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
}
