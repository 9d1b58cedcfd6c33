package services

import (
	"context"
	"fmt"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/interfaces"
)

type shopService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewShopService creates the role shop service.
func NewShopService(uowFactory interfaces.UnitOfWorkFactory) interfaces.ShopService {
	return &shopService{uowFactory: uowFactory}
}

// PurchaseItem debits the item's price from the buyer's wallet. The caller
// grants the role afterwards and calls Refund if granting fails.
func (s *shopService) PurchaseItem(ctx context.Context, guildID, discordID, roleID int64) (*interfaces.PurchaseResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.ShopItemRepository().GetByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotInShop
	}

	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, -item.Price)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    -item.Price,
		Reason:    fmt.Sprintf("shop purchase: %s", item.Name),
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.PurchaseResult{
		Item:       item,
		Price:      item.Price,
		Currency:   entities.CurrencySolyx,
		NewBalance: newBalance,
	}, nil
}

// Refund issues the compensating credit after a failed entitlement grant.
func (s *shopService) Refund(ctx context.Context, guildID, discordID, roleID int64) (*interfaces.BalanceChangeResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.ShopItemRepository().GetByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotInShop
	}

	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, item.Price)
	if err != nil {
		return nil, err
	}

	// The refund compensates a purchase, so it does not count as organic
	// earning; the buyer is recorded as the attribution.
	entry := &entities.LedgerTransaction{
		DiscordID:   discordID,
		GuildID:     guildID,
		Amount:      item.Price,
		Reason:      fmt.Sprintf("shop refund: %s", item.Name),
		ModeratorID: &discordID,
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.BalanceChangeResult{NewBalance: newBalance}, nil
}

// AddItem inserts a catalog item.
func (s *shopService) AddItem(ctx context.Context, guildID int64, item *entities.ShopItem) error {
	if item.Price < 0 {
		return domain.NewValidationError("price must not be negative")
	}
	if item.Name == "" {
		return domain.NewValidationError("name is required")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ShopItemRepository().Create(ctx, item); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateItem rewrites an item's price, name and description.
func (s *shopService) UpdateItem(ctx context.Context, guildID int64, item *entities.ShopItem) error {
	if item.Price < 0 {
		return domain.NewValidationError("price must not be negative")
	}
	if item.Name == "" {
		return domain.NewValidationError("name is required")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ShopItemRepository().Update(ctx, item); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveItem deletes an item from the catalog.
func (s *shopService) RemoveItem(ctx context.Context, guildID, roleID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ShopItemRepository().Delete(ctx, roleID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetItem retrieves an item, or (nil, nil) when not cataloged.
func (s *shopService) GetItem(ctx context.Context, guildID, roleID int64) (*entities.ShopItem, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.ShopItemRepository().GetByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return item, nil
}

// ListItems returns the catalog ordered by price.
func (s *shopService) ListItems(ctx context.Context, guildID int64) ([]*entities.ShopItem, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.ShopItemRepository().List(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return items, nil
}
