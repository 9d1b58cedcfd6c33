package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ShopItemRepository implements interfaces.ShopItemRepository.
type ShopItemRepository struct {
	q       queryable
	guildID int64
}

// NewShopItemRepository creates a catalog repository over the pool.
func NewShopItemRepository(db *database.DB, guildID int64) *ShopItemRepository {
	return &ShopItemRepository{q: db.Pool, guildID: guildID}
}

func newShopItemRepository(tx queryable, guildID int64) *ShopItemRepository {
	return &ShopItemRepository{q: tx, guildID: guildID}
}

// Create inserts a catalog item.
func (r *ShopItemRepository) Create(ctx context.Context, item *entities.ShopItem) error {
	query := `
		INSERT INTO shop_items (role_id, guild_id, price, name, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, item.RoleID, r.guildID, item.Price, item.Name, item.Description).Scan(&item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create shop item %d in guild %d: %w", item.RoleID, r.guildID, err)
	}

	item.GuildID = r.guildID
	return nil
}

// GetByRoleID retrieves an item, or (nil, nil) if not in the catalog.
func (r *ShopItemRepository) GetByRoleID(ctx context.Context, roleID int64) (*entities.ShopItem, error) {
	query := `
		SELECT role_id, guild_id, price, name, description, created_at
		FROM shop_items
		WHERE role_id = $1 AND guild_id = $2
	`

	var item entities.ShopItem
	err := r.q.QueryRow(ctx, query, roleID, r.guildID).Scan(
		&item.RoleID,
		&item.GuildID,
		&item.Price,
		&item.Name,
		&item.Description,
		&item.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %d in guild %d: %w", roleID, r.guildID, err)
	}

	return &item, nil
}

// Update rewrites the item's price, name and description.
func (r *ShopItemRepository) Update(ctx context.Context, item *entities.ShopItem) error {
	query := `
		UPDATE shop_items
		SET price = $1, name = $2, description = $3
		WHERE role_id = $4 AND guild_id = $5
	`

	result, err := r.q.Exec(ctx, query, item.Price, item.Name, item.Description, item.RoleID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update shop item %d in guild %d: %w", item.RoleID, r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes an item from the catalog.
func (r *ShopItemRepository) Delete(ctx context.Context, roleID int64) error {
	query := `
		DELETE FROM shop_items
		WHERE role_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query, roleID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to delete shop item %d in guild %d: %w", roleID, r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// List returns the catalog ordered by price ascending.
func (r *ShopItemRepository) List(ctx context.Context) ([]*entities.ShopItem, error) {
	query := `
		SELECT role_id, guild_id, price, name, description, created_at
		FROM shop_items
		WHERE guild_id = $1
		ORDER BY price ASC, role_id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	var items []*entities.ShopItem
	for rows.Next() {
		var item entities.ShopItem
		err := rows.Scan(
			&item.RoleID,
			&item.GuildID,
			&item.Price,
			&item.Name,
			&item.Description,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shop items: %w", err)
	}

	return items, nil
}
