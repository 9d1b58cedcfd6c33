package entities

import "time"

// ShopItem is a purchasable role in a guild's catalog, keyed by role ID.
type ShopItem struct {
	RoleID      int64     `db:"role_id"`
	GuildID     int64     `db:"guild_id"`
	Price       int64     `db:"price"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
