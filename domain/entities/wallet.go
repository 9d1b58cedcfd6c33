package entities

import "time"

// CurrencySolyx is the single currency the economy trades in.
const CurrencySolyx = "solyx"

// Wallet defaults applied on lazy creation. A fresh wallet starts empty;
// capacity bounds how much a wallet can hold when crediting is capped
// (clan withdrawals).
const (
	DefaultWalletBalance  int64 = 0
	DefaultWalletCapacity int64 = 250000
)

// Wallet is a per-(user, guild, currency) balance row. Wallets are created
// on first access, never provisioned explicitly.
type Wallet struct {
	ID        int64     `db:"id"`
	DiscordID int64     `db:"discord_id"`
	GuildID   int64     `db:"guild_id"`
	Currency  string    `db:"currency"`
	Balance   int64     `db:"balance"`
	Capacity  int64     `db:"capacity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford reports whether the wallet covers amount.
func (w *Wallet) CanAfford(amount int64) bool {
	return w.Balance >= amount
}

// Headroom returns how much the wallet can still take before hitting
// its capacity.
func (w *Wallet) Headroom() int64 {
	if w.Capacity <= w.Balance {
		return 0
	}
	return w.Capacity - w.Balance
}

// ClanWallet is a clan treasury, one row per (clan, guild, currency) with
// the same lazy-creation pattern as Wallet. Treasuries have no capacity.
type ClanWallet struct {
	ID         int64     `db:"id"`
	ClanRoleID int64     `db:"clan_role_id"`
	GuildID    int64     `db:"guild_id"`
	Currency   string    `db:"currency"`
	Balance    int64     `db:"balance"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// CanAfford reports whether the treasury covers amount.
func (w *ClanWallet) CanAfford(amount int64) bool {
	return w.Balance >= amount
}
