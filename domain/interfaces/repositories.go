package interfaces

import (
	"context"
	"time"

	"solyx/domain/entities"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// GetByDiscordID retrieves a user, or (nil, nil) if unknown.
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error)

	// GetOrCreate upserts the user row, refreshing the username.
	GetOrCreate(ctx context.Context, discordID int64, username string) (*entities.User, error)

	// SetReferrer records who referred the user. The update is conditional
	// on referred_by being unset; domain.ErrAlreadyExists otherwise.
	SetReferrer(ctx context.Context, discordID, referrerID int64) error
}

// WalletRepository defines the interface for user wallet data access.
// All methods are scoped to the unit of work's guild.
type WalletRepository interface {
	// GetOrCreate lazily provisions the wallet with default balance and
	// capacity on first access.
	GetOrCreate(ctx context.Context, discordID int64) (*entities.Wallet, error)

	// ApplyDelta adds amount (which may be negative) to the balance in a
	// single conditional update that refuses to drive the balance below
	// zero; returns domain.ErrInsufficientFunds in that case. The wallet
	// is created first if absent. Returns the new balance.
	ApplyDelta(ctx context.Context, discordID int64, amount int64) (int64, error)

	// ApplyDeltaCapped behaves like ApplyDelta but additionally refuses
	// credits that would push the balance above the wallet's capacity,
	// returning domain.ErrCapacityExceeded.
	ApplyDeltaCapped(ctx context.Context, discordID int64, amount int64) (int64, error)

	// GetTopByBalance returns wallets ordered by balance descending,
	// ties broken by discord ID.
	GetTopByBalance(ctx context.Context, limit int) ([]*entities.Wallet, error)

	// GetRank returns the 1-based dense rank of the user by balance and
	// the balance itself; domain.ErrNotFound when no wallet exists.
	GetRank(ctx context.Context, discordID int64) (rank int, balance int64, err error)
}

// ClanWalletRepository defines the interface for clan treasury access.
type ClanWalletRepository interface {
	// GetOrCreate lazily provisions the treasury with a zero balance.
	GetOrCreate(ctx context.Context, clanRoleID int64) (*entities.ClanWallet, error)

	// ApplyDelta adds amount to the treasury under the same non-negative
	// conditional update as WalletRepository.ApplyDelta.
	ApplyDelta(ctx context.Context, clanRoleID int64, amount int64) (int64, error)

	// Delete removes the treasury row; safe to call when none exists.
	Delete(ctx context.Context, clanRoleID int64) error
}

// LedgerRepository defines the interface for the append-only audit trail.
type LedgerRepository interface {
	// Record appends a ledger entry. Entries are never mutated.
	Record(ctx context.Context, tx *entities.LedgerTransaction) error

	// GetByUser returns the most recent entries for a user.
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.LedgerTransaction, error)
}

// GuildEarningsRepository tracks the per-guild, per-day total of organically
// acquired currency used by analytics.
type GuildEarningsRepository interface {
	// AddAcquired upserts the aggregate row for day and adds amount.
	AddAcquired(ctx context.Context, day time.Time, amount int64) error

	// GetAcquired returns the aggregate for day, zero if absent.
	GetAcquired(ctx context.Context, day time.Time) (int64, error)
}

// ClanRepository defines the interface for clan data access.
type ClanRepository interface {
	// Create inserts a clan row; domain.ErrAlreadyExists on duplicate.
	Create(ctx context.Context, clan *entities.Clan) error

	// GetByRoleID retrieves a clan, or (nil, nil) if unknown.
	GetByRoleID(ctx context.Context, clanRoleID int64) (*entities.Clan, error)

	// UpdateOwner sets the clan's owner column.
	UpdateOwner(ctx context.Context, clanRoleID, ownerDiscordID int64) error

	// UpdateMotto sets or clears the clan's motto.
	UpdateMotto(ctx context.Context, clanRoleID int64, motto *string) error

	// Delete removes the clan row.
	Delete(ctx context.Context, clanRoleID int64) error

	// ListAll returns every clan across all guilds, ignoring the unit of
	// work's guild scope. Used by the period-reset scheduler.
	ListAll(ctx context.Context) ([]*entities.Clan, error)
}

// ClanMemberRepository defines the interface for clan membership access.
type ClanMemberRepository interface {
	// Get retrieves a membership, or (nil, nil) if absent.
	Get(ctx context.Context, clanRoleID, discordID int64) (*entities.ClanMember, error)

	// Add inserts a membership row.
	Add(ctx context.Context, member *entities.ClanMember) error

	// UpdateAuthority changes a member's tier.
	UpdateAuthority(ctx context.Context, clanRoleID, discordID int64, authority entities.ClanAuthority) error

	// Remove deletes a membership; domain.ErrNotFound when absent.
	Remove(ctx context.Context, clanRoleID, discordID int64) error

	// CountByAuthority returns how many members hold the given tier.
	CountByAuthority(ctx context.Context, clanRoleID int64, authority entities.ClanAuthority) (int, error)

	// ListByClan returns all memberships, owner first.
	ListByClan(ctx context.Context, clanRoleID int64) ([]*entities.ClanMember, error)

	// RemoveByClan deletes every membership of a clan.
	RemoveByClan(ctx context.Context, clanRoleID int64) error
}

// ShopItemRepository defines the interface for the per-guild role catalog.
type ShopItemRepository interface {
	// Create inserts an item; domain.ErrAlreadyExists on duplicate key.
	Create(ctx context.Context, item *entities.ShopItem) error

	// GetByRoleID retrieves an item, or (nil, nil) if not in the catalog.
	GetByRoleID(ctx context.Context, roleID int64) (*entities.ShopItem, error)

	// Update rewrites price, name and description; domain.ErrNotFound
	// when the item is absent.
	Update(ctx context.Context, item *entities.ShopItem) error

	// Delete removes an item; domain.ErrNotFound when absent.
	Delete(ctx context.Context, roleID int64) error

	// List returns the catalog ordered by price ascending.
	List(ctx context.Context) ([]*entities.ShopItem, error)
}

// ClaimRepository defines the interface for claim-state access.
type ClaimRepository interface {
	// Get reads the claim row without locking, or (nil, nil) when the user
	// never claimed.
	Get(ctx context.Context, discordID int64, claimType entities.ClaimType) (*entities.Claim, error)

	// GetForUpdate reads the claim row with a row-level lock, serializing
	// concurrent claim attempts by the same user for the duration of the
	// transaction. A missing row is seeded before it is locked, so
	// first-time attempts serialize too and the returned claim is never
	// nil; a zero LastClaimedAt means the user never claimed.
	GetForUpdate(ctx context.Context, discordID int64, claimType entities.ClaimType) (*entities.Claim, error)

	// Upsert writes the claim state.
	Upsert(ctx context.Context, claim *entities.Claim) error
}

// ClanTaxRepository defines the interface for tax-period tracking.
type ClanTaxRepository interface {
	// GetOrCreate lazily provisions the tax row for the current period.
	GetOrCreate(ctx context.Context, clanRoleID int64) (*entities.ClanTax, error)

	// AddContribution increments the period counter and records the
	// contributor. The row is created first if absent.
	AddContribution(ctx context.Context, clanRoleID, amount, contributorID int64) (*entities.ClanTax, error)

	// ResetPeriod zeroes the counter and clears the last contributor.
	ResetPeriod(ctx context.Context, clanRoleID int64, resetAt time.Time) error

	// Delete removes the tax row; safe to call when none exists.
	Delete(ctx context.Context, clanRoleID int64) error
}

// RaffleRepository defines the interface for raffle data access.
type RaffleRepository interface {
	// Create inserts a raffle and fills in its generated ID.
	Create(ctx context.Context, raffle *entities.Raffle) error

	// GetByID retrieves a raffle, or (nil, nil) if unknown.
	GetByID(ctx context.Context, id int64) (*entities.Raffle, error)

	// SetMessageID records the posted dashboard message.
	SetMessageID(ctx context.Context, id, messageID int64) error

	// MarkEnded flips status active -> ended and stores the winner list
	// in one conditional update. Returns false when the raffle was
	// already ended, which makes redundant draw attempts a no-op.
	MarkEnded(ctx context.Context, id int64, winnerIDs []int64) (bool, error)

	// ListExpired returns active raffles whose end time has passed,
	// across all guilds, ignoring the unit of work's guild scope. Feeds
	// the polling sweep.
	ListExpired(ctx context.Context, now time.Time) ([]*entities.Raffle, error)
}

// RaffleEntryRepository defines the interface for ticket entries.
type RaffleEntryRepository interface {
	// Add appends one ticket entry.
	Add(ctx context.Context, raffleID, discordID int64) error

	// GetParticipants returns the deduplicated participant IDs in a
	// stable order.
	GetParticipants(ctx context.Context, raffleID int64) ([]int64, error)

	// CountByUser returns how many tickets a user holds in a raffle.
	CountByUser(ctx context.Context, raffleID, discordID int64) (int, error)
}

// GuildSettingsRepository defines the interface for per-guild settings.
type GuildSettingsRepository interface {
	// GetOrCreateGuildSettings retrieves settings, creating a row with
	// defaults when the guild is new.
	GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)

	// UpdateGuildSettings persists the settings row.
	UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error
}
