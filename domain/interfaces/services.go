package interfaces

import (
	"context"
	"time"

	"solyx/domain/entities"
)

// BalanceChangeResult reports the outcome of a single wallet mutation.
type BalanceChangeResult struct {
	NewBalance int64
}

// TransferResult reports the outcome of a user-to-user transfer.
type TransferResult struct {
	Amount              int64
	NewSenderBalance    int64
	NewRecipientBalance int64
}

// TreasuryMoveResult reports a wallet <-> clan treasury move.
type TreasuryMoveResult struct {
	Amount             int64
	NewWalletBalance   int64
	NewTreasuryBalance int64
}

// RankResult is a user's leaderboard position.
type RankResult struct {
	Rank    int
	Balance int64
}

// LedgerService is the wallet ledger: every balance-affecting operation
// for users and clan treasuries goes through here.
type LedgerService interface {
	// ModifyBalance atomically applies a non-zero delta to a wallet,
	// appends a ledger entry, and feeds the currency-acquired aggregate
	// for organic credits. Debits that would go negative fail with
	// domain.ErrInsufficientFunds.
	ModifyBalance(ctx context.Context, guildID, discordID, amount int64, reason string, moderatorID *int64) (*BalanceChangeResult, error)

	// Transfer moves amount between two users in one transaction,
	// logging a debit and a credit entry with the same reason.
	Transfer(ctx context.Context, guildID, fromDiscordID, toDiscordID, amount int64, reason string) (*TransferResult, error)

	// GetBalance returns the wallet balance, lazily provisioning the
	// wallet (default balance 0) on first access.
	GetBalance(ctx context.Context, guildID, discordID int64) (int64, error)

	// DepositToClan moves amount from a user's wallet into the clan
	// treasury.
	DepositToClan(ctx context.Context, guildID, discordID, clanRoleID, amount int64) (*TreasuryMoveResult, error)

	// WithdrawFromClan moves amount from the clan treasury into a user's
	// wallet, refusing withdrawals the wallet has no capacity for.
	WithdrawFromClan(ctx context.Context, guildID, discordID, clanRoleID, amount int64) (*TreasuryMoveResult, error)

	// GetTopUsers returns the richest wallets in the guild.
	GetTopUsers(ctx context.Context, guildID int64, limit int) ([]*entities.Wallet, error)

	// GetUserRank returns the user's 1-based rank by balance, or
	// domain.ErrNotFound when the user holds no wallet.
	GetUserRank(ctx context.Context, guildID, discordID int64) (*RankResult, error)
}

// DailyStatus describes a user's current daily-claim window.
type DailyStatus struct {
	CanClaim    bool
	WeeklyState entities.WeeklyState
	Streak      int
	NextClaimAt time.Time
}

// ClaimResult reports a successful claim.
type ClaimResult struct {
	Reward     int64
	NewBalance int64
	Streak     int
}

// ClaimService gates daily and weekly rewards.
type ClaimService interface {
	// GetDailyStatus reports whether today's Monday-indexed slot is
	// still open and the per-week claim map.
	GetDailyStatus(ctx context.Context, guildID, discordID int64) (*DailyStatus, error)

	// ClaimDaily credits the guild's daily reward exactly once per
	// calendar day, updating streak and weekly state in the same
	// transaction. A referred user's referrer earns a 10% passive bonus,
	// credited best-effort after the claim commits.
	ClaimDaily(ctx context.Context, guildID, discordID int64) (*ClaimResult, error)

	// CanClaimWeekly reports whether the 168-hour cooldown has elapsed,
	// and if not, when it will.
	CanClaimWeekly(ctx context.Context, guildID, discordID int64) (bool, time.Time, error)

	// ClaimWeekly credits the guild's weekly reward on a 168-hour
	// cooldown.
	ClaimWeekly(ctx context.Context, guildID, discordID int64) (*ClaimResult, error)
}

// PurchaseResult reports a successful shop purchase. The caller grants the
// role afterwards and must refund the price if granting fails.
type PurchaseResult struct {
	Item       *entities.ShopItem
	Price      int64
	Currency   string
	NewBalance int64
}

// ShopService manages the role catalog and purchases against the ledger.
type ShopService interface {
	// PurchaseItem debits the item's price from the buyer's wallet.
	// domain.ErrNotInShop when the role is not cataloged.
	PurchaseItem(ctx context.Context, guildID, discordID, roleID int64) (*PurchaseResult, error)

	// Refund issues the compensating credit after a failed entitlement
	// grant.
	Refund(ctx context.Context, guildID, discordID, roleID int64) (*BalanceChangeResult, error)

	AddItem(ctx context.Context, guildID int64, item *entities.ShopItem) error
	UpdateItem(ctx context.Context, guildID int64, item *entities.ShopItem) error
	RemoveItem(ctx context.Context, guildID, roleID int64) error
	GetItem(ctx context.Context, guildID, roleID int64) (*entities.ShopItem, error)
	ListItems(ctx context.Context, guildID int64) ([]*entities.ShopItem, error)
}

// ClanService manages clans and tiered memberships.
type ClanService interface {
	// CreateClan inserts the clan and its owner membership atomically.
	CreateClan(ctx context.Context, guildID, clanRoleID, ownerDiscordID int64) error

	// AddMember enforces the per-tier capacity ceiling before inserting.
	AddMember(ctx context.Context, guildID, clanRoleID, discordID int64, authority entities.ClanAuthority) error

	// RemoveMember drops a membership. The owner cannot be removed;
	// transfer ownership first.
	RemoveMember(ctx context.Context, guildID, clanRoleID, discordID int64) error

	// SetOwner transfers ownership: the old owner is demoted to member
	// and the new owner installed in one transaction, so no reader ever
	// observes zero or two owners.
	SetOwner(ctx context.Context, guildID, clanRoleID, newOwnerDiscordID int64) error

	// SetMotto sets or clears the clan motto.
	SetMotto(ctx context.Context, guildID, clanRoleID int64, motto *string) error

	// DeleteClan removes the clan, its memberships, treasury and tax
	// rows; safe at any member count.
	DeleteClan(ctx context.Context, guildID, clanRoleID int64) error

	GetClan(ctx context.Context, guildID, clanRoleID int64) (*entities.Clan, error)
	ListMembers(ctx context.Context, guildID, clanRoleID int64) ([]*entities.ClanMember, error)
}

// ContributionResult reports a successful tax contribution.
type ContributionResult struct {
	Amount           int64
	NewWalletBalance int64
	TotalContributed int64
	Quota            int64
}

// TaxProgress is the read side of the contribution quota.
type TaxProgress struct {
	Contributed       int64
	Quota             int64
	LastContributorID *int64
	LastResetAt       time.Time
}

// TaxService tracks per-clan periodic contribution quotas.
type TaxService interface {
	// Contribute debits the member's wallet and increments the clan's
	// period counter in one transaction. Amounts below the guild's
	// configured floor are rejected before any mutation.
	Contribute(ctx context.Context, guildID, clanRoleID, discordID, amount int64) (*ContributionResult, error)

	// ResetPeriod zeroes the clan's counter; idempotent, invoked by the
	// calendar scheduler.
	ResetPeriod(ctx context.Context, guildID, clanRoleID int64) error

	// GetProgress returns contribution progress against the quota.
	GetProgress(ctx context.Context, guildID, clanRoleID int64) (*TaxProgress, error)
}

// DrawResult reports a completed raffle draw.
type DrawResult struct {
	Raffle       *entities.Raffle
	WinnerIDs    []int64
	Participants int
}

// RaffleService sells tickets against the ledger and draws winners.
type RaffleService interface {
	// CreateRaffle opens a new raffle in the guild.
	CreateRaffle(ctx context.Context, guildID int64, title string, channelID, ticketCost int64, numWinners int, endTime time.Time) (*entities.Raffle, error)

	// BuyTicket debits the ticket cost and appends one entry. Multiple
	// tickets per user are allowed but do not increase win odds.
	BuyTicket(ctx context.Context, guildID, raffleID, discordID int64) (*BalanceChangeResult, error)

	// DrawWinners ends the raffle and selects winners uniformly from the
	// deduplicated participants. Drawing an ended raffle returns
	// domain.ErrRaffleEnded with no side effects.
	DrawWinners(ctx context.Context, guildID, raffleID int64) (*DrawResult, error)

	// GetRaffle retrieves a raffle by ID.
	GetRaffle(ctx context.Context, guildID, raffleID int64) (*entities.Raffle, error)

	// ListExpired returns past-due active raffles across all guilds for
	// the sweep worker.
	ListExpired(ctx context.Context, now time.Time) ([]*entities.Raffle, error)
}

// UserService manages lazy user registration and referrals.
type UserService interface {
	// GetOrCreateUser upserts the user on first interaction.
	GetOrCreateUser(ctx context.Context, guildID, discordID int64, username string) (*entities.User, error)

	// RegisterReferral records the referrer, at most once per user.
	RegisterReferral(ctx context.Context, guildID, discordID, referrerID int64) error
}

// GuildSettingsService reads and mutates per-guild configuration through
// an explicit cache with invalidation hooks.
type GuildSettingsService interface {
	GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)
	UpdateRewards(ctx context.Context, guildID int64, daily, weekly int64) error
	UpdateTax(ctx context.Context, guildID int64, minimum, quota int64) error
	UpdateRaffleChannel(ctx context.Context, guildID int64, channelID *int64) error
	UpdateLogChannel(ctx context.Context, guildID int64, channelID *int64) error

	// Invalidate drops the cached settings for a guild.
	Invalidate(guildID int64)
}
