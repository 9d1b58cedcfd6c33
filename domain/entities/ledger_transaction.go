package entities

import "time"

// Well-known ledger reasons. Reasons are free-form strings in the log;
// these constants cover the flows the core itself originates.
const (
	ReasonDailyClaim    = "daily claim"
	ReasonWeeklyClaim   = "weekly claim"
	ReasonReferralBonus = "referral bonus"
	ReasonClanDeposit   = "clan deposit"
	ReasonClanWithdraw  = "clan withdrawal"
	ReasonTaxPayment    = "clan tax contribution"
	ReasonRaffleTicket  = "raffle ticket"
)

// LedgerTransaction is one entry in the append-only audit trail. Entries
// are never mutated or deleted. ModeratorID is set when the change was an
// admin grant rather than organic earning.
type LedgerTransaction struct {
	ID          int64     `db:"id"`
	DiscordID   int64     `db:"discord_id"`
	GuildID     int64     `db:"guild_id"`
	Amount      int64     `db:"amount"`
	Reason      string    `db:"reason"`
	ModeratorID *int64    `db:"moderator_discord_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// IsCredit reports whether the entry added currency.
func (t *LedgerTransaction) IsCredit() bool {
	return t.Amount > 0
}

// IsOrganic reports whether the entry counts toward the guild's
// currency-acquired analytics: a credit with no moderator attribution.
func (t *LedgerTransaction) IsOrganic() bool {
	return t.Amount > 0 && t.ModeratorID == nil
}
