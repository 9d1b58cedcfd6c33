package entities

import "time"

// ClanTax tracks a clan's progress against its periodic contribution quota.
// Contributions only increase the counter; ResetPeriod zeroes it on the
// calendar cadence driven by the application scheduler.
type ClanTax struct {
	ClanRoleID        int64     `db:"clan_role_id"`
	GuildID           int64     `db:"guild_id"`
	AmountContributed int64     `db:"amount_contributed"`
	LastContributorID *int64    `db:"last_contributor_id"`
	LastResetAt       time.Time `db:"last_reset_at"`
}

// QuotaMet reports whether the clan has met the given quota this period.
func (t *ClanTax) QuotaMet(quota int64) bool {
	return t.AmountContributed >= quota
}
