package entities

import "time"

// User represents a Discord user known to the economy. Users are created
// lazily on first interaction; ReferredBy is set at most once, when the
// user joins through another member's invite, and never changed afterward.
type User struct {
	DiscordID  int64     `db:"discord_id"`
	Username   string    `db:"username"`
	ReferredBy *int64    `db:"referred_by"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// HasReferrer reports whether the user joined via a referral.
func (u *User) HasReferrer() bool {
	return u.ReferredBy != nil && *u.ReferredBy > 0
}
