package entities

import "time"

// ClaimType distinguishes the daily calendar-gated claim from the weekly
// cooldown-gated claim.
type ClaimType string

const (
	ClaimTypeDaily  ClaimType = "daily"
	ClaimTypeWeekly ClaimType = "weekly"
)

// WeeklyCooldown is the gate for weekly claims: a flat 168 hours from the
// previous claim, not calendar-based.
const WeeklyCooldown = 7 * 24 * time.Hour

// WeeklyState is a bitmask of claimed weekdays for the current week.
// Bit 0 is Monday, bit 6 is Sunday.
type WeeklyState uint8

// IsClaimed reports whether the weekday at index day (Monday=0) is claimed.
func (s WeeklyState) IsClaimed(day int) bool {
	return s&(1<<uint(day)) != 0
}

// Mark returns the state with the weekday at index day set.
func (s WeeklyState) Mark(day int) WeeklyState {
	return s | (1 << uint(day))
}

// Days expands the bitmask into a Monday-first array.
func (s WeeklyState) Days() [7]bool {
	var days [7]bool
	for i := 0; i < 7; i++ {
		days[i] = s.IsClaimed(i)
	}
	return days
}

// Count returns how many days are claimed this week.
func (s WeeklyState) Count() int {
	n := 0
	for i := 0; i < 7; i++ {
		if s.IsClaimed(i) {
			n++
		}
	}
	return n
}

// Claim tracks a user's reward claim state for one claim type in one guild.
type Claim struct {
	DiscordID     int64       `db:"discord_id"`
	GuildID       int64       `db:"guild_id"`
	Type          ClaimType   `db:"claim_type"`
	LastClaimedAt time.Time   `db:"last_claimed_at"`
	Streak        int         `db:"streak"`
	WeeklyState   WeeklyState `db:"weekly_state"`
}

// WeekdayIndex converts a time to a Monday-first weekday index (0-6).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart truncates t to the Monday 00:00 UTC that starts its week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -WeekdayIndex(day))
}

// SameCalendarDay reports whether a and b fall on the same UTC date.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// CurrentWeekState returns the weekly state as of now: the stored mask if
// the last claim falls in the current week, or an empty mask when the last
// claim's week started seven or more days earlier.
func (c *Claim) CurrentWeekState(now time.Time) WeeklyState {
	if c == nil {
		return 0
	}
	if WeekStart(now).Sub(WeekStart(c.LastClaimedAt)) >= 7*24*time.Hour {
		return 0
	}
	return c.WeeklyState
}

// CanClaimDaily reports whether today's slot in the current week is still
// open.
func (c *Claim) CanClaimDaily(now time.Time) bool {
	return !c.CurrentWeekState(now).IsClaimed(WeekdayIndex(now))
}

// NextStreak returns the streak value a claim at now should record: the
// previous streak extended when the last claim was yesterday, otherwise 1.
func (c *Claim) NextStreak(now time.Time) int {
	if c == nil {
		return 1
	}
	if SameCalendarDay(c.LastClaimedAt.AddDate(0, 0, 1), now) {
		return c.Streak + 1
	}
	return 1
}

// CanClaimWeekly reports whether the 168-hour cooldown has elapsed.
func (c *Claim) CanClaimWeekly(now time.Time) bool {
	if c == nil {
		return true
	}
	return now.Sub(c.LastClaimedAt) >= WeeklyCooldown
}

// NextWeeklyClaimAt returns when the weekly cooldown expires.
func (c *Claim) NextWeeklyClaimAt() time.Time {
	return c.LastClaimedAt.Add(WeeklyCooldown)
}

// NextDailyClaimAt returns the next UTC midnight, the earliest moment a
// fresh daily slot opens.
func NextDailyClaimAt(now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, 1)
}
