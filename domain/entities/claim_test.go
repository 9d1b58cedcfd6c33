package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayIndex_MondayFirst(t *testing.T) {
	monday := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WeekdayIndex(monday))
	assert.Equal(t, 6, WeekdayIndex(sunday))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	for d := 0; d < 7; d++ {
		at := monday.AddDate(0, 0, d).Add(13 * time.Hour)
		assert.Equal(t, monday, WeekStart(at), "day offset %d", d)
	}

	// A timestamp already at Monday midnight is its own week start.
	assert.Equal(t, monday, WeekStart(monday))
}

func TestWeeklyState_MarkAndCount(t *testing.T) {
	var s WeeklyState

	s = s.Mark(0).Mark(2).Mark(6)

	assert.True(t, s.IsClaimed(0))
	assert.False(t, s.IsClaimed(1))
	assert.True(t, s.IsClaimed(2))
	assert.True(t, s.IsClaimed(6))
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, [7]bool{true, false, true, false, false, false, true}, s.Days())
}

func TestWeeklyState_MarkIdempotent(t *testing.T) {
	s := WeeklyState(0).Mark(3).Mark(3)

	assert.Equal(t, 1, s.Count())
}

func TestClaim_CurrentWeekState_SameWeek(t *testing.T) {
	// Wednesday after a Monday claim in the same week.
	claim := &Claim{
		LastClaimedAt: time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC),
		WeeklyState:   WeeklyState(0).Mark(0),
	}
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, claim.WeeklyState, claim.CurrentWeekState(now))
	assert.True(t, claim.CanClaimDaily(now))
}

func TestClaim_CurrentWeekState_ResetAfterGap(t *testing.T) {
	claim := &Claim{
		LastClaimedAt: time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
		WeeklyState:   WeeklyState(0x7F),
	}
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, WeeklyState(0), claim.CurrentWeekState(now))
	assert.True(t, claim.CanClaimDaily(now))
}

func TestClaim_CurrentWeekState_WeekBoundary(t *testing.T) {
	// Sunday claim checked the following Monday: the week starts are
	// exactly seven days apart, so the mask resets.
	claim := &Claim{
		LastClaimedAt: time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC),
		WeeklyState:   WeeklyState(0x7F),
	}
	now := time.Date(2025, 6, 9, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, WeeklyState(0), claim.CurrentWeekState(now))
}

func TestClaim_CanClaimDaily_TodayTaken(t *testing.T) {
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	claim := &Claim{
		LastClaimedAt: now.Add(-2 * time.Hour),
		WeeklyState:   WeeklyState(0).Mark(WeekdayIndex(now)),
	}

	assert.False(t, claim.CanClaimDaily(now))
}

func TestClaim_NilReceiver(t *testing.T) {
	var claim *Claim
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)

	assert.True(t, claim.CanClaimDaily(now))
	assert.True(t, claim.CanClaimWeekly(now))
	assert.Equal(t, 1, claim.NextStreak(now))
	assert.Equal(t, WeeklyState(0), claim.CurrentWeekState(now))
}

func TestClaim_NextStreak(t *testing.T) {
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)

	yesterday := &Claim{LastClaimedAt: now.AddDate(0, 0, -1), Streak: 4}
	assert.Equal(t, 5, yesterday.NextStreak(now))

	twoDaysAgo := &Claim{LastClaimedAt: now.AddDate(0, 0, -2), Streak: 4}
	assert.Equal(t, 1, twoDaysAgo.NextStreak(now))
}

func TestClaim_CanClaimWeekly(t *testing.T) {
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)

	cooling := &Claim{LastClaimedAt: now.Add(-WeeklyCooldown + time.Minute)}
	assert.False(t, cooling.CanClaimWeekly(now))
	assert.Equal(t, now.Add(time.Minute), cooling.NextWeeklyClaimAt())

	ready := &Claim{LastClaimedAt: now.Add(-WeeklyCooldown)}
	assert.True(t, ready.CanClaimWeekly(now))
}

func TestNextDailyClaimAt(t *testing.T) {
	now := time.Date(2025, 6, 11, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), NextDailyClaimAt(now))
}
