package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"solyx/domain/entities"
	"solyx/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimRepository_UpsertRoundTrip(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewClaimRepository(testDB.DB, integrationGuildID)

	claim, err := repo.Get(ctx, 3001, entities.ClaimTypeDaily)
	require.NoError(t, err)
	assert.Nil(t, claim)

	claimedAt := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	err = repo.Upsert(ctx, &entities.Claim{
		DiscordID:     3001,
		GuildID:       integrationGuildID,
		Type:          entities.ClaimTypeDaily,
		LastClaimedAt: claimedAt,
		Streak:        3,
		WeeklyState:   entities.WeeklyState(0).Mark(2),
	})
	require.NoError(t, err)

	claim, err = repo.Get(ctx, 3001, entities.ClaimTypeDaily)
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, 3, claim.Streak)
	assert.True(t, claim.WeeklyState.IsClaimed(2))
	assert.True(t, claimedAt.Equal(claim.LastClaimedAt))

	// Second upsert overwrites in place.
	err = repo.Upsert(ctx, &entities.Claim{
		DiscordID:     3001,
		GuildID:       integrationGuildID,
		Type:          entities.ClaimTypeDaily,
		LastClaimedAt: claimedAt.AddDate(0, 0, 1),
		Streak:        4,
		WeeklyState:   entities.WeeklyState(0).Mark(2).Mark(3),
	})
	require.NoError(t, err)

	claim, err = repo.Get(ctx, 3001, entities.ClaimTypeDaily)
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, 4, claim.Streak)
	assert.Equal(t, 2, claim.WeeklyState.Count())
}

// A first-time claimant has no claim row to lock. GetForUpdate seeds the
// row before locking it, so even the very first concurrent attempts
// serialize and only one credits the reward.
func TestClaimRepository_GetForUpdate_FirstClaimExactlyOnce(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	// Postgres stores microseconds.
	now := time.Now().UTC().Truncate(time.Microsecond)

	attempt := func() (bool, error) {
		tx, err := testDB.DB.Begin(ctx)
		if err != nil {
			return false, err
		}
		defer tx.Rollback(ctx)

		txRepo := newClaimRepository(tx, integrationGuildID)
		claim, err := txRepo.GetForUpdate(ctx, 3003, entities.ClaimTypeDaily)
		if err != nil {
			return false, err
		}
		if !claim.CanClaimDaily(now) {
			return false, tx.Commit(ctx)
		}

		claim.LastClaimedAt = now
		claim.Streak = claim.NextStreak(now)
		claim.WeeklyState = claim.CurrentWeekState(now).Mark(entities.WeekdayIndex(now))
		if err := txRepo.Upsert(ctx, claim); err != nil {
			return false, err
		}
		return true, tx.Commit(ctx)
	}

	var wg sync.WaitGroup
	outcomes := make(chan bool, 10)
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := attempt()
			assert.NoError(t, err)
			outcomes <- won
		}()
	}
	wg.Wait()
	close(outcomes)

	wins := 0
	for won := range outcomes {
		if won {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	repo := NewClaimRepository(testDB.DB, integrationGuildID)
	claim, err := repo.Get(ctx, 3003, entities.ClaimTypeDaily)
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, 1, claim.Streak)
	assert.True(t, claim.LastClaimedAt.Equal(now))
}

// Concurrent claim attempts serialize on the row lock: every transaction
// after the first observes today's slot already marked, so exactly one
// attempt wins the day.
func TestClaimRepository_GetForUpdate_SerializesAttempts(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	repo := NewClaimRepository(testDB.DB, integrationGuildID)
	err := repo.Upsert(ctx, &entities.Claim{
		DiscordID:     3002,
		GuildID:       integrationGuildID,
		Type:          entities.ClaimTypeDaily,
		LastClaimedAt: yesterday,
		Streak:        1,
		WeeklyState:   entities.WeeklyState(0).Mark(entities.WeekdayIndex(yesterday)),
	})
	require.NoError(t, err)

	attempt := func() (bool, error) {
		tx, err := testDB.DB.Begin(ctx)
		if err != nil {
			return false, err
		}
		defer tx.Rollback(ctx)

		txRepo := newClaimRepository(tx, integrationGuildID)
		claim, err := txRepo.GetForUpdate(ctx, 3002, entities.ClaimTypeDaily)
		if err != nil {
			return false, err
		}
		if !claim.CanClaimDaily(now) {
			return false, tx.Commit(ctx)
		}

		claim.LastClaimedAt = now
		claim.Streak = claim.NextStreak(now)
		claim.WeeklyState = claim.CurrentWeekState(now).Mark(entities.WeekdayIndex(now))
		if err := txRepo.Upsert(ctx, claim); err != nil {
			return false, err
		}
		return true, tx.Commit(ctx)
	}

	var wg sync.WaitGroup
	outcomes := make(chan bool, 10)
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := attempt()
			assert.NoError(t, err)
			outcomes <- won
		}()
	}
	wg.Wait()
	close(outcomes)

	wins := 0
	for won := range outcomes {
		if won {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	claim, err := repo.GetForUpdate(ctx, 3002, entities.ClaimTypeDaily)
	require.NoError(t, err)
	assert.Equal(t, 2, claim.Streak)
}
