package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"solyx/domain"
	"solyx/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationGuildID = int64(700500)

func TestWalletRepository_ApplyDelta_ConcurrentDebits(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(testDB.DB)
	wallets := NewWalletRepository(testDB.DB, integrationGuildID)

	_, err := users.GetOrCreate(ctx, 1001, "spender")
	require.NoError(t, err)
	_, err = wallets.GetOrCreate(ctx, 1001)
	require.NoError(t, err)
	_, err = wallets.ApplyDelta(ctx, 1001, 100)
	require.NoError(t, err)

	// 20 racing debits of 10 against a balance of 100: exactly 10 clear
	// the conditional update, the rest hit the balance floor.
	var wg sync.WaitGroup
	results := make(chan error, 20)
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := wallets.ApplyDelta(ctx, 1001, -10)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if errors.Is(err, domain.ErrInsufficientFunds) {
			rejected++
		} else {
			t.Errorf("unexpected debit error: %v", err)
		}
	}
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, rejected)

	wallet, err := wallets.GetOrCreate(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestWalletRepository_ApplyDeltaCapped_RespectsCapacity(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(testDB.DB)
	wallets := NewWalletRepository(testDB.DB, integrationGuildID)

	_, err := users.GetOrCreate(ctx, 1002, "hoarder")
	require.NoError(t, err)
	wallet, err := wallets.GetOrCreate(ctx, 1002)
	require.NoError(t, err)

	newBalance, err := wallets.ApplyDeltaCapped(ctx, 1002, wallet.Capacity)
	require.NoError(t, err)
	assert.Equal(t, wallet.Capacity, newBalance)

	_, err = wallets.ApplyDeltaCapped(ctx, 1002, 1)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	// The uncapped path still takes debits from a full wallet.
	newBalance, err = wallets.ApplyDelta(ctx, 1002, -1)
	require.NoError(t, err)
	assert.Equal(t, wallet.Capacity-1, newBalance)
}

func TestWalletRepository_RankAndLeaderboard(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(testDB.DB)
	wallets := NewWalletRepository(testDB.DB, integrationGuildID)

	balances := map[int64]int64{2001: 300, 2002: 100, 2003: 200}
	for discordID, balance := range balances {
		_, err := users.GetOrCreate(ctx, discordID, "user")
		require.NoError(t, err)
		_, err = wallets.GetOrCreate(ctx, discordID)
		require.NoError(t, err)
		_, err = wallets.ApplyDelta(ctx, discordID, balance)
		require.NoError(t, err)
	}

	// A wallet in another guild must not leak into this guild's ranking.
	otherGuild := NewWalletRepository(testDB.DB, integrationGuildID+1)
	_, err := users.GetOrCreate(ctx, 2004, "outsider")
	require.NoError(t, err)
	_, err = otherGuild.GetOrCreate(ctx, 2004)
	require.NoError(t, err)
	_, err = otherGuild.ApplyDelta(ctx, 2004, 9999)
	require.NoError(t, err)

	top, err := wallets.GetTopByBalance(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(2001), top[0].DiscordID)
	assert.Equal(t, int64(2003), top[1].DiscordID)

	rank, balance, err := wallets.GetRank(ctx, 2002)
	require.NoError(t, err)
	assert.Equal(t, 3, rank)
	assert.Equal(t, int64(100), balance)

	_, _, err = wallets.GetRank(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
