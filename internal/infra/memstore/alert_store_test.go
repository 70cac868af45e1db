package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akarpov/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertStoreTryClaimConcurrent(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	alert := &domain.Alert{
		UserID:      1,
		Market:      domain.MarketBinance,
		Pair:        "BTCUSDT",
		Direction:   domain.DirectionGTE,
		TargetPrice: decimal.NewFromInt(100000),
	}
	require.NoError(t, store.Create(ctx, alert))

	const attempts = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	claims := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.TryClaim(ctx, alert.ID, time.Now())
			assert.NoError(t, err)
			if claimed {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, claims, "exactly one of %d concurrent claims may succeed", attempts)
}

func TestAlertStoreActiveKeyQueries(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	first := &domain.Alert{UserID: 1, Market: domain.MarketBinance, Pair: "BTCUSDT", Direction: domain.DirectionGTE, TargetPrice: decimal.NewFromInt(100000)}
	second := &domain.Alert{UserID: 2, Market: domain.MarketBinance, Pair: "BTCUSDT", Direction: domain.DirectionLTE, TargetPrice: decimal.NewFromInt(60000)}
	third := &domain.Alert{UserID: 1, Market: domain.MarketCoinbase, Pair: "ETH-USD", Direction: domain.DirectionGTE, TargetPrice: decimal.NewFromInt(4000)}
	for _, alert := range []*domain.Alert{first, second, third} {
		require.NoError(t, store.Create(ctx, alert))
	}

	keys, err := store.ListDistinctActiveKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.QuoteKey{
		{Market: domain.MarketBinance, Pair: "BTCUSDT"},
		{Market: domain.MarketCoinbase, Pair: "ETH-USD"},
	}, keys)

	claimed, err := store.TryClaim(ctx, third.ID, time.Now())
	require.NoError(t, err)
	require.True(t, claimed)

	keys, err = store.ListDistinctActiveKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.QuoteKey{{Market: domain.MarketBinance, Pair: "BTCUSDT"}}, keys)

	active, err := store.ListActiveByKey(ctx, domain.QuoteKey{Market: domain.MarketBinance, Pair: "BTCUSDT"})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}
