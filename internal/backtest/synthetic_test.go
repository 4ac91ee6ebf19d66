package backtest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/backtest"
	"github.com/eddiefleurent/strangengine/internal/core"
)

func syntheticConfig(t *testing.T, seed int64) backtest.SyntheticConfig {
	t.Helper()
	symbol, err := core.NewSymbol("SPY")
	require.NoError(t, err)
	size, err := core.NewQuantity("1", 0)
	require.NoError(t, err)
	return backtest.SyntheticConfig{
		Symbol:     symbol,
		Seed:       seed,
		Count:      10,
		Interval:   time.Minute,
		Start:      time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC),
		StartPrice: core.MustDecimal64("450.00", 2),
		StepSize:   core.MustDecimal64("0.50", 2),
		HalfSpread: core.MustDecimal64("0.01", 2),
		Size:       size,
	}
}

func TestNewSyntheticDataSource_ProducesRequestedTickCount(t *testing.T) {
	ds := backtest.NewSyntheticDataSource(syntheticConfig(t, 1))
	count := 0
	var last time.Time
	for ds.HasNext() {
		tick := ds.Next()
		if count > 0 {
			assert.True(t, tick.Timestamp.After(last))
		}
		assert.True(t, tick.Ask.Cmp(tick.Bid.Decimal64) >= 0)
		last = tick.Timestamp
		count++
	}
	assert.Equal(t, 10, count)
}

func TestNewSyntheticDataSource_IsDeterministicForSameSeed(t *testing.T) {
	a := backtest.NewSyntheticDataSource(syntheticConfig(t, 7))
	b := backtest.NewSyntheticDataSource(syntheticConfig(t, 7))

	for a.HasNext() {
		require.True(t, b.HasNext())
		ta, tb := a.Next(), b.Next()
		assert.True(t, ta.Bid.Equal(tb.Bid.Decimal64))
		assert.True(t, ta.Ask.Equal(tb.Ask.Decimal64))
		assert.Equal(t, ta.Timestamp, tb.Timestamp)
	}
	assert.False(t, b.HasNext())
}

func TestNewSyntheticDataSource_DifferentSeedsDiverge(t *testing.T) {
	a := backtest.NewSyntheticDataSource(syntheticConfig(t, 1))
	b := backtest.NewSyntheticDataSource(syntheticConfig(t, 2))

	diverged := false
	for a.HasNext() && b.HasNext() {
		ta, tb := a.Next(), b.Next()
		if !ta.Bid.Equal(tb.Bid.Decimal64) {
			diverged = true
		}
	}
	assert.True(t, diverged)
}
