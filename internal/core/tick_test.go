package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/core"
)

func mustPrice(t *testing.T, s string) core.Price {
	t.Helper()
	p, err := core.NewPrice(s, 4)
	require.NoError(t, err)
	return p
}

func TestPrice_RoundToTick(t *testing.T) {
	tick := mustPrice(t, "0.05")
	assert.True(t, mustPrice(t, "1.10").Equal(mustPrice(t, "1.1234").RoundToTick(tick).Decimal64))
	assert.True(t, mustPrice(t, "1.15").Equal(mustPrice(t, "1.1301").RoundToTick(tick).Decimal64))
}

func TestPrice_FloorToTick(t *testing.T) {
	tick := mustPrice(t, "0.05")
	assert.True(t, mustPrice(t, "1.10").Equal(mustPrice(t, "1.1490").FloorToTick(tick).Decimal64))
}

func TestPrice_CeilToTick(t *testing.T) {
	tick := mustPrice(t, "0.05")
	assert.True(t, mustPrice(t, "1.15").Equal(mustPrice(t, "1.1010").CeilToTick(tick).Decimal64))
}

func TestPrice_RoundToTick_ZeroTickIsNoOp(t *testing.T) {
	zero, err := core.NewPrice("0", 4)
	require.NoError(t, err)
	p := mustPrice(t, "1.2345")
	assert.True(t, p.Equal(p.RoundToTick(zero).Decimal64))
}
