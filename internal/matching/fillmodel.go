package matching

import (
	"math/rand"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// FillModel is the seeded probabilistic policy that decides a triggered
// order's execution price and fill quantity, per spec.md §4.6. Kept as an
// interface (rather than a single concrete type) so tests can script exact
// draws for the scenarios in spec.md §8 while the backtest path
// (cmd/backtestrunner) uses RandomFillModel's seeded RNG.
type FillModel interface {
	// ExecutionPrice returns the price a trigger at triggerPrice actually
	// executes at, after the prob_fill_at_limit and prob_slippage draws.
	ExecutionPrice(triggerPrice core.Price, side order.Side) core.Price

	// FillQuantity returns how much of leaves fills this tick; zero means
	// no fill yet (the order stays working).
	FillQuantity(leaves core.Quantity) core.Quantity
}

// RandomFillModel is the seeded Bernoulli fill model spec.md §4.6
// describes: two independent draws, probFillAtLimit (fill at the resting
// price vs slip one tick) and probSlippage (apply that tick adversely).
// Grounded on the teacher's internal/mock/mock_data.go deterministic-RNG
// pattern (seeded *rand.Rand, no crypto/rand fallback needed here since
// backtests always run with an explicit seed for reproducibility).
type RandomFillModel struct {
	rng *rand.Rand

	probFillAtLimit float64
	probSlippage    float64
	tickSize        core.Decimal64

	partialFillsEnabled bool
	probPartialFill     float64
	partialFillRatio    float64
}

// NewRandomFillModel constructs a seeded fill model. tickSize is the
// smallest price increment applied as adverse slippage.
func NewRandomFillModel(seed int64, probFillAtLimit, probSlippage float64, tickSize core.Decimal64) *RandomFillModel {
	return &RandomFillModel{
		rng:              rand.New(rand.NewSource(seed)), // #nosec G404 -- deterministic by design, not security-sensitive
		probFillAtLimit:  probFillAtLimit,
		probSlippage:     probSlippage,
		tickSize:         tickSize,
		probPartialFill:  0,
		partialFillRatio: 0.5,
	}
}

// EnablePartialFills turns on partial fills: a fraction probPartial of
// triggers fill partialRatio of leaves rather than the full amount.
func (m *RandomFillModel) EnablePartialFills(probPartial, partialRatio float64) {
	m.partialFillsEnabled = true
	m.probPartialFill = probPartial
	m.partialFillRatio = partialRatio
}

// ExecutionPrice implements FillModel.
func (m *RandomFillModel) ExecutionPrice(triggerPrice core.Price, side order.Side) core.Price {
	if m.rng.Float64() >= m.probFillAtLimit && m.rng.Float64() < m.probSlippage {
		tick := core.Price{Decimal64: m.tickSize}
		if side == order.Buy {
			slipped := core.Price{Decimal64: triggerPrice.Decimal64.Add(m.tickSize)}
			return slipped.CeilToTick(tick)
		}
		slipped := core.Price{Decimal64: triggerPrice.Decimal64.Sub(m.tickSize)}
		return slipped.FloorToTick(tick)
	}
	return triggerPrice
}

// FillQuantity implements FillModel.
func (m *RandomFillModel) FillQuantity(leaves core.Quantity) core.Quantity {
	if !m.partialFillsEnabled || m.rng.Float64() >= m.probPartialFill {
		return leaves
	}
	partialFloat := leaves.Float64() * m.partialFillRatio
	partial := core.NewDecimal64FromFloat(partialFloat, leaves.Precision())
	if partial.IsZero() || partial.Cmp(leaves.Decimal64) >= 0 {
		return leaves
	}
	return core.Quantity{Decimal64: partial}
}
