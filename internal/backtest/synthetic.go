package backtest

import (
	"math/rand"
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/matching"
)

// SyntheticConfig parameterizes a random-walk tick series generated by
// NewSyntheticDataSource.
type SyntheticConfig struct {
	Symbol     core.Symbol
	Seed       int64
	Count      int
	Interval   time.Duration
	Start      time.Time
	StartPrice core.Decimal64
	StepSize   core.Decimal64 // max magnitude of each tick's mid-price move
	HalfSpread core.Decimal64
	Size       core.Quantity
}

// NewSyntheticDataSource builds a DataSource of cfg.Count ticks for
// cfg.Symbol, spaced cfg.Interval apart starting at cfg.Start, whose mid
// price random-walks from cfg.StartPrice by up to +/-cfg.StepSize each
// tick. Adapted from the teacher's mock.DataProvider.GetQuote
// (internal/mock/mock_data.go): a seeded *rand.Rand perturbing a running
// price by a small random step, retargeted from broker.QuoteItem to
// matching.QuoteTick so it can drive BacktestDriver directly without a
// tick file.
func NewSyntheticDataSource(cfg SyntheticConfig) *SliceDataSource {
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- deterministic by design, not security-sensitive
	mid := cfg.StartPrice
	ts := cfg.Start
	ticks := make([]matching.QuoteTick, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		step := core.NewDecimal64FromFloat((rng.Float64()-0.5)*2, cfg.StepSize.Precision()).Mul(cfg.StepSize)
		mid = mid.Add(step)
		if mid.Sign() < 0 {
			mid = mid.Neg()
		}

		bidDec := mid.Sub(cfg.HalfSpread)
		if bidDec.Sign() < 0 {
			bidDec = mid
		}
		ticks = append(ticks, matching.QuoteTick{
			Symbol:    cfg.Symbol,
			Bid:       core.Price{Decimal64: bidDec},
			Ask:       core.Price{Decimal64: mid.Add(cfg.HalfSpread)},
			BidSize:   cfg.Size,
			AskSize:   cfg.Size,
			Timestamp: ts,
		})
		ts = ts.Add(cfg.Interval)
	}

	return NewSliceDataSource(ticks)
}
