// Package matching implements the simulated venue: a deterministic
// per-symbol order book that turns incoming quote ticks into order fills,
// expiries and rejects, optionally perturbed by a probabilistic fill
// model, per spec.md §4.6. It implements engine.Venue so the execution
// engine can route commands to it exactly as it would a live adapter.
package matching

import (
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
)

// QuoteTick is a snapshot of top-of-book for a symbol at a timestamp, the
// unit the backtest driver's DataSource replays and the matching engine
// consumes, per the GLOSSARY's "Tick" entry.
type QuoteTick struct {
	Symbol    core.Symbol
	Bid       core.Price
	Ask       core.Price
	BidSize   core.Quantity
	AskSize   core.Quantity
	Timestamp time.Time
}
