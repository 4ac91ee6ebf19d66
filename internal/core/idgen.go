package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// IdGenerator produces identifiers in the format
// "<prefix>-<YYYYMMDD>-<HHMMSS>-<trader_tag>-<strategy_tag>-<n>" per
// spec.md §6, where n is a monotonic per-generator counter that Reset
// brings back to 0.
type IdGenerator struct {
	prefix      string
	traderTag   string
	strategyTag string
	clock       func() time.Time

	mu sync.Mutex
	n  int64
}

// NewIdGenerator constructs a generator. clock defaults to time.Now when
// nil, letting tests and the backtest driver supply a virtual clock.
func NewIdGenerator(prefix, traderTag, strategyTag string, clock func() time.Time) (*IdGenerator, error) {
	if prefix == "" || traderTag == "" || strategyTag == "" {
		return nil, errs.InvalidArgument("prefix, traderTag and strategyTag must not be empty")
	}
	if clock == nil {
		clock = time.Now
	}
	return &IdGenerator{prefix: prefix, traderTag: traderTag, strategyTag: strategyTag, clock: clock}, nil
}

// Next returns the next identifier and advances the counter.
func (g *IdGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock().UTC()
	id := fmt.Sprintf("%s-%s-%s-%s-%s-%d",
		g.prefix, now.Format("20060102"), now.Format("150405"), g.traderTag, g.strategyTag, g.n)
	g.n++
	return id
}

// Reset brings the counter back to 0.
func (g *IdGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}

// NewUUID returns a random UUIDv4 string, used for identifiers that have
// no structured-format requirement (correlation ids, default execution
// ids when a venue does not supply one).
func NewUUID() string {
	return uuid.NewString()
}
