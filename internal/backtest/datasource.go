// Package backtest implements the virtual-clock scheduler that drives a
// backtest run: a DataSource producing ticks in timestamp order, a
// BacktestDriver that interleaves timer callbacks with tick delivery
// across all registered strategies, per spec.md §4.8.
package backtest

import (
	"sort"
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/matching"
)

// DataSource produces QuoteTicks in non-decreasing timestamp order. The
// driver's run loop pulls one tick at a time, per spec.md §4.8 step 2.
type DataSource interface {
	// HasNext reports whether a further tick remains.
	HasNext() bool

	// PeekTimestamp returns the timestamp of the tick HasNext reports is
	// available, without consuming it — the driver needs this to decide
	// whether the next tick is still within [start, stop] before pulling it.
	PeekTimestamp() time.Time

	// Next returns the next tick. Calling Next after HasNext returns false
	// is a programming error; implementations may panic.
	Next() matching.QuoteTick
}

// SliceDataSource replays a fixed, pre-sorted slice of ticks — the
// in-memory stand-in spec.md treats the data source as an external
// collaborator, grounded on the teacher's mock.DataProvider synthesizing
// an in-process feed for tests rather than hitting a real market-data API.
type SliceDataSource struct {
	ticks []matching.QuoteTick
	pos   int
}

// NewSliceDataSource constructs a SliceDataSource that replays ticks in
// ascending timestamp order (stable-sorting a copy of the input so the
// caller's slice is never mutated).
func NewSliceDataSource(ticks []matching.QuoteTick) *SliceDataSource {
	sorted := make([]matching.QuoteTick, len(ticks))
	copy(sorted, ticks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return &SliceDataSource{ticks: sorted}
}

// HasNext implements DataSource.
func (s *SliceDataSource) HasNext() bool { return s.pos < len(s.ticks) }

// PeekTimestamp implements DataSource.
func (s *SliceDataSource) PeekTimestamp() time.Time { return s.ticks[s.pos].Timestamp }

// Next implements DataSource.
func (s *SliceDataSource) Next() matching.QuoteTick {
	t := s.ticks[s.pos]
	s.pos++
	return t
}

// Reset rewinds the data source to its first tick, so the same
// SliceDataSource can back repeated driver runs.
func (s *SliceDataSource) Reset() { s.pos = 0 }

// Bar is an OHLCV aggregate over an interval, the coarser-grained data
// unit some strategies consume alongside raw ticks.
type Bar struct {
	Symbol                 core.Symbol
	Open, High, Low, Close float64
	Volume                 float64
	Start, End             time.Time
}

// AggregateBars folds ticks (assumed pre-sorted, single symbol) into
// fixed-width bars keyed on mid-price, using BidSize+AskSize as a volume
// proxy since QuoteTick carries no trade prints.
func AggregateBars(ticks []matching.QuoteTick, width time.Duration) []Bar {
	if len(ticks) == 0 || width <= 0 {
		return nil
	}
	var bars []Bar
	var cur *Bar
	for _, tk := range ticks {
		mid := (tk.Bid.Float64() + tk.Ask.Float64()) / 2
		vol := tk.BidSize.Float64() + tk.AskSize.Float64()
		if cur == nil || tk.Timestamp.After(cur.End) {
			if cur != nil {
				bars = append(bars, *cur)
			}
			cur = &Bar{
				Symbol: tk.Symbol,
				Open:   mid, High: mid, Low: mid, Close: mid, Volume: vol,
				Start: tk.Timestamp, End: tk.Timestamp.Add(width),
			}
			continue
		}
		if mid > cur.High {
			cur.High = mid
		}
		if mid < cur.Low {
			cur.Low = mid
		}
		cur.Close = mid
		cur.Volume += vol
	}
	if cur != nil {
		bars = append(bars, *cur)
	}
	return bars
}
