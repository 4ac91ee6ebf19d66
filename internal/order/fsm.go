package order

import (
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// transitionTable mirrors the teacher's transitionLookup: a precomputed
// map[from][eventKind]to for O(1) lookup, built once at init instead of
// scanning a slice of transitions on every Apply call.
var transitionTable map[State]map[EventKind]State

func init() {
	type row struct {
		from State
		kind EventKind
		to   State
	}
	rows := []row{
		{Initialized, EventInvalid, Invalid},
		{Initialized, EventDenied, Denied},
		{Initialized, EventCancelled, Cancelled},
		{Initialized, EventSubmitted, Submitted},

		{Submitted, EventRejected, Rejected},
		{Submitted, EventAccepted, Accepted},
		{Submitted, EventWorking, Working},
		{Submitted, EventCancelled, Cancelled},

		{Accepted, EventWorking, Working},
		{Accepted, EventCancelled, Cancelled},
		{Accepted, EventPartiallyFilled, PartiallyFilled},
		{Accepted, EventFilled, Filled},

		{Working, EventModified, Working},
		{Working, EventCancelled, Cancelled},
		{Working, EventExpired, Expired},
		{Working, EventPartiallyFilled, PartiallyFilled},
		{Working, EventFilled, Filled},

		{PartiallyFilled, EventPartiallyFilled, PartiallyFilled},
		{PartiallyFilled, EventFilled, Filled},
		{PartiallyFilled, EventExpired, Expired},
		{PartiallyFilled, EventCancelled, PartiallyFilled},
	}

	transitionTable = make(map[State]map[EventKind]State, len(rows))
	for _, r := range rows {
		if transitionTable[r.from] == nil {
			transitionTable[r.from] = make(map[EventKind]State)
		}
		transitionTable[r.from][r.kind] = r.to
	}
}

// nextState looks up the transition, or ok=false if undefined.
func nextState(from State, kind EventKind) (State, bool) {
	toMap, ok := transitionTable[from]
	if !ok {
		return "", false
	}
	to, ok := toMap[kind]
	return to, ok
}

// Apply pushes evt onto the order's event log, advances the FSM and
// updates mutable fields per the event's semantics. A transition the FSM
// does not define fails with errs.ErrInvalidStateTrigger, except a
// duplicate REJECTED->REJECTED event, which is idempotent (spec.md §4.2d).
func (o *Order) Apply(evt Event) error {
	if o.State == Rejected && evt.Kind == EventRejected {
		o.Events = append(o.Events, evt)
		return nil
	}

	to, ok := nextState(o.State, evt.Kind)
	if !ok {
		return errs.InvalidStateTrigger(string(o.State), string(evt.Kind))
	}

	o.Events = append(o.Events, evt)
	o.State = to

	switch evt.Kind {
	case EventAccepted:
		o.IdBroker = evt.IdBroker
		o.HasIdBroker = true
		o.AccountId = evt.AccountId
		o.HasAccountId = true
	case EventWorking:
		if evt.IdBroker != "" {
			o.IdBroker = evt.IdBroker
			o.HasIdBroker = true
		}
	case EventModified:
		if evt.HasModifiedQty {
			o.Quantity = evt.ModifiedQuantity
		}
		if evt.HasModifiedPrice {
			o.Price = evt.ModifiedPrice
			o.HasPrice = true
		}
	case EventPartiallyFilled, EventFilled:
		o.applyFill(evt)
	}

	return nil
}

// applyFill folds a (partial) fill into FilledQuantity/AveragePrice and
// computes slippage = avg_price - price for BUY, negated for SELL, at the
// average-price precision, per spec.md §4.2.
func (o *Order) applyFill(evt Event) {
	prevFilled := o.FilledQuantity
	prevAvg := o.AveragePrice

	newFilled := prevFilled.Add(evt.FillQuantity)

	// Weighted average: (prevFilled*prevAvg + fillQty*fillPrice) / newFilled.
	// Division isn't exposed on Decimal64 (spec only requires lossless
	// add/sub), so the average is recomputed via float64 — a derived,
	// reporting-only field, not an accounting total.
	newAvg := evt.FillPrice.Decimal64
	if !prevFilled.IsZero() && !newFilled.IsZero() {
		prevNotional := prevFilled.Decimal64.Mul(prevAvg.Decimal64)
		fillNotional := evt.FillQuantity.Decimal64.Mul(evt.FillPrice.Decimal64)
		totalNotional := prevNotional.Add(fillNotional)
		avgFloat := totalNotional.Float64() / newFilled.Float64()
		newAvg = core.NewDecimal64FromFloat(avgFloat, evt.FillPrice.Precision())
	}

	o.FilledQuantity = newFilled
	o.AveragePrice.Decimal64 = newAvg
	o.HasAveragePrice = true

	ts := evt.ExecutionTime
	if ts.IsZero() {
		ts = evt.Timestamp
	}
	o.FilledTimestamp = ts
	o.HasFilledTimestamp = true

	if evt.HasPositionIdBroker {
		o.PositionIdBroker = evt.PositionIdBroker
		o.HasPositionIdBroker = true
	}
	if evt.ExecutionId != "" {
		o.ExecutionId = evt.ExecutionId
		o.HasExecutionId = true
	}

	slip := o.AveragePrice.Decimal64.Sub(o.Price.Decimal64)
	if o.Side == Sell {
		slip = slip.Neg()
	}
	o.Slippage = slip
	o.HasSlippage = true
}
