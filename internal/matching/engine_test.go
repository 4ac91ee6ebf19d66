package matching_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/engine"
	"github.com/eddiefleurent/strangengine/internal/matching"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// scriptedFillModel lets a test dictate the exact sequence of fill
// quantities/prices the matching engine draws, to reproduce a scenario
// deterministically rather than relying on RandomFillModel's RNG.
type scriptedFillModel struct {
	prices []core.Price
	qtys   []core.Quantity
	pi, qi int
}

func (m *scriptedFillModel) ExecutionPrice(trigger core.Price, _ order.Side) core.Price {
	if m.pi >= len(m.prices) {
		return trigger
	}
	p := m.prices[m.pi]
	m.pi++
	return p
}

func (m *scriptedFillModel) FillQuantity(leaves core.Quantity) core.Quantity {
	if m.qi >= len(m.qtys) {
		return leaves
	}
	q := m.qtys[m.qi]
	m.qi++
	return q
}

func mustSymbol(t *testing.T, s string) core.Symbol {
	t.Helper()
	sym, err := core.NewSymbol(s)
	require.NoError(t, err)
	return sym
}

func mustPrice(t *testing.T, s string) core.Price {
	t.Helper()
	p, err := core.NewPrice(s, 4)
	require.NoError(t, err)
	return p
}

func mustQty(t *testing.T, s string) core.Quantity {
	t.Helper()
	q, err := core.NewQuantity(s, 0)
	require.NoError(t, err)
	return q
}

func TestMatching_AcceptedLimitFillsWhenTriggered(t *testing.T) {
	var events []engine.Event
	dispatch := func(evt engine.Event) { events = append(events, evt) }

	fm := &scriptedFillModel{
		prices: []core.Price{mustPrice(t, "1.2000")},
		qtys:   []core.Quantity{mustQty(t, "100")},
	}
	start, err := core.NewMoneyFromString("10000.00", "USD")
	require.NoError(t, err)
	me := matching.New(fm, core.MustDecimal64("5", 2), "acct-1", "USD", start, dispatch, nil)

	sym := mustSymbol(t, "EURUSD")
	o, err := order.NewLimit("ord-1", sym, order.Buy, mustQty(t, "100"), mustPrice(t, "1.2000"), order.GTC, time.Time{}, false, "init", time.Now())
	require.NoError(t, err)
	require.NoError(t, me.SubmitOrder(o))

	me.ProcessTick(matching.QuoteTick{
		Symbol: sym, Bid: mustPrice(t, "1.1995"), Ask: mustPrice(t, "1.2000"), Timestamp: time.Now(),
	})

	var kinds []order.EventKind
	for _, evt := range events {
		if evt.Kind == engine.EventOrder {
			kinds = append(kinds, evt.OrderEvent.Kind)
		}
	}
	assert.Equal(t, []order.EventKind{order.EventSubmitted, order.EventAccepted, order.EventFilled}, kinds)
	assert.True(t, me.Balance().Amount().Cmp(start.Amount()) < 0, "commission should reduce balance")
}

func TestMatching_PartialFillThenExpiry(t *testing.T) {
	var events []engine.Event
	dispatch := func(evt engine.Event) { events = append(events, evt) }

	fm := &scriptedFillModel{
		prices: []core.Price{mustPrice(t, "1.2000"), mustPrice(t, "1.2000")},
		qtys:   []core.Quantity{mustQty(t, "40"), mustQty(t, "0")},
	}
	start, err := core.NewMoneyFromString("10000.00", "USD")
	require.NoError(t, err)
	me := matching.New(fm, core.MustDecimal64("0", 2), "acct-1", "USD", start, dispatch, nil)

	sym := mustSymbol(t, "EURUSD")
	expire := time.Now().Add(time.Hour)
	o, err := order.NewLimit("ord-1", sym, order.Buy, mustQty(t, "100"), mustPrice(t, "1.2000"), order.GTD, expire, true, "init", time.Now())
	require.NoError(t, err)
	require.NoError(t, me.SubmitOrder(o))

	me.ProcessTick(matching.QuoteTick{
		Symbol: sym, Bid: mustPrice(t, "1.1995"), Ask: mustPrice(t, "1.2000"), Timestamp: time.Now(),
	})
	// Second tick, after expiry: the order expires before the fill model's
	// second draw (0) is consulted.
	me.ProcessTick(matching.QuoteTick{
		Symbol: sym, Bid: mustPrice(t, "1.1995"), Ask: mustPrice(t, "1.2000"), Timestamp: expire.Add(time.Minute),
	})

	var kinds []order.EventKind
	for _, evt := range events {
		if evt.Kind == engine.EventOrder {
			kinds = append(kinds, evt.OrderEvent.Kind)
		}
	}
	assert.Equal(t, []order.EventKind{
		order.EventSubmitted, order.EventAccepted, order.EventPartiallyFilled, order.EventExpired,
	}, kinds)
}

func TestMatching_ModifyWhileWorking(t *testing.T) {
	var events []engine.Event
	dispatch := func(evt engine.Event) { events = append(events, evt) }

	fm := &scriptedFillModel{qtys: []core.Quantity{mustQty(t, "0")}}
	start, err := core.NewMoneyFromString("10000.00", "USD")
	require.NoError(t, err)
	me := matching.New(fm, core.MustDecimal64("0", 2), "acct-1", "USD", start, dispatch, nil)

	sym := mustSymbol(t, "EURUSD")
	o, err := order.NewLimit("ord-1", sym, order.Buy, mustQty(t, "100"), mustPrice(t, "1.1000"), order.GTC, time.Time{}, false, "init", time.Now())
	require.NoError(t, err)
	require.NoError(t, me.SubmitOrder(o))

	// Price far from trigger: order parks as WORKING, not filled.
	me.ProcessTick(matching.QuoteTick{
		Symbol: sym, Bid: mustPrice(t, "1.1995"), Ask: mustPrice(t, "1.2000"), Timestamp: time.Now(),
	})

	newQty := mustQty(t, "50")
	require.NoError(t, me.ModifyOrder("ord-1", &newQty, nil))

	var kinds []order.EventKind
	for _, evt := range events {
		if evt.Kind == engine.EventOrder {
			kinds = append(kinds, evt.OrderEvent.Kind)
		}
	}
	assert.Equal(t, []order.EventKind{
		order.EventSubmitted, order.EventAccepted, order.EventWorking, order.EventModified,
	}, kinds)

	require.NoError(t, me.CancelOrder("ord-1"))
	assert.Equal(t, order.EventCancelled, events[len(events)-1].OrderEvent.Kind)
}

func TestMatching_DeterministicReplayWithSameSeed(t *testing.T) {
	sym := mustSymbol(t, "EURUSD")
	run := func() []order.EventKind {
		var events []engine.Event
		dispatch := func(evt engine.Event) { events = append(events, evt) }
		fm := matching.NewRandomFillModel(42, 0.5, 0.5, core.MustDecimal64("0.0001", 4))
		start, _ := core.NewMoneyFromString("10000.00", "USD")
		me := matching.New(fm, core.MustDecimal64("5", 2), "acct-1", "USD", start, dispatch, nil)

		o, err := order.NewLimit("ord-1", sym, order.Buy, mustQty(t, "100"), mustPrice(t, "1.2000"), order.GTC, time.Time{}, false, "init", time.Now())
		require.NoError(t, err)
		require.NoError(t, me.SubmitOrder(o))

		ts := time.Now()
		for i := 0; i < 5; i++ {
			me.ProcessTick(matching.QuoteTick{
				Symbol: sym, Bid: mustPrice(t, "1.1995"), Ask: mustPrice(t, "1.2000"),
				Timestamp: ts.Add(time.Duration(i) * time.Second),
			})
		}

		var kinds []order.EventKind
		for _, evt := range events {
			if evt.Kind == engine.EventOrder {
				kinds = append(kinds, evt.OrderEvent.Kind)
			}
		}
		return kinds
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestMatching_AccountInquiryReportsBalance(t *testing.T) {
	var events []engine.Event
	dispatch := func(evt engine.Event) { events = append(events, evt) }
	fm := &scriptedFillModel{}
	start, err := core.NewMoneyFromString("5000.00", "USD")
	require.NoError(t, err)
	me := matching.New(fm, core.MustDecimal64("0", 2), "acct-1", "USD", start, dispatch, nil)

	require.NoError(t, me.AccountInquiry("acct-1"))
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventAccountState, events[0].Kind)
	assert.Equal(t, start.String(), events[0].Account.Update.Balance.String())
}
