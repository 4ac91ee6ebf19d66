package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/core"
)

func mustQty(t *testing.T, s string) core.Quantity {
	t.Helper()
	q, err := core.NewQuantity(s, 0)
	require.NoError(t, err)
	return q
}

func mustPrice(t *testing.T, s string) core.Price {
	t.Helper()
	p, err := core.NewPrice(s, 4)
	require.NoError(t, err)
	return p
}

func newTestLimitBuy(t *testing.T) *Order {
	t.Helper()
	o, err := NewLimit("O-1", "EURUSD", Buy, mustQty(t, "100"), mustPrice(t, "1.2000"),
		GTC, time.Time{}, false, "init-1", time.Now())
	require.NoError(t, err)
	return o
}

func TestMarketOrder_RejectsGTC(t *testing.T) {
	_, err := NewMarket("O-1", "EURUSD", Buy, mustQty(t, "100"), GTC, "init-1", time.Now())
	assert.Error(t, err)
}

func TestMarketOrder_RejectsGTD(t *testing.T) {
	_, err := NewMarket("O-1", "EURUSD", Buy, mustQty(t, "100"), GTD, "init-1", time.Now())
	assert.Error(t, err)
}

func TestLimitOrder_GTDRequiresExpireTime(t *testing.T) {
	_, err := NewLimit("O-1", "EURUSD", Buy, mustQty(t, "100"), mustPrice(t, "1.2"),
		GTD, time.Time{}, false, "init-1", time.Now())
	assert.Error(t, err)
}

func TestOrder_AcceptedLimitFillScenario(t *testing.T) {
	o := newTestLimitBuy(t)
	t0 := time.Now()

	require.NoError(t, o.Apply(Event{Kind: EventSubmitted, Timestamp: t0}))
	assert.Equal(t, Submitted, o.State)

	require.NoError(t, o.Apply(Event{Kind: EventAccepted, Timestamp: t0, IdBroker: "B-1"}))
	assert.Equal(t, Accepted, o.State)

	require.NoError(t, o.Apply(Event{Kind: EventWorking, Timestamp: t0}))
	assert.Equal(t, Working, o.State)

	t1 := t0.Add(time.Minute)
	require.NoError(t, o.Apply(Event{
		Kind: EventFilled, Timestamp: t1, ExecutionTime: t1,
		FillQuantity: mustQty(t, "100"), FillPrice: mustPrice(t, "1.2000"),
	}))
	assert.Equal(t, Filled, o.State)
	assert.True(t, o.FilledQuantity.Cmp(mustQty(t, "100").Decimal64) == 0)
	assert.True(t, o.Slippage.IsZero())
	assert.Len(t, o.Events, 4)
}

func TestOrder_PartialFillThenExpiry(t *testing.T) {
	o, err := NewLimit("O-2", "EURUSD", Buy, mustQty(t, "100"), mustPrice(t, "1.2000"),
		GTD, time.Now().Add(2*time.Hour), true, "init-2", time.Now())
	require.NoError(t, err)

	require.NoError(t, o.Apply(Event{Kind: EventSubmitted}))
	require.NoError(t, o.Apply(Event{Kind: EventAccepted}))
	require.NoError(t, o.Apply(Event{Kind: EventWorking}))

	require.NoError(t, o.Apply(Event{
		Kind: EventPartiallyFilled, FillQuantity: mustQty(t, "40"), FillPrice: mustPrice(t, "1.2000"),
	}))
	assert.Equal(t, PartiallyFilled, o.State)

	require.NoError(t, o.Apply(Event{Kind: EventExpired}))
	assert.Equal(t, Expired, o.State)
	assert.True(t, o.State.IsCompleted())
	assert.True(t, o.FilledQuantity.Cmp(mustQty(t, "40").Decimal64) == 0)
}

func TestOrder_IllegalTransitionDropped(t *testing.T) {
	o := newTestLimitBuy(t)
	require.NoError(t, o.Apply(Event{Kind: EventSubmitted}))
	require.NoError(t, o.Apply(Event{Kind: EventAccepted}))
	require.NoError(t, o.Apply(Event{Kind: EventWorking}))

	err := o.Apply(Event{Kind: EventAccepted})
	assert.Error(t, err)
	assert.Equal(t, Working, o.State, "state unchanged after a rejected transition")
}

func TestOrder_DuplicateRejectIsIdempotent(t *testing.T) {
	o := newTestLimitBuy(t)
	require.NoError(t, o.Apply(Event{Kind: EventSubmitted}))
	require.NoError(t, o.Apply(Event{Kind: EventRejected, Reason: "insufficient margin"}))
	assert.Equal(t, Rejected, o.State)

	require.NoError(t, o.Apply(Event{Kind: EventRejected, Reason: "duplicate"}))
	assert.Equal(t, Rejected, o.State)
	assert.Len(t, o.Events, 3)
}

func TestOrder_ModifyWhileWorking(t *testing.T) {
	o := newTestLimitBuy(t)
	require.NoError(t, o.Apply(Event{Kind: EventSubmitted}))
	require.NoError(t, o.Apply(Event{Kind: EventAccepted}))
	require.NoError(t, o.Apply(Event{Kind: EventWorking}))

	newQty := mustQty(t, "8")
	newPrice := mustPrice(t, "1.19")
	require.NoError(t, o.Apply(Event{
		Kind: EventModified, ModifiedQuantity: newQty, HasModifiedQty: true,
		ModifiedPrice: newPrice, HasModifiedPrice: true,
	}))
	assert.Equal(t, Working, o.State)
	assert.True(t, o.Quantity.Cmp(newQty.Decimal64) == 0)
	assert.True(t, o.Price.Cmp(newPrice.Decimal64) == 0)
}

func TestBracket_ValidatesChildTypes(t *testing.T) {
	entry, err := NewMarket("O-3", "EURUSD", Buy, mustQty(t, "10"), DAY, "e", time.Now())
	require.NoError(t, err)
	stop, err := NewStop("O-4", "EURUSD", Sell, mustQty(t, "10"), mustPrice(t, "0.99"), GTC, time.Time{}, false, "sl", time.Now())
	require.NoError(t, err)
	tp, err := NewLimit("O-5", "EURUSD", Sell, mustQty(t, "10"), mustPrice(t, "1.05"), GTC, time.Time{}, false, "tp", time.Now())
	require.NoError(t, err)

	b, err := NewBracket(entry, stop, tp)
	require.NoError(t, err)
	assert.Equal(t, core.OrderId("BO-3"), b.ID)
	assert.Len(t, b.Orders(), 3)
}
