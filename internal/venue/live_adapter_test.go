package venue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/engine"
	"github.com/eddiefleurent/strangengine/internal/order"
	"github.com/eddiefleurent/strangengine/internal/venue"
)

type fakeTransport struct {
	submitErr error
	submitted []*order.Order
	inbound   chan order.Event
	inquiries int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{inbound: make(chan order.Event, 8)}
}

func (f *fakeTransport) SubmitOrder(_ context.Context, o *order.Order) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, o)
	return nil
}
func (f *fakeTransport) ModifyOrder(_ context.Context, _ core.OrderId, _ *core.Quantity, _ *core.Price) error {
	return nil
}
func (f *fakeTransport) CancelOrder(_ context.Context, _ core.OrderId) error { return nil }
func (f *fakeTransport) AccountInquiry(_ context.Context, _ core.AccountId) error {
	f.inquiries++
	return nil
}
func (f *fakeTransport) Inbound() <-chan order.Event { return f.inbound }

func mustLimitOrder(t *testing.T, id core.OrderId) *order.Order {
	t.Helper()
	sym, err := core.NewSymbol("EURUSD")
	require.NoError(t, err)
	qty, err := core.NewQuantity("100", 0)
	require.NoError(t, err)
	price, err := core.NewPrice("1.2000", 4)
	require.NoError(t, err)
	o, err := order.NewLimit(id, sym, order.Buy, qty, price, order.GTC, time.Time{}, false, "init", time.Now().UTC())
	require.NoError(t, err)
	return o
}

func mustStopOrder(t *testing.T, id core.OrderId) *order.Order {
	t.Helper()
	sym, err := core.NewSymbol("EURUSD")
	require.NoError(t, err)
	qty, err := core.NewQuantity("100", 0)
	require.NoError(t, err)
	price, err := core.NewPrice("1.1900", 4)
	require.NoError(t, err)
	o, err := order.NewStop(id, sym, order.Sell, qty, price, order.GTC, time.Time{}, false, "init", time.Now().UTC())
	require.NoError(t, err)
	return o
}

func TestLiveAdapter_SubmitOrderForwardsToTransport(t *testing.T) {
	transport := newFakeTransport()
	var got []engine.Event
	a := venue.NewLiveAdapter(transport, "acct-1", venue.Settings{Retry: venue.RetryConfig{MaxRetries: 0}},
		func(evt engine.Event) { got = append(got, evt) }, nil)

	o := mustLimitOrder(t, "ord-1")
	require.NoError(t, a.SubmitOrder(o))
	assert.Len(t, transport.submitted, 1)
	assert.Equal(t, core.OrderId("ord-1"), transport.submitted[0].ID)
}

func TestLiveAdapter_SubmitOrderFailureTripsBreakerAfterThreshold(t *testing.T) {
	transport := newFakeTransport()
	transport.submitErr = errors.New("connection reset by peer")

	settings := venue.Settings{
		Retry: venue.RetryConfig{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
		Breaker: gobreaker.Settings{
			Name:        "test",
			MaxRequests: 1,
			ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 2 },
		},
	}
	a := venue.NewLiveAdapter(transport, "acct-1", settings, func(engine.Event) {}, nil)

	o := mustLimitOrder(t, "ord-1")
	require.Error(t, a.SubmitOrder(o))
	require.Error(t, a.SubmitOrder(o))

	err := a.SubmitOrder(o)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestLiveAdapter_SubmitBracketSubmitsEveryChild(t *testing.T) {
	transport := newFakeTransport()
	a := venue.NewLiveAdapter(transport, "acct-1", venue.Settings{}, func(engine.Event) {}, nil)

	entry := mustLimitOrder(t, "entry-1")
	stop := mustStopOrder(t, "stop-1")
	b, err := order.NewBracket(entry, stop, nil)
	require.NoError(t, err)

	require.NoError(t, a.SubmitBracket(b))
	assert.Len(t, transport.submitted, 2)
}

func TestLiveAdapter_RunDrainsInboundEventsUntilContextCancelled(t *testing.T) {
	transport := newFakeTransport()
	var mu sync.Mutex
	var got []engine.Event
	a := venue.NewLiveAdapter(transport, "acct-1", venue.Settings{}, func(evt engine.Event) {
		mu.Lock()
		got = append(got, evt)
		mu.Unlock()
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	transport.inbound <- order.Event{Kind: order.EventFilled, OrderId: "ord-1"}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestLiveAdapter_RunPollsAccountInquiryOnInterval(t *testing.T) {
	transport := newFakeTransport()
	a := venue.NewLiveAdapter(transport, "acct-1", venue.Settings{PollInterval: 5 * time.Millisecond},
		func(engine.Event) {}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return transport.inquiries >= 2 }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
