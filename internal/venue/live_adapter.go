package venue

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/engine"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// Settings configures a LiveAdapter's circuit breaker, retry policy and
// fallback poll cadence.
type Settings struct {
	Breaker gobreaker.Settings
	Retry   RetryConfig

	// PollInterval is how often AccountInquiry is re-issued as a fallback
	// when the Transport's push stream has gone quiet, per the teacher's
	// orders.Manager.PollOrderStatus ticker pattern. Zero disables polling.
	PollInterval time.Duration
}

// LiveAdapter implements engine.Venue on top of a Transport, circuit-
// breaking and retrying its calls and draining its inbound event stream
// into the bound execution engine. Grounded on the teacher's
// CircuitBreakerBroker (gobreaker-wrapped broker.Broker, asserted against
// in internal/broker/interface_test.go) generalized from Tradier-specific
// operations to the generic Venue contract.
type LiveAdapter struct {
	transport Transport
	breaker   *gobreaker.CircuitBreaker
	retry     RetryConfig
	poll      time.Duration

	accountId core.AccountId
	dispatch  func(engine.Event)
	logger    *log.Logger
}

// NewLiveAdapter constructs a LiveAdapter. dispatch is called with every
// order event drained from transport's inbound stream — ordinarily the
// bound execution engine's HandleEvent method.
func NewLiveAdapter(transport Transport, accountId core.AccountId, settings Settings, dispatch func(engine.Event), logger *log.Logger) *LiveAdapter {
	if transport == nil {
		panic("venue.NewLiveAdapter: transport must not be nil")
	}
	if dispatch == nil {
		panic("venue.NewLiveAdapter: dispatch must not be nil")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "venue: ", log.LstdFlags)
	}
	if settings.Breaker.Name == "" {
		settings.Breaker.Name = "venue"
	}
	return &LiveAdapter{
		transport: transport,
		breaker:   gobreaker.NewCircuitBreaker(settings.Breaker),
		retry:     settings.Retry,
		poll:      settings.PollInterval,
		accountId: accountId,
		dispatch:  dispatch,
		logger:    logger,
	}
}

// execute runs fn through the circuit breaker, with fn itself retried on
// transient errors per a.retry. A tripped breaker short-circuits straight
// to gobreaker.ErrOpenState without invoking fn at all.
func (a *LiveAdapter) execute(ctx context.Context, fn func() error) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, do(ctx, a.retry, fn)
	})
	return err
}

// SubmitOrder implements engine.Venue.
func (a *LiveAdapter) SubmitOrder(o *order.Order) error {
	ctx := context.Background()
	return a.execute(ctx, func() error { return a.transport.SubmitOrder(ctx, o) })
}

// SubmitBracket implements engine.Venue by submitting each constituent
// order through the same breaker/retry path. Transport has no bracket
// operation, so a bracket always reaches the gateway as its separate
// single orders; there is no native-bracket path.
func (a *LiveAdapter) SubmitBracket(b *order.Bracket) error {
	for _, o := range b.Orders() {
		if err := a.SubmitOrder(o); err != nil {
			return err
		}
	}
	return nil
}

// ModifyOrder implements engine.Venue.
func (a *LiveAdapter) ModifyOrder(id core.OrderId, qty *core.Quantity, price *core.Price) error {
	ctx := context.Background()
	return a.execute(ctx, func() error { return a.transport.ModifyOrder(ctx, id, qty, price) })
}

// CancelOrder implements engine.Venue.
func (a *LiveAdapter) CancelOrder(id core.OrderId) error {
	ctx := context.Background()
	return a.execute(ctx, func() error { return a.transport.CancelOrder(ctx, id) })
}

// AccountInquiry implements engine.Venue.
func (a *LiveAdapter) AccountInquiry(accountId core.AccountId) error {
	ctx := context.Background()
	return a.execute(ctx, func() error { return a.transport.AccountInquiry(ctx, accountId) })
}

// Run drains the transport's inbound event stream into dispatch and, if
// PollInterval is set, issues a fallback AccountInquiry on that cadence —
// a safety net for when the push stream stalls, per the teacher's
// ticker-based PollOrderStatus. It blocks until ctx is cancelled or the
// inbound channel closes, and returns the first error either goroutine
// produced (context cancellation is not reported as an error).
func (a *LiveAdapter) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case evt, ok := <-a.transport.Inbound():
				if !ok {
					return nil
				}
				a.dispatch(engine.Event{Kind: engine.EventOrder, OrderEvent: evt})
			}
		}
	})

	if a.poll > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(a.poll)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := a.AccountInquiry(a.accountId); err != nil {
						a.logger.Printf("fallback account inquiry failed: %v", err)
					}
				}
			}
		})
	}

	return g.Wait()
}

var _ engine.Venue = (*LiveAdapter)(nil)
