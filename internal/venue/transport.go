// Package venue defines the live-mode venue adapter: the interface a real
// brokerage/exchange gateway would implement to stand in for
// internal/matching's simulated engine, plus the resilience wrapping
// (circuit breaker, bounded retry, inbound event draining) any such
// gateway needs. No concrete gateway ships in this module — per spec.md's
// Non-goals, a real broker connection is out of scope — only the seam a
// live implementation plugs into, mirroring the teacher's split between
// broker.Broker (interface) and broker.TradierClient (concrete adapter).
package venue

import (
	"context"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// Transport is the low-level gateway a live LiveAdapter wraps: the actual
// network calls to submit/cancel/modify orders and query the account, plus
// an inbound channel of events the gateway pushes (fills, rejects, account
// updates). Grounded on the teacher's broker.Broker interface, narrowed
// from Tradier-specific option-strangle operations to the generic single-
// order operations spec.md's Venue contract requires.
type Transport interface {
	SubmitOrder(ctx context.Context, o *order.Order) error
	ModifyOrder(ctx context.Context, id core.OrderId, qty *core.Quantity, price *core.Price) error
	CancelOrder(ctx context.Context, id core.OrderId) error
	AccountInquiry(ctx context.Context, accountId core.AccountId) error

	// Inbound is the gateway's push event stream; LiveAdapter.Run drains it
	// until ctx is cancelled or the channel closes.
	Inbound() <-chan order.Event
}
