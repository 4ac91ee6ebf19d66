package engine

import (
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// Venue is the single bound adapter the engine forwards commands to, per
// spec.md §4.5. The simulated matching engine (internal/matching) and the
// live venue adapter (internal/venue) both implement this shape, mirroring
// the teacher's broker.Broker split from its concrete Tradier client.
type Venue interface {
	AccountInquiry(accountId core.AccountId) error
	SubmitOrder(o *order.Order) error
	SubmitBracket(b *order.Bracket) error
	ModifyOrder(id core.OrderId, qty *core.Quantity, price *core.Price) error
	CancelOrder(id core.OrderId) error
}
