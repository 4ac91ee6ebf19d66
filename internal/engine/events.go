package engine

import (
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/execdb"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// EventKind tags the variant of an Event fed into handle_event, per
// spec.md §4.5.
type EventKind string

// Event kinds.
const (
	EventOrderCancelReject EventKind = "OrderCancelReject"
	EventOrder             EventKind = "Order" // wraps an order.Event
	EventAccountState      EventKind = "AccountState"
	EventPositionOpened    EventKind = "PositionOpened"
	EventPositionClosed    EventKind = "PositionClosed"
	EventPositionModified  EventKind = "PositionModified"
)

// AccountState carries an account state update from the venue, per
// spec.md §4.5's AccountStateEvent variant.
type AccountState struct {
	AccountId core.AccountId
	Currency  core.Currency
	Update    execdb.AccountEvent
}

// Event is the tagged-variant event the engine dispatches through
// handle_event. Only the fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	// OrderCancelReject.
	OrderId      core.OrderId
	RejectReason string

	// Order: the underlying FSM event, applied to the order named by
	// OrderEvent.OrderId.
	OrderEvent order.Event

	// AccountState.
	Account AccountState

	// PositionOpened/PositionClosed/PositionModified: the position_id
	// resolved during the fill→position flow (§4.5.1).
	PositionId core.PositionId
}
