package order

import (
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
)

// EventKind tags the variant of an Event, replacing dynamic dispatch on
// event subclass with a single discriminated struct per spec.md §9.
type EventKind string

// Event kinds. Note INITIALIZED has no corresponding event: it is the
// order's state before any event has been applied.
const (
	EventInvalid         EventKind = "Invalid"
	EventDenied          EventKind = "Denied"
	EventSubmitted       EventKind = "Submitted"
	EventRejected        EventKind = "Rejected"
	EventAccepted        EventKind = "Accepted"
	EventWorking         EventKind = "Working"
	EventModified        EventKind = "Modified"
	EventPartiallyFilled EventKind = "PartiallyFilled"
	EventFilled          EventKind = "Filled"
	EventExpired         EventKind = "Expired"
	EventCancelled       EventKind = "Cancelled"
)

// Event is the tagged-variant order event. Only the fields relevant to
// Kind are populated; the rest are the zero value.
type Event struct {
	Kind      EventKind
	OrderId   core.OrderId
	Timestamp time.Time

	// Denied/Invalid/Rejected.
	Reason string

	// Accepted/Working.
	IdBroker  core.OrderIdBroker
	AccountId core.AccountId

	// Modified.
	ModifiedQuantity core.Quantity
	HasModifiedQty   bool
	ModifiedPrice    core.Price
	HasModifiedPrice bool

	// PartiallyFilled/Filled.
	PositionIdBroker core.PositionIdBroker
	HasPositionIdBroker bool
	ExecutionId      core.ExecutionId
	FillQuantity     core.Quantity // this fill's quantity, not cumulative
	FillPrice        core.Price
	ExecutionTime    time.Time
}
