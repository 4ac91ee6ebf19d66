// Package order implements the order finite-state machine: immutable
// identifying attributes set at construction, a mutable state driven by
// applied OrderEvents, and the Market/Limit/Stop/Bracket variants spec.md
// §3 describes as one tagged-variant entity with shared core fields.
package order

import (
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// Side is the direction of an order.
type Side string

// Sides.
const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Type is the order's pricing mechanism.
type Type string

// Types.
const (
	Market Type = "MARKET"
	Limit  Type = "LIMIT"
	Stop   Type = "STOP"
)

// TimeInForce controls when an order is eligible to work and when it must
// be cancelled.
type TimeInForce string

// Times in force.
const (
	DAY TimeInForce = "DAY"
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOC TimeInForce = "FOC"
	GTD TimeInForce = "GTD"
)

// State is a position in the order FSM (see fsm.go's transition table).
type State string

// States.
const (
	Initialized     State = "INITIALIZED"
	Invalid         State = "INVALID"
	Denied          State = "DENIED"
	Submitted       State = "SUBMITTED"
	Accepted        State = "ACCEPTED"
	Rejected        State = "REJECTED"
	Working         State = "WORKING"
	Cancelled       State = "CANCELLED"
	Expired         State = "EXPIRED"
	PartiallyFilled State = "PARTIALLY_FILLED"
	Filled          State = "FILLED"
)

// completedStates is the terminal set per spec.md §4.2.
var completedStates = map[State]bool{
	Invalid:   true,
	Denied:    true,
	Rejected:  true,
	Cancelled: true,
	Expired:   true,
	Filled:    true,
}

// IsCompleted reports whether s is a terminal state.
func (s State) IsCompleted() bool { return completedStates[s] }

// IsWorking reports whether s is the WORKING state.
func (s State) IsWorking() bool { return s == Working }

// Order is the shared core plus the mutable FSM-driven fields. PassiveOrder
// fields (Price, ExpireTime) are populated only for LIMIT/STOP orders; the
// zero value of Price/ExpireTime marks "not applicable" for MARKET orders.
type Order struct {
	// Immutable, set at construction.
	ID           core.OrderId
	Symbol       core.Symbol
	Side         Side
	Type         Type
	Quantity     core.Quantity
	TimeInForce  TimeInForce
	InitId       string
	Timestamp    time.Time
	Price        core.Price // passive orders only
	HasPrice     bool
	ExpireTime   time.Time // present iff TimeInForce == GTD
	HasExpire    bool

	// Mutable.
	State              State
	IdBroker           core.OrderIdBroker
	HasIdBroker        bool
	AccountId          core.AccountId
	HasAccountId       bool
	PositionIdBroker   core.PositionIdBroker
	HasPositionIdBroker bool
	ExecutionId        core.ExecutionId
	HasExecutionId     bool
	FilledQuantity     core.Quantity
	FilledTimestamp    time.Time
	HasFilledTimestamp bool
	AveragePrice       core.Price
	HasAveragePrice    bool
	Slippage           core.Decimal64
	HasSlippage        bool
	Events             []Event
}

// NewMarket constructs a MARKET order's immutable core. MARKET orders carry no
// price and TIF must be DAY, IOC or FOC per spec.md §3's invariants.
func NewMarket(id core.OrderId, symbol core.Symbol, side Side, qty core.Quantity, tif TimeInForce, initId string, ts time.Time) (*Order, error) {
	if qty.Sign() <= 0 {
		return nil, errs.InvalidArgument("order quantity must be > 0")
	}
	switch tif {
	case DAY, IOC, FOC:
	default:
		return nil, errs.InvalidArgument("MARKET order requires TIF in {DAY,IOC,FOC}, got %s", tif)
	}
	return &Order{
		ID: id, Symbol: symbol, Side: side, Type: Market, Quantity: qty,
		TimeInForce: tif, InitId: initId, Timestamp: ts, State: Initialized,
		FilledQuantity: core.ZeroQuantity(qty.Precision()),
	}, nil
}

// newPassive constructs the shared core for LIMIT/STOP orders: a resting
// price and, iff TIF is GTD, an expire_time.
func newPassive(id core.OrderId, symbol core.Symbol, side Side, typ Type, qty core.Quantity,
	price core.Price, tif TimeInForce, expireTime time.Time, hasExpire bool, initId string, ts time.Time) (*Order, error) {
	if qty.Sign() <= 0 {
		return nil, errs.InvalidArgument("order quantity must be > 0")
	}
	if tif == GTD && !hasExpire {
		return nil, errs.InvalidArgument("GTD order requires expire_time")
	}
	if tif != GTD && hasExpire {
		return nil, errs.InvalidArgument("only GTD orders may carry expire_time")
	}
	return &Order{
		ID: id, Symbol: symbol, Side: side, Type: typ, Quantity: qty,
		TimeInForce: tif, InitId: initId, Timestamp: ts, State: Initialized,
		Price: price, HasPrice: true, ExpireTime: expireTime, HasExpire: hasExpire,
		FilledQuantity: core.ZeroQuantity(qty.Precision()),
	}, nil
}

// NewLimit constructs a LIMIT order.
func NewLimit(id core.OrderId, symbol core.Symbol, side Side, qty core.Quantity, price core.Price,
	tif TimeInForce, expireTime time.Time, hasExpire bool, initId string, ts time.Time) (*Order, error) {
	return newPassive(id, symbol, side, Limit, qty, price, tif, expireTime, hasExpire, initId, ts)
}

// NewStop constructs a STOP order.
func NewStop(id core.OrderId, symbol core.Symbol, side Side, qty core.Quantity, stopPrice core.Price,
	tif TimeInForce, expireTime time.Time, hasExpire bool, initId string, ts time.Time) (*Order, error) {
	return newPassive(id, symbol, side, Stop, qty, stopPrice, tif, expireTime, hasExpire, initId, ts)
}

// LeavesQuantity returns Quantity - FilledQuantity.
func (o *Order) LeavesQuantity() core.Quantity {
	return o.Quantity.Sub(o.FilledQuantity)
}

// Bracket is the triple (entry, stop_loss, take_profit?) sharing one
// position_id, per spec.md §3's BracketOrder. Id is "B"+entry.ID.
type Bracket struct {
	ID         core.OrderId
	Entry      *Order
	StopLoss   *Order // must be a STOP order
	TakeProfit *Order // must be a LIMIT order; nil if none requested
}

// NewBracket validates the variant constraints (stop_loss is STOP,
// take_profit if present is LIMIT) and derives the bracket id.
func NewBracket(entry, stopLoss, takeProfit *Order) (*Bracket, error) {
	if entry == nil || stopLoss == nil {
		return nil, errs.InvalidArgument("bracket requires entry and stop_loss orders")
	}
	if stopLoss.Type != Stop {
		return nil, errs.InvalidArgument("bracket stop_loss must be a STOP order")
	}
	if takeProfit != nil && takeProfit.Type != Limit {
		return nil, errs.InvalidArgument("bracket take_profit must be a LIMIT order")
	}
	return &Bracket{
		ID:         core.OrderId("B" + string(entry.ID)),
		Entry:      entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	}, nil
}

// Orders returns the bracket's constituent orders in (entry, stop_loss,
// take_profit?) order.
func (b *Bracket) Orders() []*Order {
	out := []*Order{b.Entry, b.StopLoss}
	if b.TakeProfit != nil {
		out = append(out, b.TakeProfit)
	}
	return out
}
