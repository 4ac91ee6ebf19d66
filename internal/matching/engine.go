package matching

import (
	"log"
	"os"
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/core/errs"
	"github.com/eddiefleurent/strangengine/internal/engine"
	"github.com/eddiefleurent/strangengine/internal/execdb"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// book holds one symbol's matching state: the latest top-of-book snapshot
// and the FIFO queue of working passive orders, per spec.md §4.6.
type book struct {
	bid, ask core.Price
	working  []*order.Order
}

// Engine is the simulated venue adapter: it implements engine.Venue so the
// execution engine routes commands to it exactly as it would a live
// adapter, and it turns QuoteTicks into order events fed back through the
// dispatch callback (ordinarily engine.Engine.HandleEvent).
type Engine struct {
	books map[core.Symbol]*book

	fillModel        FillModel
	commissionRateBp core.Decimal64
	accountId        core.AccountId
	accountCurrency  core.Currency
	frozenAccount    bool

	startingCapital   core.Money
	balance           core.Money
	commissionAccrued core.Money
	rolloverAccrued   core.Money

	pendingNew []*order.Order

	dispatch func(engine.Event)
	logger   *log.Logger
}

// New constructs a simulated matching Engine. dispatch is called with
// every order/account event this engine emits — ordinarily the bound
// execution engine's HandleEvent method, passed as a method value.
func New(fillModel FillModel, commissionRateBp core.Decimal64, accountId core.AccountId,
	accountCurrency core.Currency, startingCapital core.Money, dispatch func(engine.Event), logger *log.Logger) *Engine {
	if fillModel == nil {
		panic("matching.New: fillModel must not be nil")
	}
	if dispatch == nil {
		panic("matching.New: dispatch must not be nil")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "matching: ", log.LstdFlags)
	}
	return &Engine{
		books:             make(map[core.Symbol]*book),
		fillModel:         fillModel,
		commissionRateBp:  commissionRateBp,
		accountId:         accountId,
		accountCurrency:   accountCurrency,
		startingCapital:   startingCapital,
		balance:           startingCapital,
		commissionAccrued: core.ZeroMoney(accountCurrency),
		rolloverAccrued:   core.ZeroMoney(accountCurrency),
		dispatch:          dispatch,
		logger:            logger,
	}
}

// Reset clears every book and pending order and restores the starting
// cash balance, per spec.md §4.8 step 1's "reset ... matching engine".
func (e *Engine) Reset() {
	e.books = make(map[core.Symbol]*book)
	e.pendingNew = nil
	e.frozenAccount = false
	e.balance = e.startingCapital
	e.commissionAccrued = core.ZeroMoney(e.accountCurrency)
	e.rolloverAccrued = core.ZeroMoney(e.accountCurrency)
}

// SetFrozen toggles frozen_account: while frozen, fills still report but
// commission/rollover no longer adjust the cash balance, per spec.md §4.6.
func (e *Engine) SetFrozen(frozen bool) { e.frozenAccount = frozen }

func (e *Engine) bookFor(symbol core.Symbol) *book {
	b, ok := e.books[symbol]
	if !ok {
		b = &book{}
		e.books[symbol] = b
	}
	return b
}

func (e *Engine) emitOrder(evt order.Event) {
	e.dispatch(engine.Event{Kind: engine.EventOrder, OrderEvent: evt})
}

// SubmitOrder implements engine.Venue: the order is queued for the
// Submitted/Accepted/Working sequence on the next tick for its symbol,
// per spec.md §4.6 step 3.
func (e *Engine) SubmitOrder(o *order.Order) error {
	e.pendingNew = append(e.pendingNew, o)
	return nil
}

// SubmitBracket implements engine.Venue: every constituent order is queued
// the same way as a plain SubmitOrder.
func (e *Engine) SubmitBracket(b *order.Bracket) error {
	for _, o := range b.Orders() {
		if err := e.SubmitOrder(o); err != nil {
			return err
		}
	}
	return nil
}

// ModifyOrder implements engine.Venue: a working order's quantity/price is
// changed in place via a Modified event; the order remains WORKING.
func (e *Engine) ModifyOrder(id core.OrderId, qty *core.Quantity, price *core.Price) error {
	o := e.findWorking(id)
	if o == nil {
		return errs.NotFound("order", string(id))
	}
	evt := order.Event{Kind: order.EventModified, OrderId: id, Timestamp: time.Now().UTC()}
	if qty != nil {
		evt.ModifiedQuantity = *qty
		evt.HasModifiedQty = true
	}
	if price != nil {
		evt.ModifiedPrice = *price
		evt.HasModifiedPrice = true
	}
	e.emitOrder(evt)
	return nil
}

// CancelOrder implements engine.Venue: removes the order from its book's
// working queue and emits Cancelled.
func (e *Engine) CancelOrder(id core.OrderId) error {
	e.removeWorking(id)
	e.emitOrder(order.Event{Kind: order.EventCancelled, OrderId: id, Timestamp: time.Now().UTC()})
	return nil
}

// AccountInquiry implements engine.Venue by replying with the current
// simulated cash balance as an AccountStateEvent.
func (e *Engine) AccountInquiry(accountId core.AccountId) error {
	e.dispatch(engine.Event{
		Kind: engine.EventAccountState,
		Account: engine.AccountState{
			AccountId: accountId, Currency: e.accountCurrency,
			Update: execdb.AccountEvent{Balance: e.balance},
		},
	})
	return nil
}

func (e *Engine) findWorking(id core.OrderId) *order.Order {
	for _, b := range e.books {
		for _, o := range b.working {
			if o.ID == id {
				return o
			}
		}
	}
	return nil
}

func (e *Engine) removeWorking(id core.OrderId) {
	for _, b := range e.books {
		for i, o := range b.working {
			if o.ID == id {
				b.working = append(b.working[:i], b.working[i+1:]...)
				return
			}
		}
	}
}

// triggers reports whether o's trigger condition is satisfied against b's
// current snapshot, per spec.md §4.6 step 2.
func triggers(o *order.Order, b *book) bool {
	switch o.Type {
	case order.Market:
		return true
	case order.Limit:
		if o.Side == order.Buy {
			return b.ask.Cmp(o.Price.Decimal64) <= 0
		}
		return b.bid.Cmp(o.Price.Decimal64) >= 0
	case order.Stop:
		if o.Side == order.Buy {
			return b.ask.Cmp(o.Price.Decimal64) >= 0
		}
		return b.bid.Cmp(o.Price.Decimal64) <= 0
	default:
		return false
	}
}

// triggerPrice returns the reference price a fill executes against before
// the fill model's price perturbation: the order's own resting price for
// LIMIT/STOP, or the aggressing side of the book for MARKET.
func triggerPrice(o *order.Order, b *book) core.Price {
	if o.Type == order.Market {
		if o.Side == order.Buy {
			return b.ask
		}
		return b.bid
	}
	return o.Price
}

// ProcessTick implements spec.md §4.6's per-tick algorithm: update the
// book, expire/trigger/fill existing working orders, then run the
// Submitted/Accepted/Working sequence for any orders newly queued via
// SubmitOrder/SubmitBracket.
func (e *Engine) ProcessTick(tick QuoteTick) {
	b := e.bookFor(tick.Symbol)
	b.bid, b.ask = tick.Bid, tick.Ask

	remaining := b.working[:0:0]
	for _, o := range b.working {
		if o.HasExpire && !tick.Timestamp.Before(o.ExpireTime) {
			e.emitOrder(order.Event{Kind: order.EventExpired, OrderId: o.ID, Timestamp: tick.Timestamp})
			continue
		}
		if triggers(o, b) {
			e.fill(o, b, tick.Timestamp)
			if !o.State.IsCompleted() {
				remaining = append(remaining, o)
			}
			continue
		}
		remaining = append(remaining, o)
	}
	b.working = remaining

	stillPending := e.pendingNew[:0:0]
	for _, o := range e.pendingNew {
		if o.Symbol != tick.Symbol {
			stillPending = append(stillPending, o)
			continue
		}
		e.acceptAndRoute(o, b, tick.Timestamp)
	}
	e.pendingNew = stillPending
}

// acceptAndRoute runs the Submitted/Accepted sequence for a newly queued
// order, then either fills it immediately (trigger already satisfied) or
// parks it as WORKING, per spec.md §4.6 step 3.
func (e *Engine) acceptAndRoute(o *order.Order, b *book, now time.Time) {
	e.emitOrder(order.Event{Kind: order.EventSubmitted, OrderId: o.ID, Timestamp: now})
	e.emitOrder(order.Event{
		Kind: order.EventAccepted, OrderId: o.ID, Timestamp: now,
		IdBroker: core.OrderIdBroker(core.NewUUID()), AccountId: e.accountId,
	})

	if o.HasExpire && !now.Before(o.ExpireTime) {
		e.emitOrder(order.Event{Kind: order.EventExpired, OrderId: o.ID, Timestamp: now})
		return
	}

	if triggers(o, b) {
		e.fill(o, b, now)
		if !o.State.IsCompleted() {
			b.working = append(b.working, o)
		}
		return
	}

	e.emitOrder(order.Event{Kind: order.EventWorking, OrderId: o.ID, Timestamp: now})
	b.working = append(b.working, o)
}

// fill consults the FillModel and emits PartiallyFilled/Filled for o, per
// spec.md §4.6 step 2. A zero draw from FillQuantity means the model chose
// not to fill this tick despite the trigger condition holding.
func (e *Engine) fill(o *order.Order, b *book, now time.Time) {
	leaves := o.LeavesQuantity()
	price := e.fillModel.ExecutionPrice(triggerPrice(o, b), o.Side)
	qty := e.fillModel.FillQuantity(leaves)
	if qty.IsZero() {
		return
	}

	kind := order.EventFilled
	if qty.Cmp(leaves.Decimal64) < 0 {
		kind = order.EventPartiallyFilled
	}

	e.emitOrder(order.Event{
		Kind: kind, OrderId: o.ID, Timestamp: now, ExecutionTime: now,
		FillQuantity: qty, FillPrice: price,
		ExecutionId: core.ExecutionId(core.NewUUID()),
	})

	e.accrueCommission(qty, price)
}

// accrueCommission applies notional*commission_rate_bp/10000 to the
// simulated cash balance, per spec.md §4.6. Division isn't exposed on
// Decimal64, so the rate is applied via a float64 round-trip — an
// account-statement-level figure, not a ledger total the module treats as
// authoritative elsewhere.
func (e *Engine) accrueCommission(qty core.Quantity, price core.Price) {
	if e.frozenAccount {
		return
	}
	notional := qty.Decimal64.Mul(price.Decimal64)
	commissionFloat := notional.Float64() * e.commissionRateBp.Float64() / 10000.0
	commission := core.NewDecimal64FromFloat(commissionFloat, e.accountCurrency.Precision())
	fee, err := core.NewMoneyFromString(commission.String(), e.accountCurrency)
	if err != nil {
		e.logger.Printf("ERROR: commission calculation failed: %v", err)
		return
	}
	e.commissionAccrued, _ = e.commissionAccrued.Add(fee)
	e.balance, _ = e.balance.Sub(fee)
	e.publishBalance()
}

// ApplyRollover accrues nightly rollover interest on the current balance at
// rateBp (basis points), per spec.md §4.6. Intended to be invoked from a
// daily clock timer.
func (e *Engine) ApplyRollover(rateBp core.Decimal64) {
	if e.frozenAccount {
		return
	}
	interestFloat := e.balance.Amount().Float64() * rateBp.Float64() / 10000.0
	interest := core.NewDecimal64FromFloat(interestFloat, e.accountCurrency.Precision())
	money, err := core.NewMoneyFromString(interest.String(), e.accountCurrency)
	if err != nil {
		e.logger.Printf("ERROR: rollover calculation failed: %v", err)
		return
	}
	e.rolloverAccrued, _ = e.rolloverAccrued.Add(money)
	e.balance, _ = e.balance.Add(money)
	e.publishBalance()
}

func (e *Engine) publishBalance() {
	e.dispatch(engine.Event{
		Kind: engine.EventAccountState,
		Account: engine.AccountState{
			AccountId: e.accountId, Currency: e.accountCurrency,
			Update: execdb.AccountEvent{Balance: e.balance},
		},
	})
}

// Balance returns the simulated account's current cash balance.
func (e *Engine) Balance() core.Money { return e.balance }

var _ engine.Venue = (*Engine)(nil)
