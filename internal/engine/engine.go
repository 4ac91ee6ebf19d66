// Package engine implements the ExecutionEngine: the command router and
// event dispatcher sitting between strategies and a venue adapter, the
// single point enforcing order FSM transitions and emitting derived
// position events, per spec.md §4.5.
package engine

import (
	"log"
	"os"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/core/errs"
	"github.com/eddiefleurent/strangengine/internal/execdb"
	"github.com/eddiefleurent/strangengine/internal/order"
	"github.com/eddiefleurent/strangengine/internal/position"
)

// Engine routes commands from strategies to a bound venue adapter and
// dispatches venue events back to strategies, enforcing the order FSM and
// folding fills into positions along the way.
type Engine struct {
	db           execdb.Database
	venue        Venue
	logger       *log.Logger
	accountId    core.AccountId
	baseCurrency core.Currency

	strategies map[core.StrategyId]Strategy

	commandCount int
	eventCount   int
}

// New constructs an Engine bound to db and accountId. logger defaults to
// stderr when nil, matching the teacher's constructor-guard convention.
func New(db execdb.Database, accountId core.AccountId, logger *log.Logger) *Engine {
	if db == nil {
		panic("engine.New: db must not be nil")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "engine: ", log.LstdFlags)
	}
	return &Engine{
		db: db, accountId: accountId, logger: logger,
		strategies: make(map[core.StrategyId]Strategy),
	}
}

// RegisterVenue binds the single venue adapter commands are forwarded to.
func (e *Engine) RegisterVenue(v Venue) {
	e.venue = v
}

// RegisterStrategy adds s, failing with DuplicateKey if its id is already
// registered.
func (e *Engine) RegisterStrategy(s Strategy) error {
	if _, exists := e.strategies[s.StrategyId()]; exists {
		return errs.DuplicateKey("strategy", string(s.StrategyId()))
	}
	e.strategies[s.StrategyId()] = s
	return nil
}

// DeregisterStrategy removes a previously registered strategy, failing
// with NotFound if it was never registered.
func (e *Engine) DeregisterStrategy(id core.StrategyId) error {
	if _, exists := e.strategies[id]; !exists {
		return errs.NotFound("strategy", string(id))
	}
	delete(e.strategies, id)
	return nil
}

// Reset clears the engine's counters and forgets the base currency learned
// from the first account-state event; registered venue and strategies are
// left in place, per spec.md §4.8 step 1 ("reset engine, database,
// matching engine, and each strategy" — registration is a one-time setup
// step, not part of what a run resets).
func (e *Engine) Reset() {
	e.commandCount = 0
	e.eventCount = 0
	e.baseCurrency = ""
}

// CommandCount returns the number of commands executed so far.
func (e *Engine) CommandCount() int { return e.commandCount }

// EventCount returns the number of events dispatched so far.
func (e *Engine) EventCount() int { return e.eventCount }

// ExecuteCommand dispatches cmd by its Kind, per spec.md §4.5.
func (e *Engine) ExecuteCommand(cmd Command) error {
	e.commandCount++
	if e.venue == nil {
		return errs.InvalidArgument("no venue registered")
	}

	switch cmd.Kind {
	case CmdAccountInquiry:
		return e.venue.AccountInquiry(cmd.AccountId)

	case CmdSubmitOrder:
		// db.add_order before forwarding to venue, so reply events never
		// find a missing order.
		if err := e.db.AddOrder(cmd.Order, cmd.StrategyId, cmd.PositionId); err != nil {
			return err
		}
		return e.venue.SubmitOrder(cmd.Order)

	case CmdSubmitBracketOrder:
		for _, o := range cmd.Bracket.Orders() {
			if err := e.db.AddOrder(o, cmd.StrategyId, cmd.PositionId); err != nil {
				return err
			}
		}
		return e.venue.SubmitBracket(cmd.Bracket)

	case CmdModifyOrder:
		var qty *core.Quantity
		if cmd.HasModifiedQty {
			qty = &cmd.ModifiedQuantity
		}
		var price *core.Price
		if cmd.HasModifiedPrice {
			price = &cmd.ModifiedPrice
		}
		return e.venue.ModifyOrder(cmd.OrderId, qty, price)

	case CmdCancelOrder:
		return e.venue.CancelOrder(cmd.OrderId)

	default:
		return errs.InvalidArgument("unknown command kind %q", cmd.Kind)
	}
}

// HandleEvent dispatches evt by its Kind, per spec.md §4.5. Any failure to
// resolve identifiers or mandatory routing data is logged and the event is
// dropped; HandleEvent never panics on a malformed event.
func (e *Engine) HandleEvent(evt Event) {
	e.eventCount++

	switch evt.Kind {
	case EventOrderCancelReject:
		strategyId, ok := e.db.GetStrategyIdForOrder(evt.OrderId)
		if !ok {
			e.logger.Printf("WARN: cancel-reject for unknown order %s dropped", evt.OrderId)
			return
		}
		e.deliver(strategyId, evt)

	case EventOrder:
		e.handleOrderEvent(evt)

	case EventAccountState:
		e.handleAccountState(evt.Account)

	case EventPositionOpened, EventPositionClosed, EventPositionModified:
		strategyId, ok := e.db.GetStrategyIdForPosition(evt.PositionId)
		if !ok {
			e.logger.Printf("WARN: %s for unknown position %s dropped", evt.Kind, evt.PositionId)
			return
		}
		e.deliver(strategyId, evt)

	default:
		e.logger.Printf("ERROR: unknown event kind %q dropped", evt.Kind)
	}
}

func (e *Engine) deliver(strategyId core.StrategyId, evt Event) {
	s, ok := e.strategies[strategyId]
	if !ok {
		e.logger.Printf("WARN: no strategy %s registered, dropping event %s", strategyId, evt.Kind)
		return
	}
	s.HandleEvent(evt)
}

// handleOrderEvent applies evt.OrderEvent to the named order, persists it,
// delivers the event to the owning strategy, and — for fill events —
// routes into the fill→position flow (§4.5.1).
func (e *Engine) handleOrderEvent(evt Event) {
	o, ok := e.db.GetOrder(evt.OrderEvent.OrderId)
	if !ok {
		e.logger.Printf("ERROR: event for unknown order %s dropped", evt.OrderEvent.OrderId)
		return
	}

	if err := o.Apply(evt.OrderEvent); err != nil {
		// InvalidStateTrigger is caught here, logged, and never propagated.
		e.logger.Printf("ERROR: %v", err)
		return
	}

	if err := e.db.UpdateOrder(o); err != nil {
		e.logger.Printf("ERROR: update_order failed for %s: %v", o.ID, err)
		return
	}

	if strategyId, ok := e.db.GetStrategyIdForOrder(o.ID); ok {
		e.deliver(strategyId, evt)
	}

	switch evt.OrderEvent.Kind {
	case order.EventFilled, order.EventPartiallyFilled:
		e.handleFill(o, evt.OrderEvent)
	}
}

// handleFill implements §4.5.1: resolve the position, create it on first
// fill or fold the fill into the existing one, and feed the derived
// position event back through HandleEvent.
func (e *Engine) handleFill(o *order.Order, fillEvt order.Event) {
	positionId, ok := e.db.GetPositionIdForOrder(o.ID)
	if !ok && fillEvt.HasPositionIdBroker {
		positionId, ok = e.db.GetPositionIdForBrokerPositionId(fillEvt.PositionIdBroker)
	}
	if !ok {
		e.logger.Printf("ERROR: cannot resolve position_id for fill on order %s", o.ID)
		return
	}

	strategyId, ok := e.db.GetStrategyIdForOrder(o.ID)
	if !ok {
		e.logger.Printf("ERROR: cannot resolve strategy_id for order %s", o.ID)
		return
	}

	fill := position.FillInput{
		OrderId:         o.ID,
		Side:            o.Side,
		FillQuantity:    fillEvt.FillQuantity,
		FillPrice:       fillEvt.FillPrice,
		Timestamp:       fillEvt.ExecutionTime,
		AccountCurrency: e.baseCurrency,
		QuoteCurrency:   e.baseCurrency,
	}

	pos, exists := e.db.GetPosition(positionId)
	if !exists {
		pos = position.Open(positionId, strategyId, o.Symbol, fill)
		if err := e.db.AddPosition(pos, strategyId); err != nil {
			e.logger.Printf("ERROR: add_position failed for %s: %v", positionId, err)
			return
		}
		e.HandleEvent(Event{Kind: EventPositionOpened, PositionId: positionId})
		return
	}

	closed := pos.ApplyFill(fill)
	if err := e.db.UpdatePosition(pos); err != nil {
		e.logger.Printf("ERROR: update_position failed for %s: %v", positionId, err)
		return
	}
	if closed {
		e.HandleEvent(Event{Kind: EventPositionClosed, PositionId: positionId})
	} else {
		e.HandleEvent(Event{Kind: EventPositionModified, PositionId: positionId})
	}
}

// handleAccountState applies an AccountStateEvent per spec.md §4.5: create
// and persist on first sight of the engine's own account id, apply to an
// existing account, or warn and drop anything else.
func (e *Engine) handleAccountState(acctEvt AccountState) {
	existing, ok := e.db.GetAccount(acctEvt.AccountId)
	if !ok {
		if acctEvt.AccountId != e.accountId {
			e.logger.Printf("WARN: account state for unrecognized account %s dropped", acctEvt.AccountId)
			return
		}
		acct := execdb.NewAccount(acctEvt.AccountId, acctEvt.Currency)
		acct.Apply(acctEvt.Update)
		if err := e.db.AddAccount(acct); err != nil {
			e.logger.Printf("ERROR: add_account failed for %s: %v", acctEvt.AccountId, err)
			return
		}
		e.baseCurrency = acctEvt.Currency
		return
	}

	existing.Apply(acctEvt.Update)
	if err := e.db.UpdateAccount(existing); err != nil {
		e.logger.Printf("ERROR: update_account failed for %s: %v", acctEvt.AccountId, err)
	}
}
