package execdb

import (
	"sync"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/core/errs"
	"github.com/eddiefleurent/strangengine/internal/order"
	"github.com/eddiefleurent/strangengine/internal/position"
)

// MemoryDatabase keeps every account/order/position in process-resident
// maps guarded by a single RWMutex, grounded directly on the teacher's
// JSONStorage (internal/storage/storage.go): one mutex, plain Go maps, no
// external dependency.
type MemoryDatabase struct {
	mu sync.RWMutex

	accounts  map[core.AccountId]*Account
	ordersMap map[core.OrderId]*order.Order
	positions map[core.PositionId]*position.Position

	ix indexes
}

// NewMemoryDatabase constructs an empty in-memory execution database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		accounts:  make(map[core.AccountId]*Account),
		ordersMap: make(map[core.OrderId]*order.Order),
		positions: make(map[core.PositionId]*position.Position),
		ix:        newIndexes(),
	}
}

// AddAccount inserts acct, failing with DuplicateKey if already present.
func (db *MemoryDatabase) AddAccount(acct *Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.accounts[acct.ID]; exists {
		return errs.DuplicateKey("account", string(acct.ID))
	}
	db.accounts[acct.ID] = acct
	return nil
}

// AddOrder inserts o and atomically wires every dependent index, per
// spec.md §4.4 and §4.5 ("db.add_order before forwarding to venue").
func (db *MemoryDatabase) AddOrder(o *order.Order, strategyId core.StrategyId, positionId core.PositionId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.ordersMap[o.ID]; exists {
		return errs.DuplicateKey("order", string(o.ID))
	}
	db.ordersMap[o.ID] = o
	db.ix.indexOrder(o.ID, strategyId, positionId)
	db.ix.moveOrderWorkingState(o.ID, o.State.IsWorking())
	return nil
}

// AddPosition inserts p, failing with DuplicateKey if already present.
func (db *MemoryDatabase) AddPosition(p *position.Position, strategyId core.StrategyId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.positions[p.ID]; exists {
		return errs.DuplicateKey("position", string(p.ID))
	}
	db.positions[p.ID] = p
	db.ix.indexPosition(p.ID, strategyId)
	db.ix.movePositionOpenState(p.ID, p.IsOpen())
	return nil
}

// UpdateOrder persists o and moves it between the working/completed
// index sets if its state crossed that boundary.
func (db *MemoryDatabase) UpdateOrder(o *order.Order) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.ordersMap[o.ID]; !exists {
		return errs.NotFound("order", string(o.ID))
	}
	db.ordersMap[o.ID] = o
	db.ix.moveOrderWorkingState(o.ID, o.State.IsWorking())
	return nil
}

// UpdatePosition persists p and moves it between the open/closed index
// sets if its quantity crossed zero.
func (db *MemoryDatabase) UpdatePosition(p *position.Position) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.positions[p.ID]; !exists {
		return errs.NotFound("position", string(p.ID))
	}
	db.positions[p.ID] = p
	db.ix.movePositionOpenState(p.ID, p.IsOpen())
	return nil
}

// UpdateAccount persists acct, failing with NotFound if absent.
func (db *MemoryDatabase) UpdateAccount(acct *Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.accounts[acct.ID]; !exists {
		return errs.NotFound("account", string(acct.ID))
	}
	db.accounts[acct.ID] = acct
	return nil
}

// UpdateStrategyState records an opaque state string for strategyId.
func (db *MemoryDatabase) UpdateStrategyState(strategyId core.StrategyId, state string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ix.strategyState[strategyId] = state
	return nil
}

// DeleteStrategy removes strategyId's state and membership indexes. The
// orders/positions it owned remain addressable by id; only the
// strategy-scoped lookup sets are cleared.
func (db *MemoryDatabase) DeleteStrategy(strategyId core.StrategyId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ix.deleteStrategy(strategyId)
	return nil
}

// LinkBrokerPositionId records the broker_position_id->position_id index
// once the venue has reported a broker-side position id for a fill.
func (db *MemoryDatabase) LinkBrokerPositionId(brokerId core.PositionIdBroker, positionId core.PositionId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.positions[positionId]; !exists {
		return errs.NotFound("position", string(positionId))
	}
	db.ix.linkBrokerPositionId(brokerId, positionId)
	return nil
}

// GetAccount returns the account for id, if present.
func (db *MemoryDatabase) GetAccount(id core.AccountId) (*Account, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	a, ok := db.accounts[id]
	return a, ok
}

// GetOrder returns the order for id, if present.
func (db *MemoryDatabase) GetOrder(id core.OrderId) (*order.Order, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	o, ok := db.ordersMap[id]
	return o, ok
}

// GetPosition returns the position for id, if present.
func (db *MemoryDatabase) GetPosition(id core.PositionId) (*position.Position, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.positions[id]
	return p, ok
}

// GetPositionIdForOrder resolves an order's position via the order->position index.
func (db *MemoryDatabase) GetPositionIdForOrder(id core.OrderId) (core.PositionId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.ix.orderToPosition[id]
	return p, ok
}

// GetPositionIdForBrokerPositionId resolves via broker_position_id->position_id.
func (db *MemoryDatabase) GetPositionIdForBrokerPositionId(id core.PositionIdBroker) (core.PositionId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.ix.brokerPositionToPosition[id]
	return p, ok
}

// GetStrategyIdForOrder resolves via order->strategy.
func (db *MemoryDatabase) GetStrategyIdForOrder(id core.OrderId) (core.StrategyId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.ix.orderToStrategy[id]
	return s, ok
}

// GetStrategyIdForPosition resolves via position->strategy.
func (db *MemoryDatabase) GetStrategyIdForPosition(id core.PositionId) (core.StrategyId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.ix.positionToStrategy[id]
	return s, ok
}

// GetOrderIdsForPosition returns the order ids folded into a position.
func (db *MemoryDatabase) GetOrderIdsForPosition(id core.PositionId) []core.OrderId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return orderIdSetToSlice(db.ix.positionToOrders[id])
}

// GetOrderIdsForStrategy returns every order id a strategy has submitted.
func (db *MemoryDatabase) GetOrderIdsForStrategy(id core.StrategyId) []core.OrderId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return orderIdSetToSlice(db.ix.strategyToOrders[id])
}

// GetPositionIdsForStrategy returns every position id a strategy owns.
func (db *MemoryDatabase) GetPositionIdsForStrategy(id core.StrategyId) []core.PositionId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return positionIdSetToSlice(db.ix.strategyToPositions[id])
}

// StrategyState returns the last state string recorded for a strategy.
func (db *MemoryDatabase) StrategyState(id core.StrategyId) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.ix.strategyState[id]
	return s, ok
}

// OrderCount returns the total number of indexed orders.
func (db *MemoryDatabase) OrderCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.allOrders)
}

// WorkingOrderCount returns the number of orders in the working set.
func (db *MemoryDatabase) WorkingOrderCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.workingOrders)
}

// CompletedOrderCount returns the number of orders in the completed set.
func (db *MemoryDatabase) CompletedOrderCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.completedOrders)
}

// PositionCount returns the total number of indexed positions.
func (db *MemoryDatabase) PositionCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.allPositions)
}

// OpenPositionCount returns the number of positions in the open set.
func (db *MemoryDatabase) OpenPositionCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.openPositions)
}

// ClosedPositionCount returns the number of positions in the closed set.
func (db *MemoryDatabase) ClosedPositionCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.closedPositions)
}

// OrderExists reports whether id is indexed.
func (db *MemoryDatabase) OrderExists(id core.OrderId) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.ix.allOrders[id]
	return ok
}

// PositionExists reports whether id is indexed.
func (db *MemoryDatabase) PositionExists(id core.PositionId) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.ix.allPositions[id]
	return ok
}

// AllWorkingOrderIds returns every order id currently in the working set.
func (db *MemoryDatabase) AllWorkingOrderIds() []core.OrderId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return orderIdSetToSlice(db.ix.workingOrders)
}

// AllOpenPositionIds returns every position id currently in the open set.
func (db *MemoryDatabase) AllOpenPositionIds() []core.PositionId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return positionIdSetToSlice(db.ix.openPositions)
}

// CheckResiduals reports still-working orders and still-open positions at
// teardown; it never fails, only reports.
func (db *MemoryDatabase) CheckResiduals() ResidualReport {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return ResidualReport{
		WorkingOrderIds: orderIdSetToSlice(db.ix.workingOrders),
		OpenPositionIds: positionIdSetToSlice(db.ix.openPositions),
	}
}

// Reset implements Database.
func (db *MemoryDatabase) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.accounts = make(map[core.AccountId]*Account)
	db.ordersMap = make(map[core.OrderId]*order.Order)
	db.positions = make(map[core.PositionId]*position.Position)
	db.ix = newIndexes()
}

var _ Database = (*MemoryDatabase)(nil)
