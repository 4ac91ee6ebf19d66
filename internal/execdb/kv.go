package execdb

import (
	"fmt"
	"sync"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/core/errs"
	"github.com/eddiefleurent/strangengine/internal/order"
	"github.com/eddiefleurent/strangengine/internal/position"
	"github.com/eddiefleurent/strangengine/internal/serialize"
)

// KVStore is the pluggable key-value store spec.md §1/§4.4 treats as an
// external collaborator ("a pluggable key-value store suffices" — no
// durable log-structured store is required). No concrete KV client
// appears anywhere in the retrieved example pack, so this module only
// defines the minimal interface a real client (redis, bbolt, a managed
// KV service) would implement.
type KVStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// MemoryKVStore is an in-process KVStore, useful for tests and for
// exercising KVDatabase without a real external store wired in.
type MemoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKVStore constructs an empty MemoryKVStore.
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: make(map[string][]byte)}
}

// Get returns the stored value for key, if present.
func (s *MemoryKVStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Put stores value under key.
func (s *MemoryKVStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes key, if present.
func (s *MemoryKVStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// KVDatabase persists orders/positions/accounts/strategy state to a
// pluggable KVStore under a namespace stable per trader, using the
// message-envelope codec to encode values, per spec.md §4.4. Cross-
// reference indexes are kept in-memory (as MemoryDatabase does) so
// within-trader reads are immediately consistent after a write, matching
// the spec's "reads from the external store are allowed to be eventual
// only for cross-trader queries" rule — this module serves exactly one
// trader per KVDatabase instance.
type KVDatabase struct {
	mu sync.RWMutex

	store    KVStore
	codec    serialize.Codec
	traderId core.TraderId

	ix         indexes
	accountIds map[core.AccountId]struct{}
}

// NewKVDatabase constructs a KVDatabase scoped to traderId, persisting
// through store.
func NewKVDatabase(traderId core.TraderId, store KVStore, codec serialize.Codec) *KVDatabase {
	return &KVDatabase{
		store: store, codec: codec, traderId: traderId,
		ix:         newIndexes(),
		accountIds: make(map[core.AccountId]struct{}),
	}
}

func (db *KVDatabase) key(kind, id string) string {
	return fmt.Sprintf("trader:%s:%s:%s", db.traderId, kind, id)
}

func (db *KVDatabase) putOrder(o *order.Order) error {
	f, err := db.codec.Encode("Order", string(o.ID), o)
	if err != nil {
		return err
	}
	return db.store.Put(db.key("order", string(o.ID)), f.Body)
}

func (db *KVDatabase) getOrder(id core.OrderId) (*order.Order, bool, error) {
	raw, ok, err := db.store.Get(db.key("order", string(id)))
	if err != nil || !ok {
		return nil, ok, err
	}
	var o order.Order
	if err := db.codec.Decode(serialize.Frame{Body: raw}, &o); err != nil {
		return nil, false, err
	}
	return &o, true, nil
}

func (db *KVDatabase) putPosition(p *position.Position) error {
	f, err := db.codec.Encode("Position", string(p.ID), p)
	if err != nil {
		return err
	}
	return db.store.Put(db.key("position", string(p.ID)), f.Body)
}

func (db *KVDatabase) getPosition(id core.PositionId) (*position.Position, bool, error) {
	raw, ok, err := db.store.Get(db.key("position", string(id)))
	if err != nil || !ok {
		return nil, ok, err
	}
	var p position.Position
	if err := db.codec.Decode(serialize.Frame{Body: raw}, &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (db *KVDatabase) putAccount(a *Account) error {
	f, err := db.codec.Encode("Account", string(a.ID), a)
	if err != nil {
		return err
	}
	return db.store.Put(db.key("account", string(a.ID)), f.Body)
}

func (db *KVDatabase) getAccount(id core.AccountId) (*Account, bool, error) {
	raw, ok, err := db.store.Get(db.key("account", string(id)))
	if err != nil || !ok {
		return nil, ok, err
	}
	var a Account
	if err := db.codec.Decode(serialize.Frame{Body: raw}, &a); err != nil {
		return nil, false, err
	}
	return &a, true, nil
}

// AddAccount inserts acct, failing with DuplicateKey if already present.
func (db *KVDatabase) AddAccount(acct *Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.accountIds[acct.ID]; exists {
		return errs.DuplicateKey("account", string(acct.ID))
	}
	if err := db.putAccount(acct); err != nil {
		return err
	}
	db.accountIds[acct.ID] = struct{}{}
	return nil
}

// AddOrder inserts o and atomically wires every dependent index.
func (db *KVDatabase) AddOrder(o *order.Order, strategyId core.StrategyId, positionId core.PositionId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.ix.allOrders[o.ID]; exists {
		return errs.DuplicateKey("order", string(o.ID))
	}
	if err := db.putOrder(o); err != nil {
		return err
	}
	db.ix.indexOrder(o.ID, strategyId, positionId)
	db.ix.moveOrderWorkingState(o.ID, o.State.IsWorking())
	return nil
}

// AddPosition inserts p, failing with DuplicateKey if already present.
func (db *KVDatabase) AddPosition(p *position.Position, strategyId core.StrategyId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.ix.allPositions[p.ID]; exists {
		return errs.DuplicateKey("position", string(p.ID))
	}
	if err := db.putPosition(p); err != nil {
		return err
	}
	db.ix.indexPosition(p.ID, strategyId)
	db.ix.movePositionOpenState(p.ID, p.IsOpen())
	return nil
}

// UpdateOrder persists o and moves it between the working/completed sets.
func (db *KVDatabase) UpdateOrder(o *order.Order) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.ix.allOrders[o.ID]; !exists {
		return errs.NotFound("order", string(o.ID))
	}
	if err := db.putOrder(o); err != nil {
		return err
	}
	db.ix.moveOrderWorkingState(o.ID, o.State.IsWorking())
	return nil
}

// UpdatePosition persists p and moves it between the open/closed sets.
func (db *KVDatabase) UpdatePosition(p *position.Position) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.ix.allPositions[p.ID]; !exists {
		return errs.NotFound("position", string(p.ID))
	}
	if err := db.putPosition(p); err != nil {
		return err
	}
	db.ix.movePositionOpenState(p.ID, p.IsOpen())
	return nil
}

// UpdateAccount persists acct, failing with NotFound if absent.
func (db *KVDatabase) UpdateAccount(acct *Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.accountIds[acct.ID]; !exists {
		return errs.NotFound("account", string(acct.ID))
	}
	return db.putAccount(acct)
}

// UpdateStrategyState records an opaque state string for strategyId.
func (db *KVDatabase) UpdateStrategyState(strategyId core.StrategyId, state string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ix.strategyState[strategyId] = state
	return db.store.Put(db.key("strategy_state", string(strategyId)), []byte(state))
}

// DeleteStrategy removes strategyId's state and membership indexes.
func (db *KVDatabase) DeleteStrategy(strategyId core.StrategyId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ix.deleteStrategy(strategyId)
	return db.store.Delete(db.key("strategy_state", string(strategyId)))
}

// LinkBrokerPositionId records the broker_position_id->position_id index.
func (db *KVDatabase) LinkBrokerPositionId(brokerId core.PositionIdBroker, positionId core.PositionId) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.ix.allPositions[positionId]; !exists {
		return errs.NotFound("position", string(positionId))
	}
	db.ix.linkBrokerPositionId(brokerId, positionId)
	return nil
}

// GetAccount returns the account for id, if present.
func (db *KVDatabase) GetAccount(id core.AccountId) (*Account, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	a, ok, _ := db.getAccount(id)
	return a, ok
}

// GetOrder returns the order for id, if present.
func (db *KVDatabase) GetOrder(id core.OrderId) (*order.Order, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	o, ok, _ := db.getOrder(id)
	return o, ok
}

// GetPosition returns the position for id, if present.
func (db *KVDatabase) GetPosition(id core.PositionId) (*position.Position, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok, _ := db.getPosition(id)
	return p, ok
}

// GetPositionIdForOrder resolves an order's position via the order->position index.
func (db *KVDatabase) GetPositionIdForOrder(id core.OrderId) (core.PositionId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.ix.orderToPosition[id]
	return p, ok
}

// GetPositionIdForBrokerPositionId resolves via broker_position_id->position_id.
func (db *KVDatabase) GetPositionIdForBrokerPositionId(id core.PositionIdBroker) (core.PositionId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.ix.brokerPositionToPosition[id]
	return p, ok
}

// GetStrategyIdForOrder resolves via order->strategy.
func (db *KVDatabase) GetStrategyIdForOrder(id core.OrderId) (core.StrategyId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.ix.orderToStrategy[id]
	return s, ok
}

// GetStrategyIdForPosition resolves via position->strategy.
func (db *KVDatabase) GetStrategyIdForPosition(id core.PositionId) (core.StrategyId, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.ix.positionToStrategy[id]
	return s, ok
}

// GetOrderIdsForPosition returns the order ids folded into a position.
func (db *KVDatabase) GetOrderIdsForPosition(id core.PositionId) []core.OrderId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return orderIdSetToSlice(db.ix.positionToOrders[id])
}

// GetOrderIdsForStrategy returns every order id a strategy has submitted.
func (db *KVDatabase) GetOrderIdsForStrategy(id core.StrategyId) []core.OrderId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return orderIdSetToSlice(db.ix.strategyToOrders[id])
}

// GetPositionIdsForStrategy returns every position id a strategy owns.
func (db *KVDatabase) GetPositionIdsForStrategy(id core.StrategyId) []core.PositionId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return positionIdSetToSlice(db.ix.strategyToPositions[id])
}

// StrategyState returns the last state string recorded for a strategy.
func (db *KVDatabase) StrategyState(id core.StrategyId) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.ix.strategyState[id]
	return s, ok
}

// OrderCount returns the total number of indexed orders.
func (db *KVDatabase) OrderCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.allOrders)
}

// WorkingOrderCount returns the number of orders in the working set.
func (db *KVDatabase) WorkingOrderCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.workingOrders)
}

// CompletedOrderCount returns the number of orders in the completed set.
func (db *KVDatabase) CompletedOrderCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.completedOrders)
}

// PositionCount returns the total number of indexed positions.
func (db *KVDatabase) PositionCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.allPositions)
}

// OpenPositionCount returns the number of positions in the open set.
func (db *KVDatabase) OpenPositionCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.openPositions)
}

// ClosedPositionCount returns the number of positions in the closed set.
func (db *KVDatabase) ClosedPositionCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.ix.closedPositions)
}

// OrderExists reports whether id is indexed.
func (db *KVDatabase) OrderExists(id core.OrderId) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.ix.allOrders[id]
	return ok
}

// PositionExists reports whether id is indexed.
func (db *KVDatabase) PositionExists(id core.PositionId) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.ix.allPositions[id]
	return ok
}

// AllWorkingOrderIds returns every order id currently in the working set.
func (db *KVDatabase) AllWorkingOrderIds() []core.OrderId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return orderIdSetToSlice(db.ix.workingOrders)
}

// AllOpenPositionIds returns every position id currently in the open set.
func (db *KVDatabase) AllOpenPositionIds() []core.PositionId {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return positionIdSetToSlice(db.ix.openPositions)
}

// CheckResiduals reports still-working orders and still-open positions.
func (db *KVDatabase) CheckResiduals() ResidualReport {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return ResidualReport{
		WorkingOrderIds: orderIdSetToSlice(db.ix.workingOrders),
		OpenPositionIds: positionIdSetToSlice(db.ix.openPositions),
	}
}

// Reset implements Database. It clears the in-memory indexes and the
// account-id set; the underlying KVStore is not told to forget the
// records it already persisted (KVStore exposes no enumerate/clear
// operation), so a KVDatabase should not be reused across driver runs
// against the same store unless the store itself is also replaced.
func (db *KVDatabase) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ix = newIndexes()
	db.accountIds = make(map[core.AccountId]struct{})
}

var _ Database = (*KVDatabase)(nil)
