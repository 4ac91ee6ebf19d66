// Package execdb implements the indexed execution database that caches
// and cross-references accounts, orders, and positions, per spec.md §4.4.
// Two back-ends share the Database interface and identical pre/post-
// conditions: MemoryDatabase keeps everything in process-resident maps
// (grounded on the teacher's mutex-guarded JSONStorage), and KVDatabase
// persists the same records through a pluggable KVStore while keeping the
// same in-memory index set for O(1) lookups within one trader.
package execdb

import (
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/order"
	"github.com/eddiefleurent/strangengine/internal/position"
)

// Database is the execution database contract spec.md §4.4 describes.
type Database interface {
	// Writes.
	AddAccount(acct *execAccount) error
	AddOrder(o *order.Order, strategyId core.StrategyId, positionId core.PositionId) error
	AddPosition(p *position.Position, strategyId core.StrategyId) error
	UpdateOrder(o *order.Order) error
	UpdatePosition(p *position.Position) error
	UpdateAccount(acct *execAccount) error
	UpdateStrategyState(strategyId core.StrategyId, state string) error
	DeleteStrategy(strategyId core.StrategyId) error
	LinkBrokerPositionId(brokerId core.PositionIdBroker, positionId core.PositionId) error

	// Reads.
	GetAccount(id core.AccountId) (*execAccount, bool)
	GetOrder(id core.OrderId) (*order.Order, bool)
	GetPosition(id core.PositionId) (*position.Position, bool)
	GetPositionIdForOrder(id core.OrderId) (core.PositionId, bool)
	GetPositionIdForBrokerPositionId(id core.PositionIdBroker) (core.PositionId, bool)
	GetStrategyIdForOrder(id core.OrderId) (core.StrategyId, bool)
	GetStrategyIdForPosition(id core.PositionId) (core.StrategyId, bool)
	GetOrderIdsForPosition(id core.PositionId) []core.OrderId
	GetOrderIdsForStrategy(id core.StrategyId) []core.OrderId
	GetPositionIdsForStrategy(id core.StrategyId) []core.PositionId
	StrategyState(id core.StrategyId) (string, bool)

	OrderCount() int
	WorkingOrderCount() int
	CompletedOrderCount() int
	PositionCount() int
	OpenPositionCount() int
	ClosedPositionCount() int

	OrderExists(id core.OrderId) bool
	PositionExists(id core.PositionId) bool

	AllWorkingOrderIds() []core.OrderId
	AllOpenPositionIds() []core.PositionId

	// CheckResiduals reports any still-working orders and still-open
	// positions, as a warning; it never returns an error.
	CheckResiduals() ResidualReport

	// Reset clears every account, order, position and index, returning the
	// database to its just-constructed state. Used by BacktestDriver.Run's
	// step 1 to make repeated runs of the same driver independent.
	Reset()
}

// execAccount is a type alias so Database's signature does not force every
// caller to import this package's Account type under a different name
// than the exported Account — kept as an alias, not a second type, to
// avoid divergence.
type execAccount = Account

// ResidualReport is the teardown diagnostic spec.md §4.4/§7 describes.
type ResidualReport struct {
	WorkingOrderIds  []core.OrderId
	OpenPositionIds  []core.PositionId
}

// IsClean reports whether no residuals were found.
func (r ResidualReport) IsClean() bool {
	return len(r.WorkingOrderIds) == 0 && len(r.OpenPositionIds) == 0
}
