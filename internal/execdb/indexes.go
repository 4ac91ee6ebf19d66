package execdb

import (
	"github.com/eddiefleurent/strangengine/internal/core"
)

// indexes holds every cross-reference spec.md §3 names. Both back-ends
// embed the same struct so the index-consistency rules live in one place
// instead of being duplicated per back-end.
type indexes struct {
	orderToPosition       map[core.OrderId]core.PositionId
	orderToStrategy       map[core.OrderId]core.StrategyId
	brokerPositionToPosition map[core.PositionIdBroker]core.PositionId
	positionToStrategy    map[core.PositionId]core.StrategyId
	positionToOrders      map[core.PositionId]map[core.OrderId]struct{}
	strategyToOrders      map[core.StrategyId]map[core.OrderId]struct{}
	strategyToPositions   map[core.StrategyId]map[core.PositionId]struct{}
	strategyState         map[core.StrategyId]string

	allOrders       map[core.OrderId]struct{}
	workingOrders   map[core.OrderId]struct{}
	completedOrders map[core.OrderId]struct{}

	allPositions    map[core.PositionId]struct{}
	openPositions   map[core.PositionId]struct{}
	closedPositions map[core.PositionId]struct{}
}

func newIndexes() indexes {
	return indexes{
		orderToPosition:          make(map[core.OrderId]core.PositionId),
		orderToStrategy:          make(map[core.OrderId]core.StrategyId),
		brokerPositionToPosition: make(map[core.PositionIdBroker]core.PositionId),
		positionToStrategy:       make(map[core.PositionId]core.StrategyId),
		positionToOrders:         make(map[core.PositionId]map[core.OrderId]struct{}),
		strategyToOrders:         make(map[core.StrategyId]map[core.OrderId]struct{}),
		strategyToPositions:      make(map[core.StrategyId]map[core.PositionId]struct{}),
		strategyState:            make(map[core.StrategyId]string),
		allOrders:                make(map[core.OrderId]struct{}),
		workingOrders:            make(map[core.OrderId]struct{}),
		completedOrders:          make(map[core.OrderId]struct{}),
		allPositions:             make(map[core.PositionId]struct{}),
		openPositions:            make(map[core.PositionId]struct{}),
		closedPositions:          make(map[core.PositionId]struct{}),
	}
}

// indexOrder atomically wires an order into every dependent index: the
// order<->position and order<->strategy maps, the position->orders and
// strategy->orders sets, and the strategy->positions set — spec.md §4.4's
// "partial failure of any index update is not allowed" (all map writes
// below are in-process and infallible, so atomicity reduces to "do them
// all before returning", with no partial-failure path to guard).
func (ix *indexes) indexOrder(orderId core.OrderId, strategyId core.StrategyId, positionId core.PositionId) {
	ix.allOrders[orderId] = struct{}{}
	ix.orderToStrategy[orderId] = strategyId
	ix.orderToPosition[orderId] = positionId

	if ix.positionToOrders[positionId] == nil {
		ix.positionToOrders[positionId] = make(map[core.OrderId]struct{})
	}
	ix.positionToOrders[positionId][orderId] = struct{}{}

	if ix.strategyToOrders[strategyId] == nil {
		ix.strategyToOrders[strategyId] = make(map[core.OrderId]struct{})
	}
	ix.strategyToOrders[strategyId][orderId] = struct{}{}

	if ix.strategyToPositions[strategyId] == nil {
		ix.strategyToPositions[strategyId] = make(map[core.PositionId]struct{})
	}
	ix.strategyToPositions[strategyId][positionId] = struct{}{}
}

// indexPosition wires position<->strategy and, when a broker position id
// is known, the broker_position_id->position_id index.
func (ix *indexes) indexPosition(positionId core.PositionId, strategyId core.StrategyId) {
	ix.allPositions[positionId] = struct{}{}
	ix.positionToStrategy[positionId] = strategyId
	if ix.strategyToPositions[strategyId] == nil {
		ix.strategyToPositions[strategyId] = make(map[core.PositionId]struct{})
	}
	ix.strategyToPositions[strategyId][positionId] = struct{}{}
}

// moveOrderWorkingState moves orderId between the working and completed
// sets according to isWorking, per spec.md §4.4.
func (ix *indexes) moveOrderWorkingState(orderId core.OrderId, isWorking bool) {
	delete(ix.workingOrders, orderId)
	delete(ix.completedOrders, orderId)
	if isWorking {
		ix.workingOrders[orderId] = struct{}{}
	} else {
		ix.completedOrders[orderId] = struct{}{}
	}
}

// movePositionOpenState moves positionId between the open and closed
// sets according to isOpen.
func (ix *indexes) movePositionOpenState(positionId core.PositionId, isOpen bool) {
	delete(ix.openPositions, positionId)
	delete(ix.closedPositions, positionId)
	if isOpen {
		ix.openPositions[positionId] = struct{}{}
	} else {
		ix.closedPositions[positionId] = struct{}{}
	}
}

func (ix *indexes) linkBrokerPositionId(brokerId core.PositionIdBroker, positionId core.PositionId) {
	ix.brokerPositionToPosition[brokerId] = positionId
}

func (ix *indexes) deleteStrategy(strategyId core.StrategyId) {
	delete(ix.strategyToOrders, strategyId)
	delete(ix.strategyToPositions, strategyId)
	delete(ix.strategyState, strategyId)
}

func orderIdSetToSlice(m map[core.OrderId]struct{}) []core.OrderId {
	out := make([]core.OrderId, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func positionIdSetToSlice(m map[core.PositionId]struct{}) []core.PositionId {
	out := make([]core.PositionId, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
