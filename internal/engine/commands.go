package engine

import (
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// CommandKind tags the variant of a Command, per spec.md §4.5.
type CommandKind string

// Command kinds.
const (
	CmdAccountInquiry     CommandKind = "AccountInquiry"
	CmdSubmitOrder        CommandKind = "SubmitOrder"
	CmdSubmitBracketOrder CommandKind = "SubmitBracketOrder"
	CmdModifyOrder        CommandKind = "ModifyOrder"
	CmdCancelOrder        CommandKind = "CancelOrder"
)

// Command is the tagged-variant command a strategy submits to the engine.
// Only the fields relevant to Kind are populated.
type Command struct {
	Kind       CommandKind
	StrategyId core.StrategyId
	AccountId  core.AccountId

	// SubmitOrder/SubmitBracketOrder: the position the resulting fills
	// should be folded into. A strategy assigns this id up front so entry,
	// stop_loss and take_profit children of one bracket share it.
	PositionId core.PositionId

	// SubmitOrder.
	Order *order.Order

	// SubmitBracketOrder.
	Bracket *order.Bracket

	// ModifyOrder/CancelOrder.
	OrderId          core.OrderId
	ModifiedQuantity core.Quantity
	HasModifiedQty   bool
	ModifiedPrice    core.Price
	HasModifiedPrice bool
}
