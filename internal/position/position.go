// Package position implements the net-inventory aggregator that folds
// order fills into a position, tracking its open/closed lifecycle and
// realized PnL, generalized from the teacher's options-spread credit
// accounting (internal/models/position.go) to spec.md §4.3's fill-folding
// semantics.
package position

import (
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/order"
)

// Status is the position's lifecycle stage.
type Status string

// Statuses.
const (
	Open   Status = "OPEN"
	Closed Status = "CLOSED"
)

// Position is net inventory keyed by PositionId, created by the first
// fill and folded by subsequent fills on the same PositionId, per
// spec.md §3/§4.3. Quantity is unsigned; Side tracks the direction
// established by the first fill.
type Position struct {
	ID               core.PositionId
	StrategyId       core.StrategyId
	Symbol           core.Symbol
	SideFromFirstFill order.Side
	Quantity         core.Quantity // unsigned net size
	PeakQuantity     core.Quantity
	EntryPrice       core.Price
	ExitPrice        core.Price
	HasExitPrice     bool
	RealizedPnL      core.Money
	AverageOpenPrice core.Price
	OpenTime         time.Time
	CloseTime        time.Time
	HasCloseTime     bool
	OrderIds         []core.OrderId
	Status           Status

	// signedQuantity tracks the net position internally (positive = long)
	// so subsequent fills can tell a same-direction add from a reducing
	// fill without re-deriving sign from Side each time.
	signedQuantity core.Decimal64
}

// FillInput is the subset of an order fill event a position needs to
// fold, decoupled from order.Event so this package does not need to know
// about the full order event surface.
type FillInput struct {
	OrderId       core.OrderId
	Side          order.Side
	FillQuantity  core.Quantity
	FillPrice     core.Price
	Timestamp     time.Time
	AccountCurrency core.Currency
	QuoteCurrency   core.Currency
}

// signedFillDelta returns the fill quantity signed by side: positive for
// BUY (adds to long / reduces short), negative for SELL.
func signedFillDelta(side order.Side, qty core.Quantity) core.Decimal64 {
	if side == order.Sell {
		return qty.Decimal64.Neg()
	}
	return qty.Decimal64
}

// Open creates a new position from the first fill on a fresh PositionId.
func Open(id core.PositionId, strategyId core.StrategyId, symbol core.Symbol, fill FillInput) *Position {
	signed := signedFillDelta(fill.Side, fill.FillQuantity)
	p := &Position{
		ID:                id,
		StrategyId:        strategyId,
		Symbol:            symbol,
		SideFromFirstFill: fill.Side,
		Quantity:          fill.FillQuantity,
		PeakQuantity:      fill.FillQuantity,
		EntryPrice:        fill.FillPrice,
		AverageOpenPrice:  fill.FillPrice,
		RealizedPnL:       core.ZeroMoney(fill.AccountCurrency),
		OpenTime:          fill.Timestamp,
		OrderIds:          []core.OrderId{fill.OrderId},
		Status:            Open,
		signedQuantity:    signed,
	}
	return p
}

// isReducing reports whether a fill of the given side reduces the current
// net position rather than adding to it.
func (p *Position) isReducing(side order.Side) bool {
	if p.signedQuantity.Sign() > 0 {
		return side == order.Sell
	}
	if p.signedQuantity.Sign() < 0 {
		return side == order.Buy
	}
	return false
}

// ApplyFill folds a subsequent fill on the same PositionId. Realized PnL
// accrues only on reducing fills: (exit-entry)*reduced_qty*side_sign,
// converted to account currency when quote_currency != account.currency
// (conversion itself is an external collaborator; convert is the
// identity when currencies match, and the caller is responsible for
// supplying a pre-converted FillPrice in AccountCurrency terms otherwise
// — this module owns the accounting, not FX rates). Returns true if the
// position closed as a result.
func (p *Position) ApplyFill(fill FillInput) (closed bool) {
	delta := signedFillDelta(fill.Side, fill.FillQuantity)
	reducing := p.isReducing(fill.Side)

	if reducing {
		reducedQty := fill.FillQuantity.Decimal64
		if reducedQty.Cmp(p.Quantity.Decimal64) > 0 {
			reducedQty = p.Quantity.Decimal64
		}
		sideSign := core.MustDecimal64("1", 0)
		if p.signedQuantity.Sign() < 0 {
			sideSign = core.MustDecimal64("-1", 0)
		}
		pnlDelta := fill.FillPrice.Decimal64.Sub(p.EntryPrice.Decimal64).Mul(reducedQty).Mul(sideSign)
		pnlMoney, _ := core.NewMoneyFromString(pnlDelta.Round(p.RealizedPnL.Amount().Precision()).String(), p.RealizedPnL.Currency())
		if sum, err := p.RealizedPnL.Add(pnlMoney); err == nil {
			p.RealizedPnL = sum
		}
	} else {
		// Same-direction add: roll AverageOpenPrice forward as a
		// notional-weighted average, mirroring order.applyFill's
		// weighted-average approach for consistency across the module.
		prevQty := p.Quantity.Decimal64
		newQtyTotal := prevQty.Add(fill.FillQuantity.Decimal64)
		if !newQtyTotal.IsZero() {
			prevNotional := prevQty.Mul(p.AverageOpenPrice.Decimal64)
			addNotional := fill.FillQuantity.Decimal64.Mul(fill.FillPrice.Decimal64)
			avgFloat := prevNotional.Add(addNotional).Float64() / newQtyTotal.Float64()
			p.AverageOpenPrice.Decimal64 = core.NewDecimal64FromFloat(avgFloat, p.AverageOpenPrice.Precision())
		}
	}

	p.signedQuantity = p.signedQuantity.Add(delta)
	p.Quantity.Decimal64 = p.signedQuantity.Abs()
	if p.Quantity.Cmp(p.PeakQuantity.Decimal64) > 0 {
		p.PeakQuantity = p.Quantity
	}
	p.OrderIds = append(p.OrderIds, fill.OrderId)

	if p.signedQuantity.IsZero() {
		p.Status = Closed
		p.CloseTime = fill.Timestamp
		p.HasCloseTime = true
		p.ExitPrice = fill.FillPrice
		p.HasExitPrice = true
		return true
	}
	return false
}

// IsOpen reports whether the position is still open.
func (p *Position) IsOpen() bool { return p.Status == Open }
