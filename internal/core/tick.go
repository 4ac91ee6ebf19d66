package core

import "github.com/shopspring/decimal"

// RoundToTick rounds p to the nearest multiple of tick, banker-rounding
// ties. Adapted from the teacher's util.RoundToTick (internal/util/price.go),
// retargeted from float64 to exact Decimal64 arithmetic so price rounding
// never introduces the drift a float round-trip would.
func (p Price) RoundToTick(tick Price) Price {
	return Price{roundToTick(p.Decimal64, tick.Decimal64, func(q decimal.Decimal) decimal.Decimal {
		return q.RoundBank(0)
	})}
}

// FloorToTick rounds p down to the nearest multiple of tick; use for sell
// credits, where rounding up would overstate proceeds.
func (p Price) FloorToTick(tick Price) Price {
	return Price{roundToTick(p.Decimal64, tick.Decimal64, func(q decimal.Decimal) decimal.Decimal {
		return q.RoundFloor(0)
	})}
}

// CeilToTick rounds p up to the nearest multiple of tick; use for buy
// debits, where rounding down would understate cost.
func (p Price) CeilToTick(tick Price) Price {
	return Price{roundToTick(p.Decimal64, tick.Decimal64, func(q decimal.Decimal) decimal.Decimal {
		return q.RoundCeil(0)
	})}
}

func roundToTick(x, tick Decimal64, round func(decimal.Decimal) decimal.Decimal) Decimal64 {
	if tick.value.IsZero() {
		return x
	}
	quotient := x.value.DivRound(tick.value, x.precision+8)
	return decimal64FromDecimal(round(quotient).Mul(tick.value), x.precision)
}
