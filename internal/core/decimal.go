package core

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// MaxPrecision is the largest number of fractional digits a Decimal64 may
// carry, per spec.md §4.1.
const MaxPrecision = 15

// Decimal64 is a fixed-point decimal with an explicit precision. Two
// Decimal64 values are equal only if both their numeric value and their
// precision match exactly — two values that are numerically equal but
// carry different precision (e.g. 1.20 at precision 2 vs 1.2 at precision
// 1) are distinct, matching spec.md's "value-equality on (value,
// precision)" rule.
type Decimal64 struct {
	value     decimal.Decimal
	precision int32
}

// NewDecimal64 parses s and banker-rounds it to precision fractional
// digits. precision must be in [0, MaxPrecision].
func NewDecimal64(s string, precision int32) (Decimal64, error) {
	if precision < 0 || precision > MaxPrecision {
		return Decimal64{}, errs.InvalidArgument("precision %d out of range [0,%d]", precision, MaxPrecision)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal64{}, errs.InvalidArgument("invalid decimal %q: %v", s, err)
	}
	return Decimal64{value: v.RoundBank(precision), precision: precision}, nil
}

// NewDecimal64FromFloat builds a Decimal64 from a float64, banker-rounded
// to precision. Used where a value is computed through a float64 step
// (e.g. a volume-weighted average price, a commission, a synthetic
// random-walk step) and a small float64 round-trip is acceptable.
func NewDecimal64FromFloat(f float64, precision int32) Decimal64 {
	return decimal64FromDecimal(decimal.NewFromFloat(f).RoundBank(precision), precision)
}

// MustDecimal64 is NewDecimal64 that panics on error; for use with compile
// time literals only.
func MustDecimal64(s string, precision int32) Decimal64 {
	d, err := NewDecimal64(s, precision)
	if err != nil {
		panic(err)
	}
	return d
}

// decimal64FromDecimal wraps an already-rounded shopspring decimal without
// re-parsing a string; used internally by arithmetic so precision stays
// lossless until the final rounding step.
func decimal64FromDecimal(v decimal.Decimal, precision int32) Decimal64 {
	return Decimal64{value: v, precision: precision}
}

// Precision returns the number of fractional digits this value carries.
func (d Decimal64) Precision() int32 { return d.precision }

// IsZero reports whether the value is exactly zero.
func (d Decimal64) IsZero() bool { return d.value.IsZero() }

// Sign returns -1, 0 or 1.
func (d Decimal64) Sign() int { return d.value.Sign() }

// Equal reports exact (value, precision) equality.
func (d Decimal64) Equal(o Decimal64) bool {
	return d.precision == o.precision && d.value.Equal(o.value)
}

// Cmp compares the numeric value only (precision-independent), as needed
// for ordering prices/quantities of potentially differing precision.
func (d Decimal64) Cmp(o Decimal64) int { return d.value.Cmp(o.value) }

// Add returns a lossless sum at the larger of the two precisions.
func (d Decimal64) Add(o Decimal64) Decimal64 {
	p := d.precision
	if o.precision > p {
		p = o.precision
	}
	return decimal64FromDecimal(d.value.Add(o.value), p)
}

// Sub returns a lossless difference at the larger of the two precisions.
func (d Decimal64) Sub(o Decimal64) Decimal64 {
	p := d.precision
	if o.precision > p {
		p = o.precision
	}
	return decimal64FromDecimal(d.value.Sub(o.value), p)
}

// Mul multiplies two decimals, rounding the product to the larger of the
// two input precisions.
func (d Decimal64) Mul(o Decimal64) Decimal64 {
	p := d.precision
	if o.precision > p {
		p = o.precision
	}
	return decimal64FromDecimal(d.value.Mul(o.value).RoundBank(p), p)
}

// Neg returns the additive inverse at the same precision.
func (d Decimal64) Neg() Decimal64 { return decimal64FromDecimal(d.value.Neg(), d.precision) }

// Abs returns the absolute value at the same precision.
func (d Decimal64) Abs() Decimal64 { return decimal64FromDecimal(d.value.Abs(), d.precision) }

// Round re-rounds the value to a new precision using banker's rounding.
func (d Decimal64) Round(precision int32) Decimal64 {
	return decimal64FromDecimal(d.value.RoundBank(precision), precision)
}

// Float64 returns the nearest float64 approximation, for reporting only.
func (d Decimal64) Float64() float64 {
	f, _ := d.value.Float64()
	return f
}

// String renders the value with exactly Precision() fractional digits.
func (d Decimal64) String() string {
	return d.value.StringFixed(d.precision)
}

// decimal64JSON is the wire shape for Decimal64: value and precision are
// both carried explicitly so S.deserialize(S.serialize(x)) == x holds
// even for values whose precision differs from their trailing-zero count.
type decimal64JSON struct {
	Value     string `json:"value"`
	Precision int32  `json:"precision"`
}

// MarshalJSON implements json.Marshaler.
func (d Decimal64) MarshalJSON() ([]byte, error) {
	return json.Marshal(decimal64JSON{Value: d.value.StringFixed(d.precision), Precision: d.precision})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal64) UnmarshalJSON(b []byte) error {
	var wire decimal64JSON
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	parsed, err := NewDecimal64(wire.Value, wire.Precision)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Price is a non-negative Decimal64.
type Price struct{ Decimal64 }

// NewPrice validates s parses to a non-negative decimal at precision.
func NewPrice(s string, precision int32) (Price, error) {
	d, err := NewDecimal64(s, precision)
	if err != nil {
		return Price{}, err
	}
	if d.Sign() < 0 {
		return Price{}, errs.InvalidArgument("price must be non-negative, got %s", s)
	}
	return Price{d}, nil
}

// Quantity is a non-negative Decimal64; order submission additionally
// requires Quantity > 0 (enforced by the order constructors, not here,
// since a zero Quantity is meaningful for e.g. leaves-quantity reporting).
type Quantity struct{ Decimal64 }

// NewQuantity validates s parses to a non-negative decimal at precision.
func NewQuantity(s string, precision int32) (Quantity, error) {
	d, err := NewDecimal64(s, precision)
	if err != nil {
		return Quantity{}, err
	}
	if d.Sign() < 0 {
		return Quantity{}, errs.InvalidArgument("quantity must be non-negative, got %s", s)
	}
	return Quantity{d}, nil
}

// ZeroQuantity returns the additive identity at the given precision.
func ZeroQuantity(precision int32) Quantity {
	return Quantity{decimal64FromDecimal(decimal.Zero, precision)}
}

// Add sums two quantities at the larger precision.
func (q Quantity) Add(o Quantity) Quantity { return Quantity{q.Decimal64.Add(o.Decimal64)} }

// Sub subtracts, clamping is the caller's responsibility (a negative
// result signals a bug upstream — fills must never exceed order quantity).
func (q Quantity) Sub(o Quantity) Quantity { return Quantity{q.Decimal64.Sub(o.Decimal64)} }
