package core

import (
	"encoding/json"
	"strings"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// currencyPrecision gives the fractional-digit precision for currencies
// this module knows about; anything unlisted defaults to 2 (the common
// minor-unit case), mirroring how most venues quote cash balances.
var currencyPrecision = map[Currency]int32{
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"JPY": 0,
	"BTC": 8,
	"ETH": 8,
}

// Currency is an uppercase ISO-4217-style currency code, or a crypto asset
// symbol for venues that settle in one.
type Currency string

// NewCurrency validates and normalizes a currency code to uppercase.
func NewCurrency(s string) (Currency, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", errs.InvalidArgument("currency must not be empty")
	}
	return Currency(s), nil
}

// Precision returns the currency's minor-unit fractional digits.
func (c Currency) Precision() int32 {
	if p, ok := currencyPrecision[c]; ok {
		return p
	}
	return 2
}

// Money is a Decimal64 amount tagged with a Currency; arithmetic between
// two Money values of differing Currency fails fast rather than silently
// converting, per spec.md §4.1.
type Money struct {
	amount   Decimal64
	currency Currency
}

// NewMoneyFromString parses amount at the currency's minor-unit precision.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := NewDecimal64(amount, currency.Precision())
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d, currency: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	d, _ := NewDecimal64("0", currency.Precision())
	return Money{amount: d, currency: currency}
}

// Currency returns the tagged currency.
func (m Money) Currency() Currency { return m.currency }

// Amount returns the underlying Decimal64.
func (m Money) Amount() Decimal64 { return m.amount }

// Float64 returns the nearest float64 approximation, for reporting only.
func (m Money) Float64() float64 { return m.amount.Float64() }

// String renders "<amount> <currency>".
func (m Money) String() string { return m.amount.String() + " " + string(m.currency) }

func (m Money) requireSameCurrency(o Money) error {
	if m.currency != o.currency {
		return errs.InvalidArgument("currency mismatch: %s vs %s", m.currency, o.currency)
	}
	return nil
}

// Add sums two Money values of the same currency.
func (m Money) Add(o Money) (Money, error) {
	if err := m.requireSameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}, nil
}

// Sub subtracts two Money values of the same currency.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.requireSameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(o.amount), currency: m.currency}, nil
}

// Neg returns the additive inverse.
func (m Money) Neg() Money { return Money{amount: m.amount.Neg(), currency: m.currency} }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

type moneyJSON struct {
	Amount   Decimal64 `json:"amount"`
	Currency Currency  `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(b []byte) error {
	var wire moneyJSON
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	m.amount = wire.Amount
	m.currency = wire.Currency
	return nil
}
