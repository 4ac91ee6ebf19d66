package execdb

import (
	"github.com/eddiefleurent/strangengine/internal/core"
)

// Account holds cash and margin state for one trading account, per
// spec.md §3.
type Account struct {
	ID       core.AccountId
	Currency core.Currency

	Balance            core.Money
	StartOfDayBalance   core.Money
	ActivityBalance     core.Money

	MarginUsedLiquidation core.Money
	MarginUsedMaintenance core.Money
	MarginRatio           core.Decimal64
	MarginCallStatus      bool

	Events []AccountEvent
}

// AccountEvent is a state update applied to an Account; a minimal stand-in
// for the venue's wire-level AccountStateEvent (§6), carrying only the
// fields this module's accounting needs.
type AccountEvent struct {
	Balance               core.Money
	MarginUsedLiquidation core.Money
	MarginUsedMaintenance core.Money
	MarginRatio           core.Decimal64
	MarginCallStatus      bool
}

// NewAccount constructs a fresh account with zero balances in currency.
func NewAccount(id core.AccountId, currency core.Currency) *Account {
	zero := core.ZeroMoney(currency)
	return &Account{
		ID: id, Currency: currency,
		Balance: zero, StartOfDayBalance: zero, ActivityBalance: zero,
		MarginUsedLiquidation: zero, MarginUsedMaintenance: zero,
	}
}

// Apply folds an AccountEvent into the account's mutable state and
// appends it to the event history.
func (a *Account) Apply(evt AccountEvent) {
	a.Balance = evt.Balance
	a.MarginUsedLiquidation = evt.MarginUsedLiquidation
	a.MarginUsedMaintenance = evt.MarginUsedMaintenance
	a.MarginRatio = evt.MarginRatio
	a.MarginCallStatus = evt.MarginCallStatus
	a.Events = append(a.Events, evt)
}
