// Package strategy defines the abstract contract a trading strategy must
// implement, per spec.md §9's "Strategy contract" component — this module
// specifies the interface only, not any concrete strategy's trading logic
// (explicitly out of scope per spec.md §1's Non-goals). Grounded on the
// teacher's strategy.StrangleStrategy shape (broker/config/logger/storage
// fields, lifecycle methods), generalized into the interface any strategy
// implements instead of one concrete options strategy.
package strategy

import (
	"github.com/eddiefleurent/strangengine/internal/clock"
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/engine"
	"github.com/eddiefleurent/strangengine/internal/matching"
)

// Context is handed to a strategy once at registration, per spec.md §9's
// "strategies receive a per-strategy clock handle at registration; no
// singletons" design note.
type Context struct {
	Clock     clock.Clock
	Engine    *engine.Engine
	AccountId core.AccountId
}

// Strategy is the contract the engine and backtest driver call into. It
// embeds engine.Strategy (StrategyId/HandleEvent) so any Strategy is also a
// valid engine.Strategy to register.
type Strategy interface {
	engine.Strategy

	// Reset re-initializes the strategy's own state at the start of a run;
	// ctx carries the strategy's clock handle and a reference to the
	// engine it submits commands through.
	Reset(ctx Context)

	// OnTick is invoked once per tick the data source produces, after the
	// matching engine/venue has processed it for this tick.
	OnTick(tick matching.QuoteTick)

	// OnStop is invoked once at teardown, after the run's last tick.
	OnStop()
}
