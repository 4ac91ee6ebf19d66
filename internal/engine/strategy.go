package engine

import "github.com/eddiefleurent/strangengine/internal/core"

// Strategy is the minimal surface the engine needs to deliver events to a
// registered strategy. internal/strategy.Strategy embeds this plus the
// tick/lifecycle handlers the backtest driver calls directly; the engine
// itself only ever routes Events, so it depends on nothing more than this.
type Strategy interface {
	StrategyId() core.StrategyId
	HandleEvent(Event)
}
