package backtest

import (
	"log"
	"os"
	"time"

	"github.com/eddiefleurent/strangengine/internal/clock"
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/engine"
	"github.com/eddiefleurent/strangengine/internal/execdb"
	"github.com/eddiefleurent/strangengine/internal/matching"
	"github.com/eddiefleurent/strangengine/internal/strategy"
)

// resettableDataSource is implemented by data sources that can be rewound
// for a second run against the same driver; SliceDataSource is one.
type resettableDataSource interface {
	Reset()
}

// registeredStrategy pairs a Strategy with the per-strategy TestClock and
// Context spec.md §9 says it receives at registration ("no singletons").
type registeredStrategy struct {
	strategy strategy.Strategy
	clock    *clock.TestClock
	ctx      strategy.Context
}

// BacktestDriver owns the simulated clock, data source, strategies,
// matching engine, execution engine and database for one backtest run, per
// spec.md §4.8. It also keeps a LiveClock purely for wall-clock
// diagnostics (e.g. reporting how long a run took); the LiveClock never
// drives simulation time.
type BacktestDriver struct {
	liveClock *clock.LiveClock
	testClock *clock.TestClock

	dataSource      DataSource
	db              execdb.Database
	executionEngine *engine.Engine
	matchingEngine  *matching.Engine

	strategies []*registeredStrategy

	logger *log.Logger
}

// New constructs a BacktestDriver wiring together the given db, execution
// engine and matching engine (the matching engine's dispatch callback must
// already be bound to executionEngine.HandleEvent).
func New(db execdb.Database, executionEngine *engine.Engine, matchingEngine *matching.Engine, dataSource DataSource, logger *log.Logger) *BacktestDriver {
	if db == nil || executionEngine == nil || matchingEngine == nil || dataSource == nil {
		panic("backtest.New: db, executionEngine, matchingEngine and dataSource must not be nil")
	}
	if logger == nil {
		logger = log.New(os.Stderr, "backtest: ", log.LstdFlags)
	}
	return &BacktestDriver{
		liveClock:       clock.NewLiveClock(),
		testClock:       clock.NewTestClock(time.Time{}),
		dataSource:      dataSource,
		db:              db,
		executionEngine: executionEngine,
		matchingEngine:  matchingEngine,
		logger:          logger,
	}
}

// RegisterStrategy adds s to the run, giving it its own TestClock handle
// and registering it with the execution engine as well (every Strategy is
// also a valid engine.Strategy).
func (d *BacktestDriver) RegisterStrategy(s strategy.Strategy, accountId core.AccountId) error {
	if err := d.executionEngine.RegisterStrategy(s); err != nil {
		return err
	}
	stratClock := clock.NewTestClock(time.Time{})
	d.strategies = append(d.strategies, &registeredStrategy{
		strategy: s,
		clock:    stratClock,
		ctx:      strategy.Context{Clock: stratClock, Engine: d.executionEngine, AccountId: accountId},
	})
	return nil
}

// Report summarizes one run's outcome, per spec.md §7's "residual-check
// runs at teardown and reports any working orders or open positions".
type Report struct {
	Start, Stop    time.Time
	TicksProcessed int
	Residuals      execdb.ResidualReport
	WallClockTime  time.Duration
}

// Run executes the loop spec.md §4.8 describes over [start, stop].
func (d *BacktestDriver) Run(start, stop time.Time) Report {
	runStarted := d.liveClock.TimeNow()

	// Step 1: reset.
	d.db.Reset()
	d.executionEngine.Reset()
	d.matchingEngine.Reset()
	d.testClock.Reset(start)
	if r, ok := d.dataSource.(resettableDataSource); ok {
		r.Reset()
	}
	for _, rs := range d.strategies {
		rs.clock.Reset(start)
		rs.ctx.Clock = rs.clock
		rs.strategy.Reset(rs.ctx)
	}

	ticks := 0

	// Step 2: main loop.
	for d.dataSource.HasNext() && !d.dataSource.PeekTimestamp().After(stop) {
		tick := d.dataSource.Next()

		for _, rs := range d.strategies {
			rs.clock.AdvanceTime(tick.Timestamp)
		}

		d.testClock.AdvanceTime(tick.Timestamp)

		d.matchingEngine.ProcessTick(tick)

		for _, rs := range d.strategies {
			rs.strategy.OnTick(tick)
		}

		ticks++
	}

	// Step 3: teardown.
	for _, rs := range d.strategies {
		rs.strategy.OnStop()
	}
	residuals := d.db.CheckResiduals()
	if !residuals.IsClean() {
		d.logger.Printf("WARN: residuals at teardown: %d working orders, %d open positions",
			len(residuals.WorkingOrderIds), len(residuals.OpenPositionIds))
	}

	return Report{
		Start: start, Stop: stop, TicksProcessed: ticks,
		Residuals:     residuals,
		WallClockTime: d.liveClock.TimeNow().Sub(runStarted),
	}
}
