// Package main provides the entry point for running a backtest: load a
// config file, build the execution/matching engines it describes, replay
// a tick file through a BacktestDriver, and print the resulting report.
// Grounded on the teacher's cmd/bot/main.go wiring style (load config,
// construct dependencies, run) — thin CLI, "well-understood plumbing" per
// spec.md §1, kept minimal to give the module a runnable entry point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/eddiefleurent/strangengine/internal/backtest"
	"github.com/eddiefleurent/strangengine/internal/config"
	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/engine"
	"github.com/eddiefleurent/strangengine/internal/execdb"
	"github.com/eddiefleurent/strangengine/internal/matching"
	"github.com/eddiefleurent/strangengine/internal/serialize"
	"github.com/eddiefleurent/strangengine/internal/strategy"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath, dataPath, startFlag, stopFlag string
	var synthetic bool
	var syntheticSymbol string
	var syntheticCount int
	var syntheticSeed int64
	flag.StringVar(&configPath, "config", "config.yaml", "path to configuration file")
	flag.StringVar(&dataPath, "data", "", "path to a CSV tick file (symbol,bid,ask,bid_size,ask_size,timestamp)")
	flag.StringVar(&startFlag, "start", "", "RFC3339 run start time")
	flag.StringVar(&stopFlag, "stop", "", "RFC3339 run stop time")
	flag.BoolVar(&synthetic, "synthetic", false, "generate a random-walk tick series instead of reading -data")
	flag.StringVar(&syntheticSymbol, "synthetic-symbol", "SPY", "symbol for -synthetic tick generation")
	flag.IntVar(&syntheticCount, "synthetic-count", 390, "number of ticks for -synthetic tick generation")
	flag.Int64Var(&syntheticSeed, "synthetic-seed", 1, "RNG seed for -synthetic tick generation")
	flag.Parse()

	logger := log.New(os.Stderr, "backtestrunner: ", log.LstdFlags)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Printf("failed to load config: %v", err)
		return 1
	}
	if !synthetic && dataPath == "" {
		logger.Print("-data is required unless -synthetic is set")
		return 1
	}

	start, err := parseFlagTime(startFlag)
	if err != nil {
		logger.Printf("invalid -start: %v", err)
		return 1
	}
	stop, err := parseFlagTime(stopFlag)
	if err != nil {
		logger.Printf("invalid -stop: %v", err)
		return 1
	}

	var ticks []matching.QuoteTick
	if synthetic {
		symbol, err := core.NewSymbol(syntheticSymbol)
		if err != nil {
			logger.Printf("invalid -synthetic-symbol: %v", err)
			return 1
		}
		size, err := core.NewQuantity("1", 0)
		if err != nil {
			logger.Printf("building synthetic size: %v", err)
			return 1
		}
		dataSource := backtest.NewSyntheticDataSource(backtest.SyntheticConfig{
			Symbol:     symbol,
			Seed:       syntheticSeed,
			Count:      syntheticCount,
			Interval:   time.Minute,
			Start:      start,
			StartPrice: core.MustDecimal64("100.00", 2),
			StepSize:   core.MustDecimal64("0.25", 2),
			HalfSpread: core.MustDecimal64("0.01", 2),
			Size:       size,
		})
		for dataSource.HasNext() {
			ticks = append(ticks, dataSource.Next())
		}
	} else {
		ticks, err = loadTickCSV(dataPath)
		if err != nil {
			logger.Printf("failed to load tick data: %v", err)
			return 1
		}
	}

	db, err := buildDatabase(cfg)
	if err != nil {
		logger.Printf("failed to build execution database: %v", err)
		return 1
	}

	accountId := core.AccountId("backtest-account")
	startingCapital, err := core.NewMoneyFromString(cfg.Execution.StartingCapital, core.Currency(cfg.Execution.AccountCurrency))
	if err != nil {
		logger.Printf("invalid execution.starting_capital/account_currency: %v", err)
		return 1
	}
	commissionRateBp := core.MustDecimal64(cfg.Execution.CommissionRateBp, 2)

	executionEngine := engine.New(db, accountId, logger)

	fillModel := matching.NewRandomFillModel(cfg.Venue.FillModelSeed, 0.9, 0.1, core.MustDecimal64("0.0001", 4))
	matchingEngine := matching.New(fillModel, commissionRateBp, accountId,
		core.Currency(cfg.Execution.AccountCurrency), startingCapital, executionEngine.HandleEvent, logger)
	executionEngine.RegisterVenue(matchingEngine)

	dataSource := backtest.NewSliceDataSource(ticks)
	driver := backtest.New(db, executionEngine, matchingEngine, dataSource, logger)

	strat := &passthroughStrategy{id: "passthrough"}
	if err := driver.RegisterStrategy(strat, accountId); err != nil {
		logger.Printf("failed to register strategy: %v", err)
		return 1
	}

	report := driver.Run(start, stop)
	fmt.Printf("ticks_processed=%d residuals_clean=%t wall_clock=%s\n",
		report.TicksProcessed, report.Residuals.IsClean(), report.WallClockTime)
	return 0
}

func parseFlagTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("a time value is required")
	}
	return time.Parse(time.RFC3339, s)
}

func buildDatabase(cfg *config.Config) (execdb.Database, error) {
	switch cfg.Execution.ExecDbType {
	case "kv", "kv-file":
		traderId, err := core.NewTraderId("backtest-trader")
		if err != nil {
			return nil, err
		}
		store, err := buildKVStore(cfg)
		if err != nil {
			return nil, err
		}
		codec := serialize.NewCodec(nil)
		return execdb.NewKVDatabase(traderId, store, codec), nil
	default:
		return execdb.NewMemoryDatabase(), nil
	}
}

// buildKVStore selects the KVStore backend: an in-memory map for "kv", or
// a JSON file on disk for "kv-file" (cfg.Execution.KVStorePath).
func buildKVStore(cfg *config.Config) (execdb.KVStore, error) {
	if cfg.Execution.ExecDbType != "kv-file" {
		return execdb.NewMemoryKVStore(), nil
	}
	if cfg.Execution.KVStorePath == "" {
		return nil, fmt.Errorf("execution.kv_store_path is required when exec_db_type is kv-file")
	}
	return execdb.NewJSONFileKVStore(cfg.Execution.KVStorePath)
}

// passthroughStrategy is the minimal example wired into the CLI purely so
// BacktestDriver has something registered to run against; strategy
// *content* beyond this contract is out of scope (spec.md's "Strategy
// contract" Non-goal).
type passthroughStrategy struct {
	id core.StrategyId
}

func (s *passthroughStrategy) StrategyId() core.StrategyId { return s.id }
func (s *passthroughStrategy) HandleEvent(engine.Event)    {}
func (s *passthroughStrategy) Reset(strategy.Context)      {}
func (s *passthroughStrategy) OnTick(matching.QuoteTick)   {}
func (s *passthroughStrategy) OnStop()                     {}
