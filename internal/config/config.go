// Package config provides configuration management for a backtest or live
// run. Grounded on the teacher's internal/config/config.go: a single
// Config struct tree, yaml.v3-decoded with env var expansion, then
// Normalize()-then-Validate()'d with hand-rolled field checks returning
// wrapped errors.
package config

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

const (
	defaultTickCapacity        = 4096
	defaultBarCapacity         = 1024
	defaultCommissionRateBp    = "0"
	defaultFillModelSeed       = int64(1)
	defaultCompressionCodec    = "bypass"
	defaultPollIntervalSeconds = 5
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Execution   ExecutionConfig   `yaml:"execution"`
	Logging     LoggingConfig     `yaml:"logging"`
	Venue       VenueConfig       `yaml:"venue"`
}

// EnvironmentConfig selects backtest vs live mode, mirroring the teacher's
// paper/live split.
type EnvironmentConfig struct {
	Mode string `yaml:"mode"` // backtest | live
}

// ExecutionConfig sizes the execution database and seeds the starting
// account.
type ExecutionConfig struct {
	TickCapacity     int    `yaml:"tick_capacity"`
	BarCapacity      int    `yaml:"bar_capacity"`
	ExecDbType       string `yaml:"exec_db_type"` // memory | kv | kv-file
	KVStorePath      string `yaml:"kv_store_path"` // required when exec_db_type is kv-file
	StartingCapital  string `yaml:"starting_capital"`
	AccountCurrency  string `yaml:"account_currency"`
	CommissionRateBp string `yaml:"commission_rate_bp"`
}

// LoggingConfig sets per-package log verbosity plus the bypass/file-output
// switches, generalizing the teacher's single Environment.LogLevel into
// one knob per package this module logs from.
type LoggingConfig struct {
	BypassLogging bool `yaml:"bypass_logging"`

	EngineLevel   string `yaml:"engine_level"`
	MatchingLevel string `yaml:"matching_level"`
	ClockLevel    string `yaml:"clock_level"`
	BacktestLevel string `yaml:"backtest_level"`
	VenueLevel    string `yaml:"venue_level"`

	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
}

// VenueConfig carries the simulated-matching-engine seed in backtest mode
// and the live adapter's session knobs in live mode.
type VenueConfig struct {
	FillModelSeed       int64  `yaml:"fill_model_seed"`
	CompressionCodec    string `yaml:"compression_codec"` // bypass (only codec wired)
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is an operator-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", configPath, err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", configPath, err)
	}

	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Normalize sets default values for configuration fields.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Environment.Mode) == "" {
		c.Environment.Mode = "backtest"
	}
	if c.Execution.TickCapacity <= 0 {
		c.Execution.TickCapacity = defaultTickCapacity
	}
	if c.Execution.BarCapacity <= 0 {
		c.Execution.BarCapacity = defaultBarCapacity
	}
	if strings.TrimSpace(c.Execution.ExecDbType) == "" {
		c.Execution.ExecDbType = "memory"
	}
	if strings.TrimSpace(c.Execution.CommissionRateBp) == "" {
		c.Execution.CommissionRateBp = defaultCommissionRateBp
	}
	for _, lvl := range []*string{
		&c.Logging.EngineLevel, &c.Logging.MatchingLevel, &c.Logging.ClockLevel,
		&c.Logging.BacktestLevel, &c.Logging.VenueLevel,
	} {
		if strings.TrimSpace(*lvl) == "" {
			*lvl = "info"
		}
	}
	if c.Venue.FillModelSeed == 0 {
		c.Venue.FillModelSeed = defaultFillModelSeed
	}
	if strings.TrimSpace(c.Venue.CompressionCodec) == "" {
		c.Venue.CompressionCodec = defaultCompressionCodec
	}
	if c.Venue.PollIntervalSeconds <= 0 {
		c.Venue.PollIntervalSeconds = defaultPollIntervalSeconds
	}
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	switch c.Environment.Mode {
	case "backtest", "live":
	default:
		return errs.InvalidArgument("environment.mode must be 'backtest' or 'live'")
	}

	switch strings.ToLower(c.Execution.ExecDbType) {
	case "memory", "kv":
	case "kv-file":
		if strings.TrimSpace(c.Execution.KVStorePath) == "" {
			return errs.InvalidArgument("execution.kv_store_path is required when exec_db_type is kv-file")
		}
	default:
		return errs.InvalidArgument("execution.exec_db_type must be 'memory', 'kv', or 'kv-file'")
	}
	if strings.TrimSpace(c.Execution.StartingCapital) == "" {
		return errs.InvalidArgument("execution.starting_capital is required")
	}
	if strings.TrimSpace(c.Execution.AccountCurrency) == "" {
		return errs.InvalidArgument("execution.account_currency is required")
	}
	if c.Execution.TickCapacity <= 0 {
		return errs.InvalidArgument("execution.tick_capacity must be > 0")
	}
	if c.Execution.BarCapacity <= 0 {
		return errs.InvalidArgument("execution.bar_capacity must be > 0")
	}

	for _, lvl := range []string{
		c.Logging.EngineLevel, c.Logging.MatchingLevel, c.Logging.ClockLevel,
		c.Logging.BacktestLevel, c.Logging.VenueLevel,
	} {
		switch strings.ToLower(lvl) {
		case "debug", "info", "warn", "error":
		default:
			return errs.InvalidArgument("log level %q must be one of: debug, info, warn, error", lvl)
		}
	}
	if c.Logging.LogToFile && strings.TrimSpace(c.Logging.LogFilePath) == "" {
		return errs.InvalidArgument("logging.log_file_path is required when logging.log_to_file is true")
	}

	if strings.ToLower(c.Venue.CompressionCodec) != "bypass" {
		return errs.InvalidArgument("venue.compression_codec: only 'bypass' is wired")
	}
	if c.Venue.PollIntervalSeconds <= 0 {
		return errs.InvalidArgument("venue.poll_interval_seconds must be > 0")
	}

	return nil
}

// IsLive returns true if the configuration targets a live run rather than
// a backtest.
func (c *Config) IsLive() bool {
	return c.Environment.Mode == "live"
}
