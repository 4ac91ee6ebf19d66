package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	c := Config{
		Environment: EnvironmentConfig{Mode: "backtest"},
		Execution: ExecutionConfig{
			TickCapacity:     4096,
			BarCapacity:      1024,
			ExecDbType:       "memory",
			StartingCapital:  "100000.00",
			AccountCurrency:  "USD",
			CommissionRateBp: "5",
		},
		Logging: LoggingConfig{
			EngineLevel: "info", MatchingLevel: "info", ClockLevel: "info",
			BacktestLevel: "info", VenueLevel: "info",
		},
		Venue: VenueConfig{
			FillModelSeed: 42, CompressionCodec: "bypass", PollIntervalSeconds: 5,
		},
	}
	return c
}

func TestValidate_AcceptsFullyPopulatedConfig(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_RejectsBadEnvironmentMode(t *testing.T) {
	c := validConfig()
	c.Environment.Mode = "sandbox"
	if err := c.Validate(); err == nil {
		t.Error("expected error for invalid environment.mode, got nil")
	}
}

func TestValidate_RejectsBadExecDbType(t *testing.T) {
	c := validConfig()
	c.Execution.ExecDbType = "sqlite"
	if err := c.Validate(); err == nil {
		t.Error("expected error for invalid execution.exec_db_type, got nil")
	}
}

func TestValidate_RequiresKVStorePathForKVFileBackend(t *testing.T) {
	c := validConfig()
	c.Execution.ExecDbType = "kv-file"
	c.Execution.KVStorePath = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for kv-file backend missing kv_store_path, got nil")
	}
	c.Execution.KVStorePath = "/tmp/store.json"
	if err := c.Validate(); err != nil {
		t.Errorf("expected valid kv-file config with kv_store_path set, got error: %v", err)
	}
}

func TestValidate_RequiresStartingCapital(t *testing.T) {
	c := validConfig()
	c.Execution.StartingCapital = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing execution.starting_capital, got nil")
	}
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	c := validConfig()
	c.Logging.MatchingLevel = "verbose"
	if err := c.Validate(); err == nil {
		t.Error("expected error for invalid log level, got nil")
	}
}

func TestValidate_RequiresLogFilePathWhenLogToFileEnabled(t *testing.T) {
	c := validConfig()
	c.Logging.LogToFile = true
	c.Logging.LogFilePath = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error when log_to_file is set without log_file_path, got nil")
	}
}

func TestValidate_RejectsUnsupportedCompressionCodec(t *testing.T) {
	c := validConfig()
	c.Venue.CompressionCodec = "lz4"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unwired compression codec, got nil")
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	var c Config
	c.Execution.StartingCapital = "1000.00"
	c.Execution.AccountCurrency = "USD"
	c.Normalize()

	if c.Environment.Mode != "backtest" {
		t.Errorf("expected default mode backtest, got %q", c.Environment.Mode)
	}
	if c.Execution.TickCapacity != defaultTickCapacity {
		t.Errorf("expected default tick_capacity %d, got %d", defaultTickCapacity, c.Execution.TickCapacity)
	}
	if c.Execution.ExecDbType != "memory" {
		t.Errorf("expected default exec_db_type memory, got %q", c.Execution.ExecDbType)
	}
	if c.Logging.EngineLevel != "info" {
		t.Errorf("expected default engine_level info, got %q", c.Logging.EngineLevel)
	}
	if c.Venue.CompressionCodec != "bypass" {
		t.Errorf("expected default compression_codec bypass, got %q", c.Venue.CompressionCodec)
	}
	if c.Venue.FillModelSeed != defaultFillModelSeed {
		t.Errorf("expected default fill_model_seed %d, got %d", defaultFillModelSeed, c.Venue.FillModelSeed)
	}
}

func TestLoad_ReadsValidatesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
environment:
  mode: backtest
execution:
  exec_db_type: memory
  starting_capital: "50000.00"
  account_currency: USD
venue:
  fill_model_seed: 7
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed writing test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}
	if cfg.Venue.FillModelSeed != 7 {
		t.Errorf("expected fill_model_seed 7, got %d", cfg.Venue.FillModelSeed)
	}
	if cfg.Execution.TickCapacity != defaultTickCapacity {
		t.Errorf("expected normalized default tick_capacity, got %d", cfg.Execution.TickCapacity)
	}
}

func TestLoad_InvalidPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Error("expected error when loading nonexistent config file, got nil")
	}
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
environment:
  mode: backtest
execution:
  starting_capital: "1000.00"
  account_currency: USD
unknown_top_level_field: true
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed writing test config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown top-level field, got nil")
	}
}
