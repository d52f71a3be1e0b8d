// Package config provides configuration management for the journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal  JournalConfig  `mapstructure:"journal"`
	Market   MarketConfig   `mapstructure:"market"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// JournalConfig holds journal identity settings.
type JournalConfig struct {
	User string `mapstructure:"user"` // selects the per-user journal file
}

// MarketConfig holds time-series source settings.
type MarketConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	IndexSymbol    string `mapstructure:"index_symbol"` // broad-market index for the trend call
	VolSymbol      string `mapstructure:"vol_symbol"`   // volatility index
	RateSymbol     string `mapstructure:"rate_symbol"`  // long-term rate series
}

// AnalysisConfig holds resolver and outcome-analyzer tunables.
type AnalysisConfig struct {
	SMAPeriod         int     `mapstructure:"sma_period"`
	LookbackDays      int     `mapstructure:"lookback_days"`  // calendar days fetched behind the requested date
	StalenessDays     int     `mapstructure:"staleness_days"` // max calendar distance to the as-of trading day
	ForwardOffsetDays int     `mapstructure:"forward_offset_days"`
	BufferDays        int     `mapstructure:"buffer_days"` // absorbs weekends after the target date
	PrematurePercent  float64 `mapstructure:"premature_percent"`
	WellTimedPercent  float64 `mapstructure:"well_timed_percent"`
}

// StorageConfig selects and locates the trade store.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "csv" or "sqlite"
	Dir     string `mapstructure:"dir"`     // journal files directory
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/mdjournal"
	}
	return filepath.Join(home, ".config", "mdjournal")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Journal: JournalConfig{User: "default"},
		Market: MarketConfig{
			BaseURL:        "https://query1.finance.example.com/v7/finance/download",
			TimeoutSeconds: 15,
			IndexSymbol:    "SPY",
			VolSymbol:      "^VIX",
			RateSymbol:     "^TNX",
		},
		Analysis: AnalysisConfig{
			SMAPeriod:         200,
			LookbackDays:      400,
			StalenessDays:     5,
			ForwardOffsetDays: 5,
			BufferDays:        3,
			PrematurePercent:  5.0,
			WellTimedPercent:  -5.0,
		},
		Storage: StorageConfig{
			Backend: "csv",
			Dir:     filepath.Join(DefaultConfigDir(), "journals"),
		},
		Logging: LoggingConfig{Level: "info", Console: true, File: true},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplate(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("journal.user", cfg.Journal.User)
	v.SetDefault("market.base_url", cfg.Market.BaseURL)
	v.SetDefault("market.timeout_seconds", cfg.Market.TimeoutSeconds)
	v.SetDefault("market.index_symbol", cfg.Market.IndexSymbol)
	v.SetDefault("market.vol_symbol", cfg.Market.VolSymbol)
	v.SetDefault("market.rate_symbol", cfg.Market.RateSymbol)
	v.SetDefault("analysis.sma_period", cfg.Analysis.SMAPeriod)
	v.SetDefault("analysis.lookback_days", cfg.Analysis.LookbackDays)
	v.SetDefault("analysis.staleness_days", cfg.Analysis.StalenessDays)
	v.SetDefault("analysis.forward_offset_days", cfg.Analysis.ForwardOffsetDays)
	v.SetDefault("analysis.buffer_days", cfg.Analysis.BufferDays)
	v.SetDefault("analysis.premature_percent", cfg.Analysis.PrematurePercent)
	v.SetDefault("analysis.well_timed_percent", cfg.Analysis.WellTimedPercent)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MDJOURNAL_USER"); v != "" {
		cfg.Journal.User = v
	}
	if v := os.Getenv("MDJOURNAL_DATA_URL"); v != "" {
		cfg.Market.BaseURL = v
	}
	if v := os.Getenv("MDJOURNAL_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Journal.User == "" {
		return fmt.Errorf("journal.user must not be empty")
	}
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url must not be empty")
	}
	if c.Analysis.SMAPeriod <= 0 {
		return fmt.Errorf("analysis.sma_period must be positive")
	}
	if c.Analysis.LookbackDays <= c.Analysis.SMAPeriod {
		return fmt.Errorf("analysis.lookback_days must exceed analysis.sma_period")
	}
	if c.Analysis.StalenessDays <= 0 {
		return fmt.Errorf("analysis.staleness_days must be positive")
	}
	if c.Analysis.ForwardOffsetDays <= 0 {
		return fmt.Errorf("analysis.forward_offset_days must be positive")
	}
	if c.Analysis.BufferDays <= 0 {
		return fmt.Errorf("analysis.buffer_days must be positive")
	}
	if c.Analysis.PrematurePercent <= 0 {
		return fmt.Errorf("analysis.premature_percent must be positive")
	}
	if c.Analysis.WellTimedPercent >= 0 {
		return fmt.Errorf("analysis.well_timed_percent must be negative")
	}
	if c.Storage.Backend != "csv" && c.Storage.Backend != "sqlite" {
		return fmt.Errorf("invalid storage.backend: %s (must be 'csv' or 'sqlite')", c.Storage.Backend)
	}
	return nil
}
