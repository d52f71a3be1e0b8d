package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# MD Journal Configuration

[journal]
# Journal owner; selects the per-user journal file
user = "default"

[market]
# Daily-bars CSV endpoint (symbol, period1, period2 query parameters)
base_url = "https://query1.finance.example.com/v7/finance/download"
timeout_seconds = 15
# Broad-market index used for the trend regime call
index_symbol = "SPY"
# Volatility index
vol_symbol = "^VIX"
# Long-term rate series (10Y yield)
rate_symbol = "^TNX"

[analysis]
# Trailing moving-average period (trading days)
sma_period = 200
# Calendar-day lookback fetched behind a requested date
lookback_days = 400
# Max calendar distance between a requested date and its as-of trading day
staleness_days = 5
# Days after exit used by the premature-exit analysis
forward_offset_days = 5
# Extra days fetched past the target date to absorb weekends
buffer_days = 3
# Exit classification thresholds (percent points)
premature_percent = 5.0
well_timed_percent = -5.0

[storage]
# Backend: "csv" or "sqlite"
backend = "csv"

[logging]
# Level: debug, info, warn, error
level = "info"
console = true
file = true
`

// createTemplate writes a starter config.toml so a first run leaves an
// editable file behind.
func createTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
