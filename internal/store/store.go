// Package store provides trade persistence implementations.
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"md-journal/internal/config"
	"md-journal/internal/models"
)

// TradeStore is the append-only journal store. Records are never edited or
// deleted by the core; corrections are appended as new rows.
type TradeStore interface {
	// Append writes one trade row.
	Append(ctx context.Context, trade models.Trade) error
	// All reads every trade back in append order.
	All(ctx context.Context) ([]models.Trade, error)
	// Close releases any underlying resources.
	Close() error
}

// Open creates the configured backend for the given user's journal.
func Open(cfg config.StorageConfig, user string, logger zerolog.Logger) (TradeStore, error) {
	switch cfg.Backend {
	case "csv":
		return NewCSVStore(filepath.Join(cfg.Dir, user+"_trades.csv"), logger)
	case "sqlite":
		return NewSQLiteStore(filepath.Join(cfg.Dir, user+"_trades.db"), logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
