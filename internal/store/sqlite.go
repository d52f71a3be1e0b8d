package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// SQLiteStore is the database-backed journal. It keeps the same append-only
// contract as the CSV backend; rows are inserted, never updated.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (or creates) the journal database at dbPath.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		rowid_seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		entry_date DATE NOT NULL,
		exit_date DATE,
		ticker TEXT NOT NULL,
		direction TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL DEFAULT 0,
		pnl_percent REAL NOT NULL DEFAULT 0,
		pnl_dollar REAL NOT NULL DEFAULT 0,
		notes TEXT,
		regime TEXT NOT NULL DEFAULT 'Unknown',
		vix_level REAL NOT NULL DEFAULT 0,
		rate_level REAL NOT NULL DEFAULT 0,
		context_date DATE,
		index_level REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_entry_date ON trades(entry_date);
	CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts one trade row.
func (s *SQLiteStore) Append(ctx context.Context, trade models.Trade) error {
	var exitDate, contextDate interface{}
	if !trade.ExitDate.IsZero() {
		exitDate = trade.ExitDate.Format("2006-01-02")
	}
	if !trade.Context.AsOfDate.IsZero() {
		contextDate = trade.Context.AsOfDate.Format("2006-01-02")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, entry_date, exit_date, ticker, direction, quantity, entry_price, exit_price, pnl_percent, pnl_dollar, notes, regime, vix_level, rate_level, context_date, index_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.EntryDate.Format("2006-01-02"), exitDate, trade.Ticker, string(trade.Direction),
		trade.Quantity, trade.EntryPrice, trade.ExitPrice, trade.PnLPercent, trade.PnLDollar,
		trade.Notes, string(trade.Context.TrendRegime), trade.Context.VolatilityLevel,
		trade.Context.RateLevel, contextDate, trade.Context.ReferencePrice)
	if err != nil {
		return fmt.Errorf("failed to log trade: %w", err)
	}
	return nil
}

// All reads every trade back in insertion order.
func (s *SQLiteStore) All(ctx context.Context) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_date, exit_date, ticker, direction, quantity, entry_price, exit_price, pnl_percent, pnl_dollar, notes, regime, vix_level, rate_level, context_date, index_level
		FROM trades ORDER BY rowid_seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var (
			t                     models.Trade
			entryDate             time.Time
			exitDate, contextDate sql.NullTime
			direction, regime     string
			notes                 sql.NullString
		)
		if err := rows.Scan(&t.ID, &entryDate, &exitDate, &t.Ticker, &direction, &t.Quantity,
			&t.EntryPrice, &t.ExitPrice, &t.PnLPercent, &t.PnLDollar, &notes, &regime,
			&t.Context.VolatilityLevel, &t.Context.RateLevel, &contextDate, &t.Context.ReferencePrice); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		t.EntryDate = utils.Midnight(entryDate)
		if exitDate.Valid {
			t.ExitDate = utils.Midnight(exitDate.Time)
		}
		if contextDate.Valid {
			t.Context.AsOfDate = utils.Midnight(contextDate.Time)
		}
		t.Direction = models.Direction(direction)
		t.Context.TrendRegime = models.Regime(regime)
		t.Notes = notes.String

		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
