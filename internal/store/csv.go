package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// openSentinel is the Exit_Date value meaning the position is still open.
const openSentinel = "Active"

// tradeRow is the on-disk schema. The column set has grown over the
// journal's lifetime, so readers must treat absent columns as defaulted
// rather than failing on older files.
type tradeRow struct {
	TradeID      string  `csv:"Trade_ID"`
	EntryDate    string  `csv:"Entry_Date"`
	ExitDate     string  `csv:"Exit_Date"`
	Ticker       string  `csv:"Ticker"`
	Direction    string  `csv:"Direction"`
	Quantity     int     `csv:"Quantity"`
	EntryPrice   float64 `csv:"Entry_Price"`
	ExitPrice    float64 `csv:"Exit_Price"`
	PnLPercent   float64 `csv:"PnL_Percent"`
	PnLDollar    float64 `csv:"PnL_Dollar"`
	Notes        string  `csv:"Notes"`
	MarketRegime string  `csv:"Market_Regime"`
	VIX          float64 `csv:"VIX"`
	TenYearYield float64 `csv:"10Y_Yield"`
	ContextDate  string  `csv:"Context_Date"`
	IndexLevel   float64 `csv:"Index_Level"`
}

// CSVStore is the flat-file journal backend: one CSV per user, append-only.
type CSVStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewCSVStore creates a CSV-backed trade store at path, creating the parent
// directory as needed. The file itself is created on first append.
func NewCSVStore(path string, logger zerolog.Logger) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return &CSVStore{path: path, logger: logger}, nil
}

// Append writes one trade row, emitting the header on first write. Writing
// to a file produced under an older, narrower schema rewrites it under the
// current header first so the column counts stay consistent.
func (s *CSVStore) Append(ctx context.Context, trade models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []tradeRow{toRow(trade)}

	info, err := os.Stat(s.path)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		file, err := os.Create(s.path)
		if err != nil {
			return fmt.Errorf("creating journal file: %w", err)
		}
		defer file.Close()
		return gocsv.MarshalFile(&rows, file)
	}
	if err != nil {
		return fmt.Errorf("checking journal file: %w", err)
	}

	current, err := s.headerIsCurrent()
	if err != nil {
		return err
	}
	if !current {
		existing, err := s.readRows()
		if err != nil {
			return err
		}
		all := append(existing, rows[0])
		file, err := os.Create(s.path)
		if err != nil {
			return fmt.Errorf("rewriting journal file: %w", err)
		}
		defer file.Close()
		s.logger.Info().Str("path", s.path).Msg("Upgrading journal file to current schema")
		return gocsv.MarshalFile(&all, file)
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening journal file: %w", err)
	}
	defer file.Close()
	return gocsv.MarshalWithoutHeaders(&rows, file)
}

// headerIsCurrent reports whether the file's first line matches the header
// the current schema would write.
func (s *CSVStore) headerIsCurrent() (bool, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return false, fmt.Errorf("opening journal file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	return strings.TrimRight(scanner.Text(), "\r") == currentHeader(), nil
}

func currentHeader() string {
	var empty []tradeRow
	out, err := gocsv.MarshalString(&empty)
	if err != nil {
		return ""
	}
	return strings.TrimRight(strings.SplitN(out, "\n", 2)[0], "\r")
}

// All reads every trade back in append order. A missing file is an empty
// journal, not an error.
func (s *CSVStore) All(ctx context.Context) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(rows))
	for _, row := range rows {
		trade, err := fromRow(row)
		if err != nil {
			// Older files can carry rows a newer schema no longer parses.
			s.logger.Warn().Str("trade_id", row.TradeID).Err(err).Msg("Skipping unreadable journal row")
			continue
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// readRows loads the raw rows. Callers hold s.mu. A missing or zero-length
// file is an empty journal.
func (s *CSVStore) readRows() ([]tradeRow, error) {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("checking journal file: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	var rows []tradeRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("reading journal file: %w", err)
	}
	return rows, nil
}

// Close is a no-op; the file is opened per call.
func (s *CSVStore) Close() error {
	return nil
}

func toRow(t models.Trade) tradeRow {
	row := tradeRow{
		TradeID:      t.ID,
		EntryDate:    utils.FormatDate(t.EntryDate),
		ExitDate:     openSentinel,
		Ticker:       t.Ticker,
		Direction:    string(t.Direction),
		Quantity:     t.Quantity,
		EntryPrice:   t.EntryPrice,
		ExitPrice:    t.ExitPrice,
		PnLPercent:   t.PnLPercent,
		PnLDollar:    t.PnLDollar,
		Notes:        t.Notes,
		MarketRegime: string(t.Context.TrendRegime),
		VIX:          t.Context.VolatilityLevel,
		TenYearYield: t.Context.RateLevel,
		IndexLevel:   t.Context.ReferencePrice,
	}
	if !t.ExitDate.IsZero() {
		row.ExitDate = utils.FormatDate(t.ExitDate)
	}
	if !t.Context.AsOfDate.IsZero() {
		row.ContextDate = utils.FormatDate(t.Context.AsOfDate)
	}
	return row
}

func fromRow(row tradeRow) (models.Trade, error) {
	entryDate, err := utils.ParseDate(row.EntryDate)
	if err != nil {
		return models.Trade{}, fmt.Errorf("entry date %q: %w", row.EntryDate, err)
	}

	trade := models.Trade{
		ID:         row.TradeID,
		EntryDate:  entryDate,
		Ticker:     row.Ticker,
		Direction:  models.Direction(row.Direction),
		Quantity:   row.Quantity,
		EntryPrice: row.EntryPrice,
		ExitPrice:  row.ExitPrice,
		PnLPercent: row.PnLPercent,
		PnLDollar:  row.PnLDollar,
		Notes:      row.Notes,
		Context: models.ContextSnapshot{
			TrendRegime:     models.Regime(row.MarketRegime),
			VolatilityLevel: row.VIX,
			RateLevel:       row.TenYearYield,
			ReferencePrice:  row.IndexLevel,
		},
	}
	if trade.Context.TrendRegime == "" {
		trade.Context.TrendRegime = models.RegimeUnknown
	}

	if row.ExitDate != "" && row.ExitDate != openSentinel {
		exitDate, err := utils.ParseDate(row.ExitDate)
		if err != nil {
			return models.Trade{}, fmt.Errorf("exit date %q: %w", row.ExitDate, err)
		}
		trade.ExitDate = exitDate
	}
	if row.ContextDate != "" {
		if asOf, err := utils.ParseDate(row.ContextDate); err == nil {
			trade.Context.AsOfDate = asOf
		}
	}
	return trade, nil
}
