package journal

import (
	"testing"
	"time"

	apperrors "md-journal/internal/errors"
	"md-journal/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewClosedLong(t *testing.T) {
	trade, err := New(Entry{
		EntryDate:  day(2026, 8, 1),
		ExitDate:   day(2026, 8, 20),
		Ticker:     "aapl",
		Direction:  models.DirectionLong,
		Quantity:   10,
		EntryPrice: 100,
		ExitPrice:  110,
		Notes:      "earnings play",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if trade.ID != "20260801_AAPL_LONG" {
		t.Errorf("id = %s", trade.ID)
	}
	if trade.Ticker != "AAPL" {
		t.Errorf("ticker not uppercased: %s", trade.Ticker)
	}
	if !trade.Closed() {
		t.Fatal("trade should be closed")
	}
	if trade.PnLPercent != 10.0 {
		t.Errorf("pnl percent = %v, want 10.0", trade.PnLPercent)
	}
	if trade.PnLDollar != 100.0 {
		t.Errorf("pnl dollar = %v, want 100.0", trade.PnLDollar)
	}
}

func TestNewClosedShort(t *testing.T) {
	trade, err := New(Entry{
		EntryDate:  day(2026, 8, 1),
		ExitDate:   day(2026, 8, 10),
		Ticker:     "TSLA",
		Direction:  models.DirectionShort,
		Quantity:   7,
		EntryPrice: 50,
		ExitPrice:  45,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if trade.PnLPercent != 10.0 {
		t.Errorf("short pnl percent = %v, want 10.0 (profit on decline)", trade.PnLPercent)
	}
	if trade.PnLDollar != 35.0 {
		t.Errorf("short pnl dollar = %v, want 5 * quantity", trade.PnLDollar)
	}
}

func TestNewOpenTrade(t *testing.T) {
	trade, err := New(Entry{
		EntryDate:  day(2026, 8, 1),
		Ticker:     "NVDA",
		Direction:  models.DirectionLong,
		Quantity:   3,
		EntryPrice: 500,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if trade.Closed() {
		t.Fatal("trade without exit should be open")
	}
	if trade.PnLPercent != 0 || trade.PnLDollar != 0 {
		t.Errorf("open trade pnl = %v/%v, want zero", trade.PnLPercent, trade.PnLDollar)
	}
	if !trade.ExitDate.IsZero() {
		t.Errorf("open trade exit date = %v, want zero", trade.ExitDate)
	}
}

func TestNewValidation(t *testing.T) {
	valid := Entry{
		EntryDate:  day(2026, 8, 1),
		Ticker:     "AAPL",
		Direction:  models.DirectionLong,
		Quantity:   10,
		EntryPrice: 100,
	}

	cases := []struct {
		name   string
		mutate func(*Entry)
	}{
		{"empty ticker", func(e *Entry) { e.Ticker = " " }},
		{"bad direction", func(e *Entry) { e.Direction = "HOLD" }},
		{"zero quantity", func(e *Entry) { e.Quantity = 0 }},
		{"negative quantity", func(e *Entry) { e.Quantity = -5 }},
		{"zero entry price", func(e *Entry) { e.EntryPrice = 0 }},
		{"negative exit price", func(e *Entry) { e.ExitPrice = -1 }},
		{"zero entry date", func(e *Entry) { e.EntryDate = time.Time{} }},
		{"exit date without price", func(e *Entry) { e.ExitDate = day(2026, 8, 5) }},
		{"exit price without date", func(e *Entry) { e.ExitPrice = 110 }},
		{"exit before entry", func(e *Entry) {
			e.ExitDate = day(2026, 7, 20)
			e.ExitPrice = 110
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			entry := valid
			c.mutate(&entry)
			_, err := New(entry)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !apperrors.Is(err, apperrors.ErrInvalidTrade) {
				t.Errorf("error not classified as invalid trade: %v", err)
			}
		})
	}
}

func TestTradeIDCollision(t *testing.T) {
	// Same day, ticker, and direction produce the same ID. Weak identity is
	// an accepted property of the scheme.
	a := TradeID(day(2026, 8, 1), "AAPL", models.DirectionLong)
	b := TradeID(day(2026, 8, 1), "AAPL", models.DirectionLong)
	if a != b {
		t.Errorf("ids differ: %s vs %s", a, b)
	}

	c := TradeID(day(2026, 8, 1), "AAPL", models.DirectionShort)
	if a == c {
		t.Error("direction must distinguish ids")
	}
}

func TestPnLRounding(t *testing.T) {
	percent, dollar := PnL(models.DirectionLong, 3, 4, 3)
	if percent != 33.33 {
		t.Errorf("pnl percent = %v, want 33.33", percent)
	}
	if dollar != 3.0 {
		t.Errorf("pnl dollar = %v, want 3.0", dollar)
	}
}
