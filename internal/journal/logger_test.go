package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"md-journal/internal/analysis"
	"md-journal/internal/config"
	"md-journal/internal/models"
)

type memStore struct {
	trades []models.Trade
	err    error
}

func (m *memStore) Append(ctx context.Context, trade models.Trade) error {
	if m.err != nil {
		return m.err
	}
	m.trades = append(m.trades, trade)
	return nil
}

func (m *memStore) All(ctx context.Context) ([]models.Trade, error) {
	return m.trades, nil
}

func (m *memStore) Close() error { return nil }

type stubSource struct {
	bars map[string][]models.Bar
	err  error
}

func (s *stubSource) Fetch(ctx context.Context, symbols []string, start, end time.Time) (map[string][]models.Bar, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string][]models.Bar, len(symbols))
	for _, symbol := range symbols {
		var filtered []models.Bar
		for _, bar := range s.bars[symbol] {
			if !bar.Date.Before(start) && !bar.Date.After(end) {
				filtered = append(filtered, bar)
			}
		}
		out[symbol] = filtered
	}
	return out, nil
}

func newTestService(st *memStore, source *stubSource) *Service {
	params := config.AnalysisConfig{
		SMAPeriod:         200,
		LookbackDays:      400,
		StalenessDays:     5,
		ForwardOffsetDays: 5,
		BufferDays:        3,
		PrematurePercent:  5.0,
		WellTimedPercent:  -5.0,
	}
	market := config.MarketConfig{IndexSymbol: "SPY", VolSymbol: "^VIX", RateSymbol: "^TNX"}
	resolver := analysis.NewResolver(source, market, params, zerolog.Nop())
	return NewService(st, resolver, source, zerolog.Nop())
}

func risingIndex(end time.Time, n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = models.Bar{Date: end.AddDate(0, 0, i-n+1), Close: 100 + float64(i)}
	}
	return bars
}

func TestServiceLogCapturesContext(t *testing.T) {
	entryDate := day(2026, 8, 28)
	st := &memStore{}
	source := &stubSource{bars: map[string][]models.Bar{
		"SPY":  risingIndex(entryDate, 400),
		"^VIX": {{Date: entryDate, Close: 18.2}},
		"^TNX": {{Date: entryDate, Close: 4.1}},
	}}
	service := newTestService(st, source)

	trade, err := service.Log(context.Background(), Entry{
		EntryDate:  entryDate,
		Ticker:     "AAPL",
		Direction:  models.DirectionLong,
		Quantity:   10,
		EntryPrice: 180,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if trade.Context.TrendRegime != models.RegimeBullish {
		t.Errorf("regime = %s, want Bullish", trade.Context.TrendRegime)
	}
	if trade.Context.VolatilityLevel != 18.2 {
		t.Errorf("volatility = %v", trade.Context.VolatilityLevel)
	}
	if len(st.trades) != 1 || st.trades[0].ID != trade.ID {
		t.Errorf("trade not persisted: %+v", st.trades)
	}
}

func TestServiceLogSucceedsOnDataOutage(t *testing.T) {
	st := &memStore{}
	source := &stubSource{err: errors.New("provider down")}
	service := newTestService(st, source)

	trade, err := service.Log(context.Background(), Entry{
		EntryDate:  day(2026, 8, 28),
		Ticker:     "AAPL",
		Direction:  models.DirectionLong,
		Quantity:   10,
		EntryPrice: 180,
	})
	if err != nil {
		t.Fatalf("Log must succeed despite data outage: %v", err)
	}

	if trade.Context.TrendRegime != models.RegimeUnknown {
		t.Errorf("regime = %s, want Unknown", trade.Context.TrendRegime)
	}
	if len(st.trades) != 1 {
		t.Error("trade not persisted during outage")
	}
}

func TestServiceLogRejectsInvalidEntry(t *testing.T) {
	st := &memStore{}
	service := newTestService(st, &stubSource{})

	_, err := service.Log(context.Background(), Entry{
		EntryDate: day(2026, 8, 28),
		Ticker:    "AAPL",
		Direction: models.DirectionLong,
		// Missing quantity and entry price.
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(st.trades) != 0 {
		t.Error("invalid trade must not be persisted")
	}
}

func TestMarkToMarket(t *testing.T) {
	today := day(2026, 8, 28)
	st := &memStore{}
	source := &stubSource{bars: map[string][]models.Bar{
		"NVDA": {{Date: day(2026, 8, 27), Close: 550}},
	}}
	service := newTestService(st, source)
	service.now = func() time.Time { return today }

	trades := []models.Trade{
		{
			ID: "open1", EntryDate: day(2026, 8, 1), Ticker: "NVDA",
			Direction: models.DirectionLong, Quantity: 2, EntryPrice: 500,
		},
		{
			ID: "closed", EntryDate: day(2026, 8, 1), ExitDate: day(2026, 8, 10),
			Ticker: "AAPL", Direction: models.DirectionLong, Quantity: 1,
			EntryPrice: 100, ExitPrice: 110,
		},
		{
			ID: "open2", EntryDate: day(2026, 8, 5), Ticker: "UNPRICED",
			Direction: models.DirectionShort, Quantity: 1, EntryPrice: 40,
		},
	}

	positions := service.MarkToMarket(context.Background(), trades)

	if len(positions) != 2 {
		t.Fatalf("positions = %d, want 2 (closed trade excluded)", len(positions))
	}

	priced := positions[0]
	if !priced.Priced || priced.LastPrice != 550 {
		t.Errorf("priced position = %+v", priced)
	}
	if priced.UnrealizedPercent != 10.0 || priced.UnrealizedDollar != 100.0 {
		t.Errorf("unrealized = %v/%v", priced.UnrealizedPercent, priced.UnrealizedDollar)
	}

	if positions[1].Priced {
		t.Error("position without bars must stay unpriced")
	}
}
