package journal

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"md-journal/internal/analysis"
	"md-journal/internal/logging"
	"md-journal/internal/marketdata"
	"md-journal/internal/models"
	"md-journal/internal/store"
	"md-journal/pkg/utils"
)

// markLookbackDays bounds the window fetched when pricing open positions.
const markLookbackDays = 10

// Service ties the journal together: it builds the trade, captures the
// entry-date market context, and appends to the store.
type Service struct {
	store    store.TradeStore
	resolver *analysis.Resolver
	source   marketdata.Source
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates the journal service.
func NewService(st store.TradeStore, resolver *analysis.Resolver, source marketdata.Source, logger zerolog.Logger) *Service {
	return &Service{
		store:    st,
		resolver: resolver,
		source:   source,
		logger:   logger,
		now:      time.Now,
	}
}

// Log validates, enriches, and persists one trade. Context resolution is
// best-effort; a data outage records the trade with an Unknown regime
// rather than failing the append.
func (s *Service) Log(ctx context.Context, entry Entry) (models.Trade, error) {
	trade, err := New(entry)
	if err != nil {
		return models.Trade{}, err
	}

	trade.Context = s.resolver.Resolve(ctx, trade.EntryDate)

	if err := s.store.Append(ctx, trade); err != nil {
		return models.Trade{}, err
	}

	logging.LogTradeLogged(s.logger, trade.ID, trade.Ticker, trade.Closed(), trade.PnLPercent)
	return trade, nil
}

// Trades reads the full journal back in append order.
func (s *Service) Trades(ctx context.Context) ([]models.Trade, error) {
	return s.store.All(ctx)
}

// OpenPosition is an open trade priced against the latest available close.
type OpenPosition struct {
	Trade             models.Trade
	LastPrice         float64
	PricedAt          time.Time
	UnrealizedPercent float64
	UnrealizedDollar  float64
	Priced            bool // false when no recent bar was available
}

// MarkToMarket prices every open trade against its latest available close.
// Pricing is best-effort per position; a fetch failure leaves the position
// unpriced without affecting the others.
func (s *Service) MarkToMarket(ctx context.Context, trades []models.Trade) []OpenPosition {
	var positions []OpenPosition
	today := utils.Midnight(s.now())

	for _, trade := range trades {
		if trade.Closed() {
			continue
		}
		pos := OpenPosition{Trade: trade}

		history, err := s.source.Fetch(ctx, []string{trade.Ticker},
			today.AddDate(0, 0, -markLookbackDays), today)
		if err == nil {
			if bar, ok := marketdata.NewSeries(history[trade.Ticker]).Last(); ok {
				pos.LastPrice = bar.EffectiveClose()
				pos.PricedAt = bar.Date
				pos.UnrealizedPercent, pos.UnrealizedDollar = PnL(
					trade.Direction, trade.EntryPrice, pos.LastPrice, trade.Quantity)
				pos.Priced = true
			}
		} else {
			s.logger.Warn().Str("ticker", trade.Ticker).Err(err).Msg("Mark-to-market fetch failed")
		}

		positions = append(positions, pos)
	}
	return positions
}
