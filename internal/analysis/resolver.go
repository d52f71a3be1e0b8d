// Package analysis provides market-context resolution, retrospective exit
// evaluation, and aggregate journal statistics.
package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"md-journal/internal/analysis/indicators"
	"md-journal/internal/config"
	apperrors "md-journal/internal/errors"
	"md-journal/internal/logging"
	"md-journal/internal/marketdata"
	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// Resolver derives a point-in-time market context snapshot for a given date.
// Resolution is best-effort: any failure yields an Unknown snapshot rather
// than an error, so a data outage never blocks journaling a trade.
type Resolver struct {
	source marketdata.Source
	market config.MarketConfig
	params config.AnalysisConfig
	logger zerolog.Logger
}

// NewResolver creates a context resolver over the given bar source.
func NewResolver(source marketdata.Source, market config.MarketConfig, params config.AnalysisConfig, logger zerolog.Logger) *Resolver {
	return &Resolver{
		source: source,
		market: market,
		params: params,
		logger: logger,
	}
}

// Resolve returns the market context as of date. It never fails; when the
// underlying data cannot support a trend call the snapshot degrades to the
// Unknown regime with zero levels.
func (r *Resolver) Resolve(ctx context.Context, date time.Time) models.ContextSnapshot {
	snapshot, err := r.resolve(ctx, date)
	if err != nil {
		logging.LogContextResolved(r.logger, date, string(models.RegimeUnknown), err)
		return models.ContextSnapshot{
			AsOfDate:    utils.Midnight(date),
			TrendRegime: models.RegimeUnknown,
		}
	}
	logging.LogContextResolved(r.logger, date, string(snapshot.TrendRegime), nil)
	return snapshot
}

// resolve performs the real work and surfaces the failure taxonomy that
// Resolve downgrades.
func (r *Resolver) resolve(ctx context.Context, date time.Time) (models.ContextSnapshot, error) {
	date = utils.Midnight(date)
	start := date.AddDate(0, 0, -r.params.LookbackDays)

	symbols := []string{r.market.IndexSymbol, r.market.VolSymbol, r.market.RateSymbol}
	history, err := r.source.Fetch(ctx, symbols, start, date)
	if err != nil {
		return models.ContextSnapshot{}, err
	}

	index := marketdata.NewSeries(history[r.market.IndexSymbol])
	window := utils.FormatDate(start) + ".." + utils.FormatDate(date)

	if index.Empty() {
		return models.ContextSnapshot{}, apperrors.NewDataError(
			r.market.IndexSymbol, window, "no index history", apperrors.ErrEmptyResult)
	}

	bar, idx, ok := index.AsOf(date)
	if !ok {
		return models.ContextSnapshot{}, apperrors.NewDataError(
			r.market.IndexSymbol, window, "requested date precedes history", apperrors.ErrDateOutOfRange)
	}
	if utils.CalendarDaysBetween(bar.Date, date) > r.params.StalenessDays {
		return models.ContextSnapshot{}, apperrors.NewDataError(
			r.market.IndexSymbol, window, "nearest trading day too stale", apperrors.ErrDataGap)
	}

	sma, err := indicators.SMAAt(index.Closes(), r.params.SMAPeriod, idx)
	if err != nil {
		return models.ContextSnapshot{}, apperrors.NewDataError(
			r.market.IndexSymbol, window, "insufficient history for trend average", apperrors.ErrDateOutOfRange)
	}

	// Equality with the trend average counts as below it.
	regime := models.RegimeBearish
	if bar.EffectiveClose() > sma {
		regime = models.RegimeBullish
	}

	snapshot := models.ContextSnapshot{
		AsOfDate:       bar.Date,
		TrendRegime:    regime,
		ReferencePrice: utils.Round2(bar.EffectiveClose()),
	}

	// Secondary levels are additive. A gap in either leaves its level at
	// zero without downgrading the trend call.
	snapshot.VolatilityLevel = r.levelAsOf(history[r.market.VolSymbol], date)
	snapshot.RateLevel = r.levelAsOf(history[r.market.RateSymbol], date)

	return snapshot, nil
}

func (r *Resolver) levelAsOf(bars []models.Bar, date time.Time) float64 {
	series := marketdata.NewSeries(bars)
	bar, _, ok := series.AsOf(date)
	if !ok {
		return 0
	}
	if utils.CalendarDaysBetween(bar.Date, date) > r.params.StalenessDays {
		return 0
	}
	return utils.Round2(bar.EffectiveClose())
}
