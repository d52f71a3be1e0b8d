package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"md-journal/internal/config"
	"md-journal/internal/marketdata"
	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// Analyzer answers the retrospective question for a closed trade: what did
// the price do a fixed number of days after the exit, and should the
// position have been held longer. Verdicts are recomputed on demand and
// never persisted.
type Analyzer struct {
	source marketdata.Source
	params config.AnalysisConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewAnalyzer creates an exit-timing analyzer over the given bar source.
func NewAnalyzer(source marketdata.Source, params config.AnalysisConfig, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		source: source,
		params: params,
		logger: logger,
		now:    time.Now,
	}
}

// Evaluate produces the exit-timing verdict for a single trade. A data
// failure yields a DataUnavailable verdict, never an error.
func (a *Analyzer) Evaluate(ctx context.Context, trade models.Trade) models.Verdict {
	verdict := models.Verdict{TradeID: trade.ID}

	if !trade.Closed() {
		verdict.Status = models.VerdictPending
		verdict.Note = "still holding"
		return verdict
	}

	target := utils.Midnight(trade.ExitDate).AddDate(0, 0, a.params.ForwardOffsetDays)
	today := utils.Midnight(a.now())

	if target.After(today) {
		verdict.Status = models.VerdictPending
		verdict.DaysRemaining = utils.CalendarDaysBetween(today, target)
		verdict.Note = fmt.Sprintf("target date in %d day(s)", verdict.DaysRemaining)
		return verdict
	}

	later, ok := a.laterClose(ctx, trade.Ticker, target)
	if !ok {
		verdict.Status = models.VerdictDataUnavailable
		verdict.Note = "no bars near target date"
		return verdict
	}

	missed := (later - trade.ExitPrice) / trade.ExitPrice * 100
	if trade.Direction == models.DirectionShort {
		missed = -missed
	}

	verdict.Status = models.VerdictEvaluated
	verdict.PercentMissed = utils.Round2(missed)
	verdict.Classification = a.classify(verdict.PercentMissed)
	return verdict
}

// EvaluateAll evaluates every trade in input order. A failure on one trade
// never aborts the batch.
func (a *Analyzer) EvaluateAll(ctx context.Context, trades []models.Trade) []models.Verdict {
	verdicts := make([]models.Verdict, 0, len(trades))
	for _, trade := range trades {
		verdicts = append(verdicts, a.Evaluate(ctx, trade))
	}
	return verdicts
}

// laterClose returns the first available close on or after target, searching
// a short buffer window to skip weekends and holidays.
func (a *Analyzer) laterClose(ctx context.Context, ticker string, target time.Time) (float64, bool) {
	end := target.AddDate(0, 0, a.params.BufferDays)

	history, err := a.source.Fetch(ctx, []string{ticker}, target, end)
	if err != nil {
		a.logger.Warn().
			Str("ticker", ticker).
			Str("target", utils.FormatDate(target)).
			Err(err).
			Msg("Exit evaluation fetch failed")
		return 0, false
	}

	series := marketdata.NewSeries(history[ticker])
	bar, ok := series.First()
	if !ok {
		return 0, false
	}
	return bar.EffectiveClose(), true
}

func (a *Analyzer) classify(percentMissed float64) models.ExitClassification {
	switch {
	case percentMissed > a.params.PrematurePercent:
		return models.ExitPremature
	case percentMissed < a.params.WellTimedPercent:
		return models.ExitWellTimed
	default:
		return models.ExitNeutral
	}
}
