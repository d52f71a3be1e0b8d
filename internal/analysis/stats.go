package analysis

import (
	"sort"

	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// Summary aggregates the closed portion of a journal for the dashboard.
// All percent fields are percent points rounded to 2 decimal places.
type Summary struct {
	TotalTrades  int
	OpenTrades   int
	ClosedTrades int
	Wins         int
	Losses       int
	WinRate      float64 // percent of closed trades that won
	AvgReturn    float64 // mean PnLPercent over closed trades
	TotalPnL     float64 // sum of PnLDollar over closed trades
	GrossWin     float64 // sum of positive PnLDollar
	GrossLoss    float64 // sum of negative PnLDollar, reported positive
	BestTradeID  string
	WorstTradeID string
}

// EquityPoint is one step of the cumulative-return curve, in entry order.
type EquityPoint struct {
	TradeID    string
	Cumulative float64 // running sum of PnLPercent
}

// RegimeStats is the per-regime slice of the dashboard breakdown.
type RegimeStats struct {
	Regime    models.Regime
	Trades    int
	Wins      int
	WinRate   float64
	AvgReturn float64
}

// Summarize computes the dashboard summary over the full trade list. Open
// trades are counted but contribute nothing to PnL aggregates.
func Summarize(trades []models.Trade) Summary {
	s := Summary{TotalTrades: len(trades)}

	var sumPercent, best, worst float64
	for _, t := range trades {
		if !t.Closed() {
			s.OpenTrades++
			continue
		}
		s.ClosedTrades++
		sumPercent += t.PnLPercent
		s.TotalPnL += t.PnLDollar

		if t.Win() {
			s.Wins++
			s.GrossWin += t.PnLDollar
		} else {
			s.Losses++
			s.GrossLoss -= t.PnLDollar
		}

		if s.BestTradeID == "" || t.PnLPercent > best {
			best = t.PnLPercent
			s.BestTradeID = t.ID
		}
		if s.WorstTradeID == "" || t.PnLPercent < worst {
			worst = t.PnLPercent
			s.WorstTradeID = t.ID
		}
	}

	if s.ClosedTrades > 0 {
		s.WinRate = utils.Round2(float64(s.Wins) / float64(s.ClosedTrades) * 100)
		s.AvgReturn = utils.Round2(sumPercent / float64(s.ClosedTrades))
	}
	s.TotalPnL = utils.Round2(s.TotalPnL)
	s.GrossWin = utils.Round2(s.GrossWin)
	s.GrossLoss = utils.Round2(s.GrossLoss)
	return s
}

// EquityCurve returns the cumulative percent-return curve over closed
// trades, ordered by entry date.
func EquityCurve(trades []models.Trade) []EquityPoint {
	closed := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Closed() {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].EntryDate.Before(closed[j].EntryDate)
	})

	curve := make([]EquityPoint, 0, len(closed))
	var running float64
	for _, t := range closed {
		running += t.PnLPercent
		curve = append(curve, EquityPoint{
			TradeID:    t.ID,
			Cumulative: utils.Round2(running),
		})
	}
	return curve
}

// ByRegime breaks closed-trade performance down by the market regime
// captured at entry. Order is Bullish, Bearish, Unknown; regimes with no
// trades are omitted.
func ByRegime(trades []models.Trade) []RegimeStats {
	buckets := map[models.Regime]*RegimeStats{}

	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		regime := t.Context.TrendRegime
		if regime == "" {
			regime = models.RegimeUnknown
		}
		bucket, ok := buckets[regime]
		if !ok {
			bucket = &RegimeStats{Regime: regime}
			buckets[regime] = bucket
		}
		bucket.Trades++
		if t.Win() {
			bucket.Wins++
		}
		bucket.AvgReturn += t.PnLPercent
	}

	var out []RegimeStats
	for _, regime := range []models.Regime{models.RegimeBullish, models.RegimeBearish, models.RegimeUnknown} {
		bucket, ok := buckets[regime]
		if !ok {
			continue
		}
		bucket.WinRate = utils.Round2(float64(bucket.Wins) / float64(bucket.Trades) * 100)
		bucket.AvgReturn = utils.Round2(bucket.AvgReturn / float64(bucket.Trades))
		out = append(out, *bucket)
	}
	return out
}

// VolBand maps a volatility index level to its display band.
func VolBand(level float64) models.VolatilityBand {
	switch {
	case level <= 0:
		return ""
	case level < 15:
		return models.VolLow
	case level < 20:
		return models.VolNormal
	case level < 25:
		return models.VolElevated
	case level < 30:
		return models.VolHigh
	default:
		return models.VolExtreme
	}
}
