// Package marketdata provides access to daily time-series data and the
// date-indexed lookups shared by context resolution and outcome analysis.
package marketdata

import (
	"context"
	"sort"
	"time"

	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// Source is the external time-series collaborator. A symbol with no data in
// the range maps to an empty slice, not an error; errors are reserved for
// transport and provider-level failures.
type Source interface {
	Fetch(ctx context.Context, symbols []string, start, end time.Time) (map[string][]models.Bar, error)
}

// Series is a date-sorted run of daily bars for one symbol.
type Series struct {
	bars []models.Bar
}

// NewSeries builds a Series, sorting bars by date.
func NewSeries(bars []models.Bar) Series {
	sorted := make([]models.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return Series{bars: sorted}
}

// Len returns the number of bars.
func (s Series) Len() int {
	return len(s.bars)
}

// Empty reports whether the series holds no bars.
func (s Series) Empty() bool {
	return len(s.bars) == 0
}

// Bars returns the underlying date-sorted bars.
func (s Series) Bars() []models.Bar {
	return s.bars
}

// First returns the earliest bar.
func (s Series) First() (models.Bar, bool) {
	if len(s.bars) == 0 {
		return models.Bar{}, false
	}
	return s.bars[0], true
}

// Last returns the latest bar.
func (s Series) Last() (models.Bar, bool) {
	if len(s.bars) == 0 {
		return models.Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// AsOf returns the latest bar whose date is on or before the given calendar
// date, bridging weekends and holidays. The second return is the bar's index
// in the series; ok is false when the date precedes all available history.
func (s Series) AsOf(date time.Time) (models.Bar, int, bool) {
	d := utils.Midnight(date)
	// First bar strictly after d.
	i := sort.Search(len(s.bars), func(i int) bool {
		return s.bars[i].Date.After(d)
	})
	if i == 0 {
		return models.Bar{}, -1, false
	}
	return s.bars[i-1], i - 1, true
}

// Closes returns every bar's effective close in date order. The adjusted
// close is preferred uniformly across the whole series.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.bars))
	for i, b := range s.bars {
		closes[i] = b.EffectiveClose()
	}
	return closes
}
