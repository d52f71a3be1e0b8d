package analysis

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"md-journal/internal/models"
)

// Property: regime classification flips exactly at the moving average.
//
// With 199 flat closes at 100 and a final close x, the 200-day average is
// (199*100 + x) / 200, so the final close exceeds the average iff x > 100.
// The regime must be Bullish exactly when x > 100 and Bearish otherwise,
// including at equality.
func TestPropertyRegimeBoundary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	end := day(2026, 8, 28)

	properties.Property("regime is Bullish iff final close exceeds the average", prop.ForAll(
		func(finalClose float64) bool {
			bars := dailyBars(end, 400, func(i int) float64 { return 100 })
			bars[len(bars)-1].Close = finalClose
			source := &fakeSource{bars: map[string][]models.Bar{"SPY": bars}}

			snapshot := newTestResolver(source).Resolve(context.Background(), end)

			if finalClose > 100 {
				return snapshot.TrendRegime == models.RegimeBullish
			}
			return snapshot.TrendRegime == models.RegimeBearish
		},
		gen.Float64Range(50, 150),
	))

	properties.TestingRun(t)
}

// Property: resolution never panics and always yields one of the three
// regimes, whatever the requested date.
func TestPropertyResolveTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	end := day(2026, 8, 28)
	source := &fakeSource{bars: map[string][]models.Bar{
		"SPY": dailyBars(end, 400, func(i int) float64 { return 100 + float64(i) }),
	}}
	resolver := newTestResolver(source)

	properties.Property("every date resolves to a valid regime", prop.ForAll(
		func(offsetDays int) bool {
			snapshot := resolver.Resolve(context.Background(), end.AddDate(0, 0, offsetDays))
			switch snapshot.TrendRegime {
			case models.RegimeBullish, models.RegimeBearish, models.RegimeUnknown:
				return true
			}
			return false
		},
		gen.IntRange(-800, 800),
	))

	properties.TestingRun(t)
}
