package journal

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"md-journal/internal/models"
)

// Property: long and short PnL are mirror images for the same prices.
// Flipping the direction negates both the percent and dollar result.
func TestPropertyPnLDirectionSymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("short PnL is the negated long PnL", prop.ForAll(
		func(entry, exit float64, quantity int) bool {
			longPct, longDollar := PnL(models.DirectionLong, entry, exit, quantity)
			shortPct, shortDollar := PnL(models.DirectionShort, entry, exit, quantity)
			return longPct == -shortPct && longDollar == -shortDollar
		},
		gen.Float64Range(1, 10000),
		gen.Float64Range(1, 10000),
		gen.IntRange(1, 100000),
	))

	properties.TestingRun(t)
}

// Property: the sign of a long trade's PnL matches the price move, and the
// dollar result scales linearly with quantity before rounding.
func TestPropertyPnLSign(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("long PnL sign follows the price move", prop.ForAll(
		func(entry, exit float64, quantity int) bool {
			pct, dollar := PnL(models.DirectionLong, entry, exit, quantity)

			// Moves below rounding resolution legitimately round to zero.
			move := (exit - entry) / entry * 100
			if math.Abs(move) < 0.005 {
				return true
			}
			if exit > entry {
				return pct > 0 && dollar >= 0
			}
			return pct < 0 && dollar <= 0
		},
		gen.Float64Range(1, 10000),
		gen.Float64Range(1, 10000),
		gen.IntRange(1, 100000),
	))

	properties.TestingRun(t)
}
