// Package models provides domain models for the trading journal.
package models

import "time"

// Direction represents the side of a position.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Regime classifies whether the broad market trades above or below its
// long-run trend average.
type Regime string

const (
	RegimeBullish Regime = "Bullish"
	RegimeBearish Regime = "Bearish"
	RegimeUnknown Regime = "Unknown"
)

// VolatilityBand is a display-level banding of the volatility index.
type VolatilityBand string

const (
	VolLow      VolatilityBand = "LOW"      // VIX < 15
	VolNormal   VolatilityBand = "NORMAL"   // 15 <= VIX < 20
	VolElevated VolatilityBand = "ELEVATED" // 20 <= VIX < 25
	VolHigh     VolatilityBand = "HIGH"     // 25 <= VIX < 30
	VolExtreme  VolatilityBand = "EXTREME"  // VIX >= 30
)

// Bar represents one daily OHLC bar from the time-series source.
// AdjClose is zero when the provider does not supply an adjusted series.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// EffectiveClose returns the adjusted close when present, else the raw close.
// The same preference applies to every instrument in a window.
func (b Bar) EffectiveClose() float64 {
	if b.AdjClose > 0 {
		return b.AdjClose
	}
	return b.Close
}

// ContextSnapshot is the point-in-time market context captured when a trade
// is logged. Immutable once attached to a Trade. AsOfDate is the trading day
// actually used, which may precede the requested date.
type ContextSnapshot struct {
	AsOfDate        time.Time
	TrendRegime     Regime
	VolatilityLevel float64
	RateLevel       float64
	ReferencePrice  float64
}

// Unknown reports whether the snapshot carries no usable market context.
func (c ContextSnapshot) Unknown() bool {
	return c.TrendRegime == RegimeUnknown || c.TrendRegime == ""
}
