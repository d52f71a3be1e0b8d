// Package indicators provides the time-series math used by the market
// context resolver.
package indicators

import "errors"

var (
	// ErrInsufficientData means the series is shorter than the requested period.
	ErrInsufficientData = errors.New("insufficient data for period")
	// ErrInvalidPeriod means the period is zero or negative.
	ErrInvalidPeriod = errors.New("period must be positive")
)

// SMA returns the simple moving average of the trailing period values,
// ending at the last element of values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	return Mean(values[len(values)-period:]), nil
}

// SMAAt returns the simple moving average of the period values ending at
// index idx inclusive.
func SMAAt(values []float64, period, idx int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if idx < 0 || idx >= len(values) || idx+1 < period {
		return 0, ErrInsufficientData
	}
	return Mean(values[idx+1-period : idx+1]), nil
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
