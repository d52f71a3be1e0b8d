// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the journal's canonical date format.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight truncates a time to UTC midnight so calendar-day arithmetic is
// exact regardless of the wall-clock component.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalendarDaysBetween returns the signed number of whole calendar days from
// a to b.
func CalendarDaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

// Round2 rounds to 2 decimal places. Presentation precision; internal
// computation keeps full precision until this point.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
