package models

import "time"

// Trade represents one logged position. Records are append-only: corrections
// are logged as new entries, never edited in place.
type Trade struct {
	ID         string
	EntryDate  time.Time
	ExitDate   time.Time // zero value means the position is still open
	Ticker     string
	Direction  Direction
	Quantity   int
	EntryPrice float64
	ExitPrice  float64 // 0 is the open sentinel, not a free exit
	PnLPercent float64 // already-multiplied percent points (10.0 == +10%)
	PnLDollar  float64
	Context    ContextSnapshot
	Notes      string
}

// Closed reports whether the trade has a real exit. PnL fields are
// meaningful only for closed trades.
func (t Trade) Closed() bool {
	return t.ExitPrice > 0 && !t.ExitDate.IsZero()
}

// Win reports whether a closed trade ended profitable.
func (t Trade) Win() bool {
	return t.Closed() && t.PnLPercent > 0
}
