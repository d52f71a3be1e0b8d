// Package journal builds and records trade entries.
package journal

import (
	"strings"
	"time"

	apperrors "md-journal/internal/errors"
	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// Entry carries the user-supplied fields of a trade before enrichment.
// ExitDate and ExitPrice stay at their zero values for an open position.
type Entry struct {
	EntryDate  time.Time
	ExitDate   time.Time
	Ticker     string
	Direction  models.Direction
	Quantity   int
	EntryPrice float64
	ExitPrice  float64
	Notes      string
}

// New validates an entry and builds the trade record, deriving the ID and
// computing PnL for closed positions. The market context is attached later
// by the logging service.
func New(e Entry) (models.Trade, error) {
	if err := validate(e); err != nil {
		return models.Trade{}, err
	}

	ticker := strings.ToUpper(strings.TrimSpace(e.Ticker))
	trade := models.Trade{
		ID:         TradeID(e.EntryDate, ticker, e.Direction),
		EntryDate:  utils.Midnight(e.EntryDate),
		Ticker:     ticker,
		Direction:  e.Direction,
		Quantity:   e.Quantity,
		EntryPrice: e.EntryPrice,
		ExitPrice:  e.ExitPrice,
		Notes:      strings.TrimSpace(e.Notes),
	}
	if !e.ExitDate.IsZero() {
		trade.ExitDate = utils.Midnight(e.ExitDate)
	}

	if trade.Closed() {
		trade.PnLPercent, trade.PnLDollar = PnL(trade.Direction, trade.EntryPrice, trade.ExitPrice, trade.Quantity)
	}
	return trade, nil
}

// TradeID derives the weak identity YYYYMMDD_TICKER_DIRECTION. Two entries
// for the same ticker and direction on the same day collide; that is an
// accepted property of the scheme.
func TradeID(entryDate time.Time, ticker string, direction models.Direction) string {
	return entryDate.Format("20060102") + "_" + ticker + "_" + string(direction)
}

// PnL computes the realized return of a closed position. Percent is in
// percent points (10.0 means +10%), both values rounded to 2 decimals.
func PnL(direction models.Direction, entryPrice, exitPrice float64, quantity int) (percent, dollar float64) {
	perShare := exitPrice - entryPrice
	if direction == models.DirectionShort {
		perShare = entryPrice - exitPrice
	}
	percent = utils.Round2(perShare / entryPrice * 100)
	dollar = utils.Round2(perShare * float64(quantity))
	return percent, dollar
}

func validate(e Entry) error {
	if strings.TrimSpace(e.Ticker) == "" {
		return apperrors.NewValidationError("ticker", e.Ticker, "must not be empty")
	}
	if e.Direction != models.DirectionLong && e.Direction != models.DirectionShort {
		return apperrors.NewValidationError("direction", e.Direction, "must be LONG or SHORT")
	}
	if e.Quantity <= 0 {
		return apperrors.NewValidationError("quantity", e.Quantity, "must be positive")
	}
	if e.EntryPrice <= 0 {
		return apperrors.NewValidationError("entry_price", e.EntryPrice, "must be positive")
	}
	if e.ExitPrice < 0 {
		return apperrors.NewValidationError("exit_price", e.ExitPrice, "must not be negative")
	}
	if e.EntryDate.IsZero() {
		return apperrors.NewValidationError("entry_date", e.EntryDate, "must be set")
	}

	hasExitDate := !e.ExitDate.IsZero()
	hasExitPrice := e.ExitPrice > 0
	if hasExitDate != hasExitPrice {
		return apperrors.NewValidationError("exit", e.ExitPrice, "exit date and exit price must be set together")
	}
	if hasExitDate && e.ExitDate.Before(e.EntryDate) {
		return apperrors.NewValidationError("exit_date", e.ExitDate, "must not precede entry date")
	}
	return nil
}
