package models

import (
	"testing"
	"time"
)

func TestTradeClosed(t *testing.T) {
	exit := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	closed := Trade{ExitDate: exit, ExitPrice: 110}
	if !closed.Closed() {
		t.Error("trade with exit date and price should be closed")
	}

	// Either sentinel alone keeps the trade open.
	if (Trade{ExitPrice: 110}).Closed() {
		t.Error("zero exit date must mean open")
	}
	if (Trade{ExitDate: exit}).Closed() {
		t.Error("zero exit price must mean open")
	}
}

func TestTradeWin(t *testing.T) {
	exit := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	if !(Trade{ExitDate: exit, ExitPrice: 110, PnLPercent: 10}).Win() {
		t.Error("positive closed trade should win")
	}
	if (Trade{ExitDate: exit, ExitPrice: 95, PnLPercent: -5}).Win() {
		t.Error("negative closed trade should not win")
	}
	if (Trade{PnLPercent: 10}).Win() {
		t.Error("open trade is never a win")
	}
}

func TestBarEffectiveClose(t *testing.T) {
	if got := (Bar{Close: 100, AdjClose: 98.5}).EffectiveClose(); got != 98.5 {
		t.Errorf("EffectiveClose = %v, want adjusted 98.5", got)
	}
	if got := (Bar{Close: 100}).EffectiveClose(); got != 100 {
		t.Errorf("EffectiveClose = %v, want raw 100", got)
	}
}

func TestContextSnapshotUnknown(t *testing.T) {
	if !(ContextSnapshot{}).Unknown() {
		t.Error("zero snapshot should be Unknown")
	}
	if !(ContextSnapshot{TrendRegime: RegimeUnknown}).Unknown() {
		t.Error("Unknown regime should report Unknown")
	}
	if (ContextSnapshot{TrendRegime: RegimeBullish}).Unknown() {
		t.Error("Bullish snapshot should not report Unknown")
	}
}
