package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"md-journal/internal/analysis"
	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

func newDashboardCmd(app *App) *cobra.Command {
	var showOpen bool

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show the journal dashboard",
		Long:    "Display the trade list, win rate, equity curve, and per-regime breakdown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Journal store is not available")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			trades, err := app.Journal.Trades(ctx)
			if err != nil {
				output.Error("Failed to read journal: %v", err)
				return err
			}

			summary := analysis.Summarize(trades)
			curve := analysis.EquityCurve(trades)
			regimes := analysis.ByRegime(trades)

			if output.IsJSON() {
				payload := map[string]interface{}{
					"summary":      summary,
					"equity_curve": curve,
					"by_regime":    regimes,
					"trades":       trades,
				}
				if showOpen {
					payload["open_positions"] = app.Journal.MarkToMarket(ctx, trades)
				}
				return output.JSON(payload)
			}

			if len(trades) == 0 {
				output.Info("Journal is empty.")
				output.Dim("Tip: log your first trade with 'mdjournal log'.")
				return nil
			}

			renderTrades(output, trades)
			renderSummary(output, summary)
			renderEquityCurve(output, curve)
			renderRegimes(output, regimes)

			if showOpen {
				renderOpenPositions(ctx, output, app, trades)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showOpen, "open", false, "price open positions against the latest close")
	return cmd
}

func renderTrades(output *Output, trades []models.Trade) {
	output.Bold("Trades")
	table := NewTable(output, "ID", "Ticker", "Dir", "Qty", "Entry", "Exit", "P&L", "P&L %", "Regime")
	for _, t := range trades {
		exit := "open"
		pnl := "-"
		pnlPct := "-"
		if t.Closed() {
			exit = utils.FormatDate(t.ExitDate)
			pnl = output.FormatPnL(t.PnLDollar)
			pnlPct = output.FormatPercent(t.PnLPercent)
		}
		table.AddRow(
			t.ID,
			t.Ticker,
			string(t.Direction),
			fmt.Sprintf("%d", t.Quantity),
			utils.FormatUSD(t.EntryPrice),
			exit,
			pnl,
			pnlPct,
			output.RegimeString(string(t.Context.TrendRegime)),
		)
	}
	table.Render()
	output.Println()
}

func renderSummary(output *Output, s analysis.Summary) {
	output.Bold("Summary")
	output.Printf("  Total Trades:  %d (%d open)\n", s.TotalTrades, s.OpenTrades)
	output.Printf("  Wins/Losses:   %d/%d (%.2f%% win rate)\n", s.Wins, s.Losses, s.WinRate)
	output.Printf("  Avg Return:    %s\n", output.FormatPercent(s.AvgReturn))
	output.Printf("  Total P&L:     %s\n", output.FormatPnL(s.TotalPnL))
	output.Printf("  Gross Win:     %s\n", utils.FormatUSD(s.GrossWin))
	output.Printf("  Gross Loss:    %s\n", utils.FormatUSD(s.GrossLoss))
	if s.BestTradeID != "" {
		output.Printf("  Best/Worst:    %s / %s\n", s.BestTradeID, s.WorstTradeID)
	}
	output.Println()
}

func renderEquityCurve(output *Output, curve []analysis.EquityPoint) {
	if len(curve) == 0 {
		return
	}
	output.Bold("Equity Curve (cumulative %%)")
	table := NewTable(output, "Trade", "Cumulative")
	for _, p := range curve {
		table.AddRow(p.TradeID, output.FormatPercent(p.Cumulative))
	}
	table.Render()
	output.Println()
}

func renderRegimes(output *Output, regimes []analysis.RegimeStats) {
	if len(regimes) == 0 {
		return
	}
	output.Bold("By Regime")
	table := NewTable(output, "Regime", "Trades", "Win Rate", "Avg Return")
	for _, r := range regimes {
		table.AddRow(
			output.RegimeString(string(r.Regime)),
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%.2f%%", r.WinRate),
			output.FormatPercent(r.AvgReturn),
		)
	}
	table.Render()
	output.Println()
}

func renderOpenPositions(ctx context.Context, output *Output, app *App, trades []models.Trade) {
	positions := app.Journal.MarkToMarket(ctx, trades)
	if len(positions) == 0 {
		return
	}
	output.Bold("Open Positions")
	table := NewTable(output, "ID", "Ticker", "Entry", "Last", "Unrealized", "Unrealized %")
	for _, p := range positions {
		last := "-"
		unreal := "-"
		unrealPct := "-"
		if p.Priced {
			last = utils.FormatUSD(p.LastPrice)
			unreal = output.FormatPnL(p.UnrealizedDollar)
			unrealPct = output.FormatPercent(p.UnrealizedPercent)
		}
		table.AddRow(p.Trade.ID, p.Trade.Ticker, utils.FormatUSD(p.Trade.EntryPrice), last, unreal, unrealPct)
	}
	table.Render()
	output.Println()
}
