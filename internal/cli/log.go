package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"md-journal/internal/journal"
	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

func newLogCmd(app *App) *cobra.Command {
	var (
		ticker     string
		direction  string
		entryDate  string
		exitDate   string
		entryPrice float64
		exitPrice  float64
		quantity   int
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a trade",
		Long: `Record a trade in the journal.

The entry day's market context (trend regime, volatility, rate level) is
captured automatically. Leave --exit-date and --exit-price unset for a
position that is still open.`,
		Example: `  mdjournal log --ticker AAPL --direction long --quantity 10 --entry-price 180.50
  mdjournal log --ticker TSLA --direction short --quantity 5 \
      --entry-date 2026-08-01 --entry-price 250 --exit-date 2026-08-20 --exit-price 230`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Journal store is not available")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			entry := journal.Entry{
				Ticker:     ticker,
				Direction:  models.Direction(strings.ToUpper(direction)),
				Quantity:   quantity,
				EntryPrice: entryPrice,
				ExitPrice:  exitPrice,
				Notes:      notes,
			}

			var err error
			entry.EntryDate = time.Now()
			if entryDate != "" {
				entry.EntryDate, err = utils.ParseDate(entryDate)
				if err != nil {
					return fmt.Errorf("invalid --entry-date: %w", err)
				}
			}
			if exitDate != "" {
				entry.ExitDate, err = utils.ParseDate(exitDate)
				if err != nil {
					return fmt.Errorf("invalid --exit-date: %w", err)
				}
			}

			trade, err := app.Journal.Log(ctx, entry)
			if err != nil {
				output.Error("Failed to log trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Success("Logged %s", trade.ID)
			output.Printf("  Ticker:     %s (%s)\n", trade.Ticker, trade.Direction)
			output.Printf("  Entry:      %s @ %s x%d\n",
				utils.FormatDate(trade.EntryDate), utils.FormatUSD(trade.EntryPrice), trade.Quantity)
			if trade.Closed() {
				output.Printf("  Exit:       %s @ %s\n",
					utils.FormatDate(trade.ExitDate), utils.FormatUSD(trade.ExitPrice))
				output.Printf("  P&L:        %s (%s)\n",
					output.FormatPnL(trade.PnLDollar), output.FormatPercent(trade.PnLPercent))
			} else {
				output.Printf("  Exit:       still open\n")
			}

			output.Printf("  Regime:     %s", output.RegimeString(string(trade.Context.TrendRegime)))
			if !trade.Context.Unknown() {
				output.Printf(" (as of %s)", utils.FormatDate(trade.Context.AsOfDate))
			}
			output.Println()
			if trade.Context.VolatilityLevel > 0 {
				output.Printf("  Volatility: %.2f\n", trade.Context.VolatilityLevel)
			}
			if trade.Context.RateLevel > 0 {
				output.Printf("  10Y Rate:   %.2f%%\n", trade.Context.RateLevel)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&ticker, "ticker", "t", "", "ticker symbol (required)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "long", "trade direction: long or short")
	cmd.Flags().StringVar(&entryDate, "entry-date", "", "entry date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&exitDate, "exit-date", "", "exit date YYYY-MM-DD (omit while open)")
	cmd.Flags().Float64Var(&entryPrice, "entry-price", 0, "entry price per share (required)")
	cmd.Flags().Float64Var(&exitPrice, "exit-price", 0, "exit price per share (omit while open)")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "share count (required)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-text notes")
	cmd.MarkFlagRequired("ticker")
	cmd.MarkFlagRequired("entry-price")
	cmd.MarkFlagRequired("quantity")

	return cmd
}
