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

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Retrospective exit-timing analysis",
		Long: `Evaluate every closed trade against the price a fixed number of days
after its exit: did you sell too early, dodge a decline, or roughly
time it right. Verdicts are recomputed from current data on every run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Journal store is not available")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()

			trades, err := app.Journal.Trades(ctx)
			if err != nil {
				output.Error("Failed to read journal: %v", err)
				return err
			}
			if len(trades) == 0 {
				output.Info("Journal is empty; nothing to analyze.")
				return nil
			}

			verdicts := app.Analyzer.EvaluateAll(ctx, trades)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"forward_offset_days": app.Config.Analysis.ForwardOffsetDays,
					"verdicts":            verdicts,
				})
			}

			output.Bold("Exit Timing (price %d days after exit)", app.Config.Analysis.ForwardOffsetDays)
			table := NewTable(output, "Trade", "Status", "Missed %", "Verdict")
			var premature, wellTimed, neutral int
			for _, v := range verdicts {
				missed := "-"
				verdict := noteOrDash(v)
				switch v.Status {
				case models.VerdictEvaluated:
					missed = output.FormatPercent(v.PercentMissed)
					verdict = classificationString(output, v.Classification)
					switch v.Classification {
					case models.ExitPremature:
						premature++
					case models.ExitWellTimed:
						wellTimed++
					default:
						neutral++
					}
				}
				table.AddRow(v.TradeID, string(v.Status), missed, verdict)
			}
			table.Render()
			output.Println()

			if premature+wellTimed+neutral > 0 {
				output.Bold("Verdict Counts")
				output.Printf("  Premature:  %d\n", premature)
				output.Printf("  Well-Timed: %d\n", wellTimed)
				output.Printf("  Neutral:    %d\n", neutral)
			}
			return nil
		},
	}
	return cmd
}

func noteOrDash(v models.Verdict) string {
	if v.Note != "" {
		return v.Note
	}
	return "-"
}

func classificationString(output *Output, c models.ExitClassification) string {
	switch c {
	case models.ExitPremature:
		return output.ColoredString(ColorYellow, "missed gains")
	case models.ExitWellTimed:
		return output.ColoredString(ColorGreen, "dodged a decline")
	default:
		return output.ColoredString(ColorDim, "flat")
	}
}

func newContextCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show the market context for a date",
		Long: `Resolve the market context snapshot for a calendar date: trend regime,
volatility level, and the long-term rate, using the most recent trading
day at or before the date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			when := time.Now()
			if date != "" {
				var err error
				when, err = utils.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}

			snapshot := app.Resolver.Resolve(ctx, when)

			if output.IsJSON() {
				return output.JSON(snapshot)
			}

			output.Bold("Market Context - %s", utils.FormatDate(when))
			if snapshot.Unknown() {
				output.Warning("No usable market data near this date.")
				return nil
			}

			output.Printf("  As Of:      %s\n", utils.FormatDate(snapshot.AsOfDate))
			output.Printf("  Regime:     %s\n", output.RegimeString(string(snapshot.TrendRegime)))
			output.Printf("  Index:      %.2f\n", snapshot.ReferencePrice)
			if snapshot.VolatilityLevel > 0 {
				output.Printf("  Volatility: %.2f (%s)\n", snapshot.VolatilityLevel, volBandString(snapshot.VolatilityLevel))
			}
			if snapshot.RateLevel > 0 {
				output.Printf("  10Y Rate:   %.2f%%\n", snapshot.RateLevel)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default: today)")
	return cmd
}

func volBandString(level float64) string {
	return string(analysis.VolBand(level))
}
