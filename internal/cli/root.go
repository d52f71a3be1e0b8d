package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"md-journal/internal/analysis"
	"md-journal/internal/config"
	"md-journal/internal/journal"
	"md-journal/internal/logging"
	"md-journal/internal/marketdata"
	"md-journal/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-09-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Source   marketdata.Source
	Store    store.TradeStore
	Resolver *analysis.Resolver
	Analyzer *analysis.Analyzer
	Journal  *journal.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Source = marketdata.NewClient(marketdata.ClientConfig{
		BaseURL: cfg.Market.BaseURL,
		Timeout: time.Duration(cfg.Market.TimeoutSeconds) * time.Second,
	}, logger)

	tradeStore, err := store.Open(cfg.Storage, cfg.Journal.User, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, journal commands will be unavailable")
	} else {
		app.Store = tradeStore
	}

	app.Resolver = analysis.NewResolver(app.Source, cfg.Market, cfg.Analysis, logger)
	app.Analyzer = analysis.NewAnalyzer(app.Source, cfg.Analysis, logger)
	if app.Store != nil {
		app.Journal = journal.NewService(app.Store, app.Resolver, app.Source, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "mdjournal",
		Short: "Trading journal with market-context enrichment",
		Long: `mdjournal is a personal trading journal for the command line.

Each logged trade is enriched with the market context of its entry day:
trend regime, volatility level, and the long-term rate. The journal keeps
an append-only record per user and renders a dashboard plus a
retrospective exit-timing analysis.

Use 'mdjournal help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/mdjournal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newLogCmd(app))
	rootCmd.AddCommand(newDashboardCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newContextCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("mdjournal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Journal")
	output.Printf("  User:            %s\n", cfg.Journal.User)
	output.Printf("  Backend:         %s\n", cfg.Storage.Backend)
	output.Printf("  Directory:       %s\n", cfg.Storage.Dir)
	output.Println()

	output.Bold("Market Data")
	output.Printf("  Base URL:        %s\n", cfg.Market.BaseURL)
	output.Printf("  Timeout:         %ds\n", cfg.Market.TimeoutSeconds)
	output.Printf("  Index Symbol:    %s\n", cfg.Market.IndexSymbol)
	output.Printf("  Vol Symbol:      %s\n", cfg.Market.VolSymbol)
	output.Printf("  Rate Symbol:     %s\n", cfg.Market.RateSymbol)
	output.Println()

	output.Bold("Analysis")
	output.Printf("  SMA Period:      %d\n", cfg.Analysis.SMAPeriod)
	output.Printf("  Lookback Days:   %d\n", cfg.Analysis.LookbackDays)
	output.Printf("  Staleness Days:  %d\n", cfg.Analysis.StalenessDays)
	output.Printf("  Forward Offset:  %d days\n", cfg.Analysis.ForwardOffsetDays)
	output.Printf("  Buffer Days:     %d\n", cfg.Analysis.BufferDays)
	output.Printf("  Premature At:    > %+.1f%%\n", cfg.Analysis.PrematurePercent)
	output.Printf("  Well-Timed At:   < %+.1f%%\n", cfg.Analysis.WellTimedPercent)
}
