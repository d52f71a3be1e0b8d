// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "mdjournal", "logs", "mdjournal.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithTicker adds a ticker symbol to the logger context.
func WithTicker(logger zerolog.Logger, ticker string) zerolog.Logger {
	return logger.With().Str("ticker", ticker).Logger()
}

// LogTradeLogged logs a journal append.
func LogTradeLogged(logger zerolog.Logger, tradeID, ticker string, closed bool, pnlPercent float64) {
	logger.Info().
		Str("event", "trade_logged").
		Str("trade_id", tradeID).
		Str("ticker", ticker).
		Bool("closed", closed).
		Float64("pnl_percent", pnlPercent).
		Msg("Trade logged")
}

// LogContextResolved logs the outcome of a context resolution.
func LogContextResolved(logger zerolog.Logger, requested time.Time, regime string, err error) {
	event := logger.Debug().
		Str("event", "context_resolved").
		Str("requested", requested.Format("2006-01-02")).
		Str("regime", regime)
	if err != nil {
		event.Err(err).Msg("Context downgraded to Unknown")
		return
	}
	event.Msg("Context resolved")
}

// LogFetch logs a time-series fetch.
func LogFetch(logger zerolog.Logger, symbols []string, from, to time.Time, bars int, duration time.Duration, err error) {
	event := logger.Debug().
		Str("event", "fetch").
		Strs("symbols", symbols).
		Str("from", from.Format("2006-01-02")).
		Str("to", to.Format("2006-01-02")).
		Int("bars", bars).
		Dur("duration", duration)
	if err != nil {
		event.Err(err).Msg("Fetch failed")
		return
	}
	event.Msg("Fetch completed")
}
