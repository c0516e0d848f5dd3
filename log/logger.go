// Package log constructs the structured loggers used across the backtester.
// Output is JSON to stdout, component tagged, level controlled by the
// APEXBT_LOG_LEVEL environment variable
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New creates a component-tagged logger
func New(component string) zerolog.Logger {
	return NewWithLevel(component, parseLogLevel(os.Getenv("APEXBT_LOG_LEVEL")))
}

// NewWithLevel creates a component-tagged logger with an explicit level
func NewWithLevel(component string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func parseLogLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
