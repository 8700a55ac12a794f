// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Out        io.Writer
}

// DefaultConfig logs warnings and errors to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.WarnLevel,
		Format:     "console",
		TimeFormat: time.Kitchen,
		Out:        os.Stderr,
	}
}

// New creates a zerolog logger with the given configuration.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ApplyEnv overrides cfg from the environment:
// PURGEDEV_LOG_LEVEL: trace, debug, info, warn, error
// PURGEDEV_LOG_FORMAT: json, console
func ApplyEnv(cfg Config) Config {
	if level := os.Getenv("PURGEDEV_LOG_LEVEL"); level != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && lvl != zerolog.NoLevel {
			cfg.Level = lvl
		}
	}

	switch format := strings.ToLower(os.Getenv("PURGEDEV_LOG_FORMAT")); format {
	case "json", "console":
		cfg.Format = format
	}
	return cfg
}

// ForFlags resolves the level selected by --debug and --verbose, then
// applies environment overrides.
func ForFlags(debug, verbose bool) Config {
	cfg := DefaultConfig()
	switch {
	case debug:
		cfg.Level = zerolog.DebugLevel
	case verbose:
		cfg.Level = zerolog.InfoLevel
	}
	return ApplyEnv(cfg)
}
