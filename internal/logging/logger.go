package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Output     io.Writer
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// Rotated log file limits
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 5
)

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	return zerolog.New(consoleOutput(cfg)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewWithFile creates a logger that also writes JSON lines to a rotated
// walcache.log in dir. The returned closer releases the file.
func NewWithFile(cfg Config, dir string, maxAgeDays int) (zerolog.Logger, io.Closer, error) {
	rotator, err := NewLogRotator(dir, fileMaxSizeMB, fileMaxBackups, maxAgeDays, true)
	if err != nil {
		return New(cfg), nil, err
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(consoleOutput(cfg), rotator)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, rotator, nil
}

func consoleOutput(cfg Config) io.Writer {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format != "console" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: cfg.TimeFormat,
	}
}

// ParseLevel maps a level name to a zerolog level.
// Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewFromConfigValues builds a logger from the raw config strings.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	switch format {
	case "json", "console":
		cfg.Format = format
	case "text":
		cfg.Format = "console"
	}
	return New(cfg)
}
