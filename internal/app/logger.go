package app

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger. Format and minimum level come
// from configuration; source locations are attached only at debug level
// to keep production lines short.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	format := ""
	if cfg != nil {
		level = parseLogLevel(cfg.LogLevel)
		format = cfg.LogFormat
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
