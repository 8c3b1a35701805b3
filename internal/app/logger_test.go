package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerHonoursConfiguredLevel(t *testing.T) {
	logger := NewLogger(&Config{LogFormat: "json", LogLevel: "warn"})
	ctx := context.Background()

	require.False(t, logger.Enabled(ctx, slog.LevelInfo))
	require.True(t, logger.Enabled(ctx, slog.LevelWarn))
	require.True(t, logger.Enabled(ctx, slog.LevelError))
}

func TestLoggerDefaultsToInfo(t *testing.T) {
	ctx := context.Background()

	for _, logger := range []*slog.Logger{
		NewLogger(nil),
		NewLogger(&Config{LogLevel: "nonsense"}),
	} {
		require.False(t, logger.Enabled(ctx, slog.LevelDebug))
		require.True(t, logger.Enabled(ctx, slog.LevelInfo))
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for raw, want := range cases {
		require.Equal(t, want, parseLogLevel(raw), "level %q", raw)
	}
}
