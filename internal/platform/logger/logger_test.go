package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/grammar-api/internal/config"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, &buf)
	l.Info("hidden")
	l.Warn("shown", "theme_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.EqualValues(t, 7, entry["theme_id"])
	assert.Same(t, l, slog.Default())
}

func TestSetupWithWriter_InvalidLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	logger.SetupWithWriter(config.ServerConfig{LogLevel: "loud"}, &buf)
	assert.Contains(t, buf.String(), "invalid log level configured")
	assert.Contains(t, buf.String(), `"configured_level":"loud"`)
}

func TestContextLogger(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))

	ctx, buf := logger.NewLogCaptureContext(t)
	logger.FromContext(ctx).Info("from context", "user_id", 3)
	logger.AssertLogContains(t, buf, "from context")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 3, entries[0]["user_id"])
}

func TestRequestID(t *testing.T) {
	ctx := logger.WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", logger.RequestID(ctx))
	assert.Empty(t, logger.RequestID(context.Background()))
}
