// SPDX-License-Identifier: GPL-3.0-only
package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		levelStr string
		expected slog.Level
	}{
		{"TRACE", LevelTrace},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"UNKNOWN", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.levelStr), tt.levelStr)
	}
}

func TestConfigureMyLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admintail.log")

	logger, closer, err := ConfigureMyLogger(&MyLoggerOptions{Path: path, Level: "DEBUG"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	logger.Debug("feed opened", "cursor", 42)
	logger.Log(context.Background(), LevelTrace, "not written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "feed opened")
	assert.Contains(t, string(data), "cursor=42")
	assert.NotContains(t, string(data), "not written")
}

func TestConfigureMyLogger_BadPath(t *testing.T) {
	_, _, err := ConfigureMyLogger(&MyLoggerOptions{Path: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)

	logger.Log(context.Background(), LevelTrace, "event received")

	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "event received")
}
