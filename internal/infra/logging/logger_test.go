package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_Info(t *testing.T) {
	// Setup
	appDir := t.TempDir()
	path := domain.LogPath(appDir)
	logger := New(path, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Info("3f9c2a1b-77e0-4d0f-9d7e-1a2b3c4d5e6f", "complete", "test message")

	// Assert
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[task-3f9c2a1b]")
	assert.Contains(t, string(content), "[complete]")
	assert.Contains(t, string(content), "test message")
	assert.NotContains(t, string(content), "77e0")
}

func TestLogger_GlobalEntry(t *testing.T) {
	// Setup
	var buf bytes.Buffer
	now := time.Date(2025, time.December, 30, 9, 32, 51, 0, time.UTC)
	logger := NewWithWriter(&buf, slog.LevelDebug, func() time.Time { return now })

	// Execute
	logger.Debug("", "sync", "fetched 4 tasks")

	// Assert
	assert.Equal(t, "[2025-12-30 09:32:51] [DEBUG] [global] [sync] fetched 4 tasks\n", buf.String())
}

func TestLogger_LevelFiltering(t *testing.T) {
	// Setup
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelWarn, time.Now)

	// Execute
	logger.Debug("", "test", "debug message")
	logger.Info("", "test", "info message")
	logger.Warn("", "test", "warn message")
	logger.Error("", "test", "error message")

	// Assert
	content := buf.String()
	assert.NotContains(t, content, "debug message")
	assert.NotContains(t, content, "info message")
	assert.Contains(t, content, "warn message")
	assert.Contains(t, content, "error message")
	assert.Equal(t, 2, strings.Count(content, "\n"))
}

func TestLogger_Disabled(t *testing.T) {
	// Setup
	logger := New("", slog.LevelDebug)

	// Execute: must not panic or create anything
	logger.Info("x", "test", "ignored")

	// Assert
	assert.NoError(t, logger.Close())
}

func TestLogger_CreatesLogsDirectory(t *testing.T) {
	// Setup
	appDir := filepath.Join(t.TempDir(), "nested")
	path := domain.LogPath(appDir)
	logger := New(path, slog.LevelInfo)

	// Execute
	logger.Error("", "api", "boom")
	require.NoError(t, logger.Close())

	// Assert
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLogger_SlogHandler(t *testing.T) {
	// Setup
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo, time.Now)
	sl := slog.New(logger.SlogHandler())

	// Execute
	sl.Info("request", "method", "GET", "status", 200)
	sl.Debug("hidden")

	// Assert
	assert.Contains(t, buf.String(), "method=GET")
	assert.NotContains(t, buf.String(), "hidden")
}
