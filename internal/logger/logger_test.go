package logger_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/notes/internal/config"
	"github.com/alkime/notes/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name      string
		cfg       config.Config
		wantDebug bool
	}{
		{name: "production info", cfg: config.Config{Env: "production", LogLevel: "info"}, wantDebug: false},
		{name: "development", cfg: config.Config{Env: "development", LogLevel: "info"}, wantDebug: true},
		{name: "explicit debug", cfg: config.Config{Env: "production", LogLevel: "debug"}, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg := logger.SetupLogger(&tt.cfg)

			assert.Equal(t, tt.wantDebug, lg.Enabled(t.Context(), slog.LevelDebug))
			assert.Same(t, lg, slog.Default())
		})
	}
}

func TestSetupFileLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "notes.log")

	lg, f, err := logger.SetupFileLogger(path, false)
	require.NoError(t, err)

	lg.Debug("hidden")
	lg.Info("note saved", "length", 8)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `msg="note saved" length=8`)
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupFileLoggerBadPath(t *testing.T) {
	_, _, err := logger.SetupFileLogger(filepath.Join(t.TempDir(), "missing", "notes.log"), true)
	require.Error(t, err)
}
