package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procon-emu/procon/internal/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", log.LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, log.ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestSetupLoggerFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "procon.log")
	logger, closers, err := log.SetupLogger("debug", path)
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Debug("flash created", "size", 0x80000)
	logger.Log(context.Background(), log.LevelTrace, "dropped")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "flash created")
	assert.Contains(t, out, "size=524288")
	assert.NotContains(t, out, "dropped")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewRaw(&buf)
	l.Log("motion frame", []byte{0x02, 0x10, 0x00, 0x00})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "motion frame (4 bytes)\n"))
	assert.Contains(t, out, "02 10 00 00")

	assert.NotPanics(t, func() { log.NewRaw(nil).Log("x", []byte{1}) })
}
