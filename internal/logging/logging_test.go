package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("warn", &buf)

	logger.Info("snapshot loaded", "events", 3)
	require.Empty(t, buf.String())

	logger.Warn("rows skipped", "count", 2)
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), `msg="rows skipped"`)
	require.Contains(t, buf.String(), "count=2")
}
