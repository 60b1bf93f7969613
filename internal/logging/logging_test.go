package logging

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
)

func TestSetup_FanOut(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "bundler.log")
	var term bytes.Buffer

	logger, closeFn, err := Setup(Options{
		FilePath:  logPath,
		FileLevel: slog.LevelInfo,
		Terminal:  &term,
		TermLevel: slog.LevelError,
	})
	require.NoError(t, err)

	logger.Debug("too quiet for both")
	logger.Info("file only")
	logger.Error("everywhere")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	file := string(data)

	assert.NotContains(t, file, "too quiet")
	assert.Contains(t, file, "file only")
	assert.Contains(t, file, "everywhere")

	assert.NotContains(t, term.String(), "file only")
	assert.Contains(t, term.String(), "everywhere")
}

func TestSetup_AppendsToExistingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "bundler.log")
	require.NoError(t, os.WriteFile(logPath, []byte("previous run\n"), 0644))

	logger, closeFn, err := Setup(Options{FilePath: logPath, FileLevel: slog.LevelInfo})
	require.NoError(t, err)
	logger.Info("this run")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "previous run\n"))
	assert.Contains(t, string(data), "this run")
}

func TestSetup_TraceLevelName(t *testing.T) {
	var term bytes.Buffer
	logger, _, err := Setup(Options{Terminal: &term, TermLevel: LevelTrace})
	require.NoError(t, err)

	logger.Log(context.Background(), LevelTrace, "per line")
	assert.Contains(t, term.String(), "level=TRACE")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": slog.LevelDebug,
		"":      slog.LevelInfo,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.Error("dropped")
}
