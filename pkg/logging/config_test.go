package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestNewLoggerFromConfigNilUsesDefaults(t *testing.T) {
	logger := NewLoggerFromConfig(nil)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLoggerFromConfigLevel(t *testing.T) {
	logger := NewLoggerFromConfig(&Config{Level: "warn", Format: "json", Output: "discard"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdm.log")
	logger := NewLoggerFromConfig(&Config{Level: "info", Format: "json", Output: path})

	logger.Info().Str("event", "test").Msg("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"test"`)
}

func TestAutoFormatFallsBackToJSON(t *testing.T) {
	// A file writer is never a terminal, so "auto" must mean JSON there.
	path := filepath.Join(t.TempDir(), "mdm.log")
	logger := NewLoggerFromConfig(&Config{Level: "info", Format: "auto", Output: path})

	logger.Info().Msg("structured")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON output, got %q", line)
}

func TestSetDefault(t *testing.T) {
	previous := defaultLogger
	defer SetDefault(previous)

	logger := NewLoggerFromConfig(&Config{Level: "error", Format: "json", Output: "discard"})
	SetDefault(logger)

	assert.Equal(t, zerolog.ErrorLevel, Default().GetLevel())
}
