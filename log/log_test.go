package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/jsonlink/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    slog.Level
		expectError bool
	}{
		"error level": {
			input:    "error",
			expected: slog.LevelError,
		},
		"warn level": {
			input:    "warn",
			expected: slog.LevelWarn,
		},
		"warning level": {
			input:    "warning",
			expected: slog.LevelWarn,
		},
		"info level": {
			input:    "info",
			expected: slog.LevelInfo,
		},
		"debug level": {
			input:    "debug",
			expected: slog.LevelDebug,
		},
		"case insensitive": {
			input:    "INFO",
			expected: slog.LevelInfo,
		},
		"unknown level": {
			input:       "unknown",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := log.GetLevel(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, lvl)
			}
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    log.Format
		expectError bool
	}{
		"json format": {
			input:    "json",
			expected: log.FormatJSON,
		},
		"text format": {
			input:    "text",
			expected: log.FormatText,
		},
		"case insensitive": {
			input:    "JSON",
			expected: log.FormatJSON,
		},
		"unknown format": {
			input:       "logfmt-ish",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := log.GetFormat(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, f)
			}
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	t.Run("json handler emits json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		h, err := log.NewHandlerFromStrings(&buf, "info", "json")
		require.NoError(t, err)

		slog.New(h).Info("hello", slog.String("k", "v"))

		var entry map[string]any

		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		h, err := log.NewHandlerFromStrings(&buf, "error", "text")
		require.NoError(t, err)

		slog.New(h).Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("bad level", func(t *testing.T) {
		t.Parallel()

		_, err := log.NewHandlerFromStrings(&bytes.Buffer{}, "loud", "json")
		require.ErrorIs(t, err, log.ErrInvalidArgument)
	})
}
