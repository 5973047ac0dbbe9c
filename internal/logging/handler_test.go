// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("stamps service and version on every record", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("signplot", "1.2.3", "json", "info", &buf)

		logger.Info("region sold", "region", "plotA")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "signplot", entry["service"])
		assert.Equal(t, "1.2.3", entry["version"])
		assert.Equal(t, "region sold", entry["msg"])
		assert.Equal(t, "plotA", entry["region"])
	})

	t.Run("text format produces non-JSON output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("signplot", "dev", "text", "info", &buf)

		logger.Info("hello")

		var entry map[string]any
		assert.Error(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Contains(t, buf.String(), "service=signplot")
	})

	t.Run("defaults to json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("signplot", "dev", "", "info", &buf)

		logger.Info("hello")

		var entry map[string]any
		assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	})

	t.Run("level gates records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("signplot", "dev", "json", "warn", &buf)

		logger.Info("quiet")
		assert.Zero(t, buf.Len())

		logger.Warn("loud")
		assert.NotZero(t, buf.Len())
	})

	t.Run("no trace attrs without span context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("signplot", "dev", "json", "info", &buf)

		logger.Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.NotContains(t, entry, "trace_id")
		assert.NotContains(t, entry, "span_id")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.name), "level %q", tt.name)
	}
}
