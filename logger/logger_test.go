package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev); global = nil })

	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, Init(level, &bytes.Buffer{}))
			assert.NotNil(t, Get())
		})
	}
}

func TestInitInvalidLevel(t *testing.T) {
	err := Init("verbose", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level: verbose")
}

func TestInitFiltersBelowLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev); global = nil })

	var buf bytes.Buffer
	require.NoError(t, Init("warn", &buf))
	Get().Info("hidden")
	Get().Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown key=value")
}
