package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"quiz-seed/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggerConfig{Level: "info", Env: "production"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Named("runner").Info("Committed batch", zap.String("batch", "base"))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Committed batch", entry["msg"])
	assert.Equal(t, "base", entry["batch"])
	assert.Equal(t, "runner", entry["logger"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_DevelopmentIsConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggerConfig{Level: "debug"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	l.Debug("Loaded seed file", zap.String("batch", "base"))

	out := buf.String()
	assert.Contains(t, out, "debug")
	assert.Contains(t, out, "Loaded seed file")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud"}, zapcore.AddSync(&bytes.Buffer{}))
	assert.ErrorContains(t, err, "invalid logger.level")
}

func TestGet_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, Get())
	assert.NotNil(t, Named("seed"))
}
