package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_TagsServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter("payment", &buf, slog.LevelInfo)

	log.Info("checkout session created", slog.String("session_id", "cs_test_1"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "payment", record["service"])
	assert.Equal(t, "cs_test_1", record["session_id"])
	assert.Equal(t, "INFO", record["level"])
}

func TestNewLoggerWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter("payment", &buf, slog.LevelWarn)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, getLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, getLogLevel("warn"))
	assert.Equal(t, slog.LevelError, getLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, getLogLevel(""))
	assert.Equal(t, slog.LevelInfo, getLogLevel("verbose"))
}
