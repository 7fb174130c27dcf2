package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSON(t *testing.T) {
	var out bytes.Buffer

	logger := New(&out, "warn", "json")
	logger.Info("dropped")
	logger.Warn("kept", "module", "test")

	var record map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "test", record["module"])
}

func TestNew_Text(t *testing.T) {
	var out bytes.Buffer

	New(&out, "", "").Info("hello", "k", "v")

	assert.Contains(t, out.String(), "msg=hello")
	assert.Contains(t, out.String(), "k=v")
}
