package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.WithFields(map[string]any{
		"session_id": "abc",
		"items":      3,
	}).Info("Cart saved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Cart saved", entry["message"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, float64(3), entry["items"])
}

func TestLogger_ErrorCarriesErr(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Error("Save failed", errors.New("connection refused"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "connection refused", entry["error"])
}

func TestLogger_DebugSuppressedInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Debug("noise")

	assert.Empty(t, buf.String())
}
