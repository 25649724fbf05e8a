package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: InfoLevel, Output: &buf})

	log.Debug("hidden")
	log.Info("segment analyzed", "segment", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "segment analyzed")
	assert.Contains(t, out, "segment=2")
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: DebugLevel, Output: &buf, JSON: true}).With("run", "abc")

	log.Debug("hello", "n", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "abc", entry["run"])
	assert.Equal(t, "debug", entry["level"])
}

func TestLevel_Parsing(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: Level("WARN"), Output: &buf})

	log.Info("skipped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().With("k", "v").Error("nothing")
	})
}
