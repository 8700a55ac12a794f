package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: zerolog.InfoLevel, Format: "json", Out: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("path", "/tmp/x").Msg("shown")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["message"])
	assert.Equal(t, "/tmp/x", rec["path"])
	assert.Equal(t, "info", rec["level"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: zerolog.WarnLevel, Format: "console", Out: &buf})
	log.Warn().Msg("careful")
	assert.Contains(t, buf.String(), "careful")
}

func TestForFlags(t *testing.T) {
	t.Setenv("PURGEDEV_LOG_LEVEL", "")
	t.Setenv("PURGEDEV_LOG_FORMAT", "")

	assert.Equal(t, zerolog.WarnLevel, ForFlags(false, false).Level)
	assert.Equal(t, zerolog.InfoLevel, ForFlags(false, true).Level)
	assert.Equal(t, zerolog.DebugLevel, ForFlags(true, true).Level)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PURGEDEV_LOG_LEVEL", "TRACE")
	t.Setenv("PURGEDEV_LOG_FORMAT", "json")
	cfg := ApplyEnv(DefaultConfig())
	assert.Equal(t, zerolog.TraceLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	t.Setenv("PURGEDEV_LOG_LEVEL", "loud")
	t.Setenv("PURGEDEV_LOG_FORMAT", "xml")
	cfg = ApplyEnv(DefaultConfig())
	assert.Equal(t, zerolog.WarnLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)
}
