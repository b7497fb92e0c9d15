// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/formpilot-cli/internal/config"
)

// syncBuffer adapts bytes.Buffer to zapcore.WriteSyncer.
type syncBuffer struct {
	bytes.Buffer
}

func (b *syncBuffer) Sync() error { return nil }

func TestInitializeJSONFormat(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf syncBuffer
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "formpilot-test",
	}, zapcore.Lock(&buf))

	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("form scan started", zap.Int("forms", 3))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "form scan started", entry["msg"])
	assert.Equal(t, "formpilot-test", entry["logger"])
	assert.EqualValues(t, 3, entry["forms"])
}

func TestInitializeRespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf syncBuffer
	Initialize(config.LoggerConfig{
		Level:  "warn",
		Format: "json",
	}, zapcore.Lock(&buf))

	GetLogger().Info("below threshold")
	assert.Empty(t, buf.String())

	GetLogger().Warn("at threshold")
	assert.Contains(t, buf.String(), "at threshold")
}

func TestInitializeInvalidLevelFallsBack(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf syncBuffer
	Initialize(config.LoggerConfig{
		Level:  "not-a-level",
		Format: "json",
	}, zapcore.Lock(&buf))

	GetLogger().Debug("debug is below info")
	assert.Empty(t, buf.String())
	GetLogger().Info("info passes")
	assert.Contains(t, buf.String(), "info passes")
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	// Must hand back a usable fallback, never nil.
	assert.NotNil(t, GetLogger())
}

func TestInitializeOnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second syncBuffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.Lock(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.Lock(&second))

	GetLogger().Info("routed to the first writer")
	assert.Contains(t, first.String(), "routed to the first writer")
	assert.Empty(t, second.String())
}
