package logging_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andrescamacho/colony-go/internal/adapters/logging"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

func TestZapLogger_MapsLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewFromZap(zap.New(core))

	logger.Log(common.LevelWarn, "task cancelled", map[string]interface{}{"room": "W1N1", "task_id": "t-1"})
	logger.Log(common.LevelDebug, "agent switched", nil)
	logger.Log("WARN", "short form", nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "W1N1", entries[0].ContextMap()["room"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func TestNewZapLogger_FromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colony.log")

	logger, err := logging.NewZapLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)
	logger.Log(common.LevelInfo, "started", nil)
	assert.NoError(t, logger.Sync())

	_, err = logging.NewZapLogger(config.LoggingConfig{Level: "loud", Format: "json", Output: "stdout"})
	assert.Error(t, err)
	_, err = logging.NewZapLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file"})
	assert.Error(t, err)
}
