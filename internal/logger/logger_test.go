package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mintly/mintly-api/internal/config"
)

func TestInit(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	require.NoError(t, Init("development", &config.LogConfig{Level: "debug"}))
	assert.Equal(t, zapcore.DebugLevel, Level())

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, Level())
}

func TestInit_WithFile(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	file := filepath.Join(t.TempDir(), "mintly.log")
	require.NoError(t, Init("production", &config.LogConfig{Level: "info", File: file, MaxSizeMB: 1}))

	zap.L().Info("hello")
	_ = zap.L().Sync()
	assert.FileExists(t, file)
}

func TestSetLevel_Invalid(t *testing.T) {
	assert.Error(t, SetLevel("loud"))
}
