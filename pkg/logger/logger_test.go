package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profitdash.log")

	log, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)
	log.Info("Computed profitability", zap.Int("orders", 3))
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"orders":3`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewDebugOverridesLevel(t *testing.T) {
	log, err := New(Config{Level: "warn", Debug: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}
