package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitdash/internal/profit"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "rhoms", cfg.ProductLine)
	assert.Equal(t, profit.DefaultFees(), cfg.Fees.Schedule())
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PRODUCT_LINE", "gleamont")
	t.Setenv("AD_SPEND", "1250.50")
	t.Setenv("DEBUG", "true")
	t.Setenv("FEE_BASIS", "order")
	t.Setenv("FEE_FLAT", "0.25")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:catalog.db")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	s := cfg.Settings()
	assert.Equal(t, 1250.50, s.AdSpend)
	assert.True(t, s.Verbose)
	assert.Equal(t, profit.FeeBasisOrder, s.Fees.Basis)
	assert.Equal(t, 0.25, s.Fees.FlatFee)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-1001), cfg.Telegram.ChatID)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRODUCT_LINE=yevivo\nFX_RATE=1.27\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PRODUCT_LINE")
		os.Unsetenv("FX_RATE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yevivo", cfg.ProductLine)
	assert.Equal(t, 1.27, cfg.FXRate)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("FEE_BASIS", "weekly")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestTelegramNeedsChat(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
