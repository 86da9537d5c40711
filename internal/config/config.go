package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"profitdash/internal/profit"
)

type Config struct {
	ProductLine  string  `env:"PRODUCT_LINE" envDefault:"rhoms" validate:"required"`
	InputPath    string  `env:"INPUT_PATH"`
	AdSpend      float64 `env:"AD_SPEND" envDefault:"0" validate:"gte=0"`
	FXRate       float64 `env:"FX_RATE" envDefault:"0" validate:"gte=0"`
	Debug        bool    `env:"DEBUG" envDefault:"false"`
	ExportDir    string  `env:"EXPORT_DIR"`
	ExportLayout string  `env:"EXPORT_LAYOUT" validate:"omitempty,oneof=summary pnl"`

	Fees     Fees     `envPrefix:"FEE_"`
	Catalog  Catalog  `envPrefix:"CATALOG_"`
	Database Database `envPrefix:"DB_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Telegram Telegram `envPrefix:"TELEGRAM_"`
	Log      Log      `envPrefix:"LOG_"`

	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
}

type Fees struct {
	CardRate     float64 `env:"CARD_RATE" envDefault:"0.028" validate:"gte=0"`
	FlatFee      float64 `env:"FLAT" envDefault:"0.30" validate:"gte=0"`
	PlatformRate float64 `env:"PLATFORM_RATE" envDefault:"0.02" validate:"gte=0"`
	Surcharge    float64 `env:"SURCHARGE" envDefault:"1.10" validate:"gt=0"`
	Basis        string  `env:"BASIS" envDefault:"set" validate:"oneof=set order"`
}

// Schedule converts the fee settings for the engine.
func (f Fees) Schedule() profit.FeeSchedule {
	return profit.FeeSchedule{
		CardRate:     f.CardRate,
		FlatFee:      f.FlatFee,
		PlatformRate: f.PlatformRate,
		Surcharge:    f.Surcharge,
		Basis:        profit.FeeBasis(f.Basis),
	}
}

type Catalog struct {
	Dir    string `env:"DIR"`
	URL    string `env:"URL" validate:"omitempty,url"`
	APIKey string `env:"API_KEY"`
}

type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"postgres" validate:"oneof=postgres sqlite"`
	DSN             string        `env:"DSN"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// Enabled reports whether a catalog database is configured.
func (d Database) Enabled() bool { return d.DSN != "" }

type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
}

type Telegram struct {
	Token  string `env:"TOKEN"`
	ChatID int64  `env:"CHAT_ID"`
}

// Enabled reports whether summaries should be sent to Telegram.
func (t Telegram) Enabled() bool { return t.Token != "" && t.ChatID != 0 }

type Log struct {
	Level string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	File  string `env:"FILE"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("invalid config: TELEGRAM_CHAT_ID is required with TELEGRAM_TOKEN")
	}
	return nil
}

// Settings builds the per-run engine inputs.
func (c *Config) Settings() profit.Settings {
	return profit.Settings{
		AdSpend: c.AdSpend,
		FXRate:  c.FXRate,
		Fees:    c.Fees.Schedule(),
		Verbose: c.Debug,
	}
}
