package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"tickbars/internal/aggregate"
	"tickbars/internal/model"
)

// Config holds application configuration from env (and an optional .env file).
// Bars are never localized; there is no timezone setting.
type Config struct {
	TickDir      string `env:"TICK_DIR" envDefault:"ticks" validate:"required"`
	OutDir       string `env:"OUT_DIR" envDefault:"data" validate:"required"`
	Frequency    string `env:"FREQUENCY" envDefault:"1m"`
	SaveFormat   string `env:"SAVE_FORMAT" validate:"omitempty,oneof=csv parquet json"`
	Profile      string `env:"PROFILE"`
	FlushLast    bool   `env:"FLUSH_LAST"`
	PriceDigits  int    `env:"PRICE_DIGITS" envDefault:"5" validate:"min=1,max=10"`
	Workers      int    `env:"WORKERS" envDefault:"4" validate:"min=1,max=256"`
	MaxLen       int    `env:"MAX_LEN" envDefault:"1024" validate:"min=0"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"` // debug | info | warn | error
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	Watch        bool   `env:"WATCH"`
	RunHour      int    `env:"RUN_HOUR" envDefault:"0" validate:"min=0,max=23"`
	RunMinute    int    `env:"RUN_MINUTE" envDefault:"30" validate:"min=0,max=59"`
	HeartbeatSec int    `env:"HEARTBEAT_SEC" envDefault:"30" validate:"min=0"`

	Freq model.Frequency `env:"-"`
}

var validate = validator.New()

// LoadConfig reads config from environment, loading .env first if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return loadConfig(env.Options{})
}

func loadConfig(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	for _, v := range []*string{&cfg.LogLevel, &cfg.LogFormat, &cfg.SaveFormat, &cfg.Profile} {
		*v = strings.ToLower(strings.TrimSpace(*v))
	}
	if cfg.SaveFormat == "" {
		cfg.SaveFormat = saveFormatForProfile(cfg.Profile)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	freq, err := model.ParseFrequency(cfg.Frequency)
	if err != nil {
		return nil, err
	}
	cfg.Freq = freq
	return cfg, nil
}

func saveFormatForProfile(profile string) string {
	switch profile {
	case "dev", "development":
		return "csv"
	case "prod", "production", "":
		return "parquet"
	default:
		return "parquet"
	}
}

// FlushMode maps FLUSH_LAST to the aggregator option.
func (c *Config) FlushMode() aggregate.FlushMode {
	if c.FlushLast {
		return aggregate.FlushLast
	}
	return aggregate.DropLast
}

// Heartbeat returns the worker heartbeat interval; 0 disables it.
func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatSec) * time.Second
}

// ProgressPath returns path to .lastday.json
func (c *Config) ProgressPath() string {
	return filepath.Join(c.OutDir, ".lastday.json")
}

// MetricsPath returns path to .metrics.prom
func (c *Config) MetricsPath() string {
	return filepath.Join(c.OutDir, ".metrics.prom")
}
