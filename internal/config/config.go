package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config keeps runtime settings for the service.
type Config struct {
	Addr               string        `env:"TASKBOARD_ADDR" envDefault:":8080"`
	DatabaseURL        string        `env:"TASKBOARD_DB" envDefault:"taskboard.db"`
	JWTSecret          string        `env:"TASKBOARD_JWT_SECRET"`
	AccessTokenTTL     time.Duration `env:"TASKBOARD_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"TASKBOARD_REFRESH_TTL" envDefault:"168h"`
	PageSize           int           `env:"TASKBOARD_PAGE_SIZE" envDefault:"10"`
	TelegramToken      string        `env:"TASKBOARD_TELEGRAM_TOKEN"`
	DigestTime         string        `env:"TASKBOARD_DIGEST_TIME" envDefault:"09:00"`
	TokenCleanupPeriod time.Duration `env:"TASKBOARD_TOKEN_CLEANUP_PERIOD" envDefault:"1h"`
	CORSOrigins        []string      `env:"TASKBOARD_CORS_ORIGINS" envSeparator:","`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("TASKBOARD_JWT_SECRET is required")
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}
	return cfg, nil
}
