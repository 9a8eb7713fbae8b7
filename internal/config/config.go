// Package config loads command-line configuration from the environment.
// An optional .env file in the working directory is read first.
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	BaseURL   string        `env:"STOREFRONT_BASE_URL, default=http://localhost:5000/api"`
	TokenFile string        `env:"STOREFRONT_TOKEN_FILE"`
	Timeout   time.Duration `env:"STOREFRONT_TIMEOUT, default=30s"`

	// RateLimit is requests per second; zero disables limiting
	RateLimit float64 `env:"STOREFRONT_RATE_LIMIT, default=0"`
	RateBurst int     `env:"STOREFRONT_RATE_BURST, default=1"`

	SentryDSN string `env:"SENTRY_DSN"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Redis RedisConfig
}

// RedisConfig selects a shared Redis token slot instead of the token file
type RedisConfig struct {
	URL  string `env:"STOREFRONT_REDIS_URL"`
	Slot string `env:"STOREFRONT_REDIS_SLOT, default=authToken"`
}

// Load reads .env when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.TokenFile == "" && cfg.Redis.URL == "" {
		cfg.TokenFile = DefaultTokenFile()
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultTokenFile is where the CLI keeps its session between runs
func DefaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".storefront", "session.json")
	}
	return filepath.Join(home, ".storefront", "session.json")
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("STOREFRONT_BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("STOREFRONT_BASE_URL must be an http or https URL, got %q", cfg.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("STOREFRONT_BASE_URL must include a host, got %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("STOREFRONT_TIMEOUT must be positive, got %s", cfg.Timeout)
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("STOREFRONT_RATE_LIMIT must not be negative, got %v", cfg.RateLimit)
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		return fmt.Errorf("STOREFRONT_RATE_BURST must be at least 1 when rate limiting, got %d", cfg.RateBurst)
	}

	if cfg.Redis.URL != "" && cfg.Redis.Slot == "" {
		return fmt.Errorf("STOREFRONT_REDIS_SLOT is required when STOREFRONT_REDIS_URL is set")
	}

	return nil
}
