// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"citygram-orlando/internal/domain/entity"
	pkgconfig "citygram-orlando/internal/pkg/config"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is shared by cmd/seed and cmd/api. Fields a binary does not use are
// still validated so a single .env file serves both.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Version   string `env:"VERSION" envDefault:"dev"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"citygram.db"`

	Port            int           `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	OTelEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// PublicBaseURL prefixes the homepage feed links; empty uses the request host.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	Citygram CitygramConfig
	Dispatch DispatchConfig
	Warmer   WarmerConfig
}

// CitygramConfig configures the police dispatch adapter.
type CitygramConfig struct {
	PoliceFeedURL  string        `env:"POLICE_FEED_URL" envDefault:"http://brigades.opendatanetwork.com/resource/sm4t-sjt5.json"`
	PoliceWindow   time.Duration `env:"POLICE_WINDOW" envDefault:"720m"`
	IgnoredReasons []string      `env:"POLICE_IGNORED_REASONS" envSeparator:","`
	CacheTTL       time.Duration `env:"FEED_CACHE_TTL" envDefault:"5m"`
	// Timezone is used when rendering incident times in feature titles
	Timezone string `env:"CITYGRAM_TIMEZONE" envDefault:"America/New_York"`
}

// DispatchConfig configures the upstream HTTP fetcher.
type DispatchConfig struct {
	Timeout       time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"15s"`
	MaxBodyBytes  int64         `env:"DISPATCH_MAX_BODY_BYTES" envDefault:"10485760"`
	RatePerSecond float64       `env:"DISPATCH_RATE_PER_SECOND" envDefault:"1"`
	Burst         int           `env:"DISPATCH_BURST" envDefault:"3"`
	UserAgent     string        `env:"DISPATCH_USER_AGENT" envDefault:"citygram-orlando/1.0"`
}

// WarmerConfig configures the cron job that refreshes cached feeds.
type WarmerConfig struct {
	Enabled  bool   `env:"FEED_WARM_ENABLED" envDefault:"true"`
	Schedule string `env:"FEED_WARM_SCHEDULE" envDefault:"*/5 * * * *"`
	Timezone string `env:"FEED_WARM_TIMEZONE" envDefault:"America/New_York"`
}

// Load reads an optional .env file, parses the environment into a Config and
// validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.Any("error", err))
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Citygram.IgnoredReasons = normalizeReasons(cfg.Citygram.IgnoredReasons)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres store")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if err := pkgconfig.ValidateIntRange(c.Port, 1, 65535); err != nil {
		return fmt.Errorf("config: PORT: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}
	if c.PublicBaseURL != "" {
		if err := entity.ValidateURL("PUBLIC_BASE_URL", c.PublicBaseURL); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Citygram.PoliceWindow); err != nil {
		return fmt.Errorf("config: POLICE_WINDOW: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Citygram.CacheTTL); err != nil {
		return fmt.Errorf("config: FEED_CACHE_TTL: %w", err)
	}
	if err := pkgconfig.ValidateTimezone(c.Citygram.Timezone); err != nil {
		return fmt.Errorf("config: CITYGRAM_TIMEZONE: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Dispatch.Timeout); err != nil {
		return fmt.Errorf("config: DISPATCH_TIMEOUT: %w", err)
	}
	if c.Dispatch.RatePerSecond <= 0 {
		return fmt.Errorf("config: DISPATCH_RATE_PER_SECOND must be positive, got %v", c.Dispatch.RatePerSecond)
	}
	if err := pkgconfig.ValidateIntRange(c.Dispatch.Burst, 1, 100); err != nil {
		return fmt.Errorf("config: DISPATCH_BURST: %w", err)
	}
	if c.Dispatch.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: DISPATCH_MAX_BODY_BYTES must be positive, got %d", c.Dispatch.MaxBodyBytes)
	}

	if c.Warmer.Enabled {
		if err := pkgconfig.ValidateCronSchedule(c.Warmer.Schedule); err != nil {
			return fmt.Errorf("config: FEED_WARM_SCHEDULE: %w", err)
		}
		if err := pkgconfig.ValidateTimezone(c.Warmer.Timezone); err != nil {
			return fmt.Errorf("config: FEED_WARM_TIMEZONE: %w", err)
		}
	}
	return nil
}

// normalizeReasons lower-cases and trims reasons, dropping empties, so the
// filter matches regardless of how the list was typed.
func normalizeReasons(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			out = append(out, r)
		}
	}
	return out
}
