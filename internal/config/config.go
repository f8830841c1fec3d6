// Package config reads the service settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultReleaseAt is the results release moment used when RESULTS_RELEASE_AT
// is not set. It is read in the server's local time zone.
const DefaultReleaseAt = "2025-12-10T17:00:00"

const localLayout = "2006-01-02T15:04:05"

type StoreDriver string

const (
	DriverPostgres StoreDriver = "postgres"
	DriverSQLite   StoreDriver = "sqlite"
	DriverMySQL    StoreDriver = "mysql"
	DriverREST     StoreDriver = "rest"
	DriverMemory   StoreDriver = "memory"
)

type Config struct {
	HTTPAddr    string      `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	StoreDriver StoreDriver `env:"STORE_DRIVER" envDefault:"postgres"`

	Postgres Postgres

	SQLitePath string `env:"SQLITE_PATH" envDefault:"awardvote.db"`
	MySQLDSN   string `env:"MYSQL_DSN"`
	StoreURL   string `env:"STORE_URL"`
	StoreKey   string `env:"STORE_KEY"`

	CatalogPath       string        `env:"CATALOG_PATH"`
	ReleaseAtRaw      string        `env:"RESULTS_RELEASE_AT" envDefault:"2025-12-10T17:00:00"`
	CountdownInterval time.Duration `env:"COUNTDOWN_INTERVAL" envDefault:"1s"`
	BallotSessionTTL  time.Duration `env:"BALLOT_SESSION_TTL" envDefault:"24h"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	CookieSecure   bool     `env:"COOKIE_SECURE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	OtelEndpoint string `env:"OTEL_ENDPOINT"`
	OtelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`

	releaseAt time.Time
}

type Postgres struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB"`
}

func (p Postgres) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// Load reads .env when present and parses the environment into a Config.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		if logger != nil {
			logger.Debug("no .env file found, using process environment")
		}
	}
	return Parse()
}

// Parse reads the process environment only. Store settings are checked by
// Validate.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	releaseAt, err := ParseReleaseAt(cfg.ReleaseAtRaw, time.Local)
	if err != nil {
		return nil, err
	}
	cfg.releaseAt = releaseAt
	return cfg, nil
}

// Validate checks the store settings. Call it after flags have overridden
// the driver.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite, DriverMySQL, DriverREST, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == DriverREST && c.StoreURL == "" {
		return errors.New("STORE_URL is required for the rest store")
	}
	if c.StoreDriver == DriverMySQL && c.MySQLDSN == "" {
		return errors.New("MYSQL_DSN is required for the mysql store")
	}
	return nil
}

// ParseReleaseAt accepts RFC3339 or a zone-less "2006-01-02T15:04:05" read in loc.
func ParseReleaseAt(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultReleaseAt
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid RESULTS_RELEASE_AT %q: %w", raw, err)
	}
	return t, nil
}

// ReleaseAt is RESULTS_RELEASE_AT resolved to an instant.
func (c *Config) ReleaseAt() time.Time {
	return c.releaseAt
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
