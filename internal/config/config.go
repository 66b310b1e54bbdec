// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBWaitInterval time.Duration // fixed retry interval for startup readiness polling

	// Valkey (Redis-compatible cache for report snapshots). Optional:
	// an empty host disables the snapshot cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Report settings
	TopProductsLimit   int    // rows kept in the top-products report
	ReportRefreshSpec  string // cron spec for snapshot refresh, empty disables the schedule
	ReportWindowMonths int    // trailing window length in calendar months
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first when present. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	// Missing .env is the normal case in containerized deployments.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "orderflow"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "orderflow"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		ReportRefreshSpec: envOrDefault("REPORT_REFRESH_CRON", "@every 5m"),
	}

	interval, err := time.ParseDuration(envOrDefault("DB_WAIT_INTERVAL", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_WAIT_INTERVAL: %w", err)
	}
	cfg.DBWaitInterval = interval

	cfg.TopProductsLimit, err = envInt("TOP_PRODUCTS_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	cfg.ReportWindowMonths, err = envInt("REPORT_WINDOW_MONTHS", 1)
	if err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// DBAddr returns the database host:port used for TCP readiness polling.
func (c *Config) DBAddr() string {
	return fmt.Sprintf("%s:%s", c.DBHost, c.DBPort)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt reads an integer environment variable with a fallback.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
