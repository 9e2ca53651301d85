package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	AuthModeLocal  = "local"
	AuthModeRemote = "remote"

	// devSessionSecret is only accepted in development.
	devSessionSecret = "development-only-session-secret"
)

type Config struct {
	Env             string
	LogLevel        string
	HTTPAddr        string
	StorageBackend  string
	DataFile        string
	SQLitePath      string
	PostgresDSN     string
	SeedFile        string
	WeeklyThreshold float64
	SessionSecret   string
	SessionTTL      time.Duration
	AuthMode        string
	AuthServiceURL  string
	AuthRequired    bool
}

var (
	cfg  *Config
	once sync.Once
)

// Load returns the process configuration, reading .env once. It panics on invalid config.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv builds and validates a Config from the current environment.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendMemory),
		DataFile:       getEnv("DATA_FILE", "data/timesheets.json"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/timesheets.db"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		SeedFile:       getEnv("SEED_FILE", ""),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		AuthMode:       getEnv("AUTH_MODE", AuthModeLocal),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
	}

	var err error
	if c.WeeklyThreshold, err = strconv.ParseFloat(getEnv("WEEKLY_HOURS_THRESHOLD", "40"), 64); err != nil {
		return nil, fmt.Errorf("WEEKLY_HOURS_THRESHOLD: %w", err)
	}
	if c.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if c.AuthRequired, err = strconv.ParseBool(getEnv("AUTH_REQUIRED", "true")); err != nil {
		return nil, fmt.Errorf("AUTH_REQUIRED: %w", err)
	}
	if c.SessionSecret == "" && c.Env == "development" {
		c.SessionSecret = devSessionSecret
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.StorageBackend {
	case BackendMemory:
	case BackendFile:
		if c.DataFile == "" {
			return errors.New("File storage requires DATA_FILE to be set")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLite storage requires SQLITE_PATH to be set")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: memory, file, sqlite, postgres")
	}
	if c.WeeklyThreshold <= 0 {
		return errors.New("WEEKLY_HOURS_THRESHOLD must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required outside development")
	}
	switch c.AuthMode {
	case AuthModeLocal:
	case AuthModeRemote:
		if c.AuthServiceURL == "" {
			return errors.New("AUTH_SERVICE_URL is required when AUTH_MODE=remote")
		}
	default:
		return errors.New("AUTH_MODE must be one of: local, remote")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
