package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "STORAGE_BACKEND", "DATA_FILE", "SQLITE_PATH",
	"POSTGRES_DSN", "SEED_FILE", "SESSION_SECRET", "SESSION_TTL", "AUTH_MODE",
	"AUTH_SERVICE_URL", "AUTH_REQUIRED", "WEEKLY_HOURS_THRESHOLD",
}

func clearEnv(t *testing.T) {
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, BackendMemory, c.StorageBackend)
	assert.Equal(t, 40.0, c.WeeklyThreshold)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, AuthModeLocal, c.AuthMode)
	assert.True(t, c.AuthRequired)
	assert.Equal(t, devSessionSecret, c.SessionSecret)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("STORAGE_BACKEND", BackendSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/ts.db")
	t.Setenv("WEEKLY_HOURS_THRESHOLD", "37.5")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("AUTH_REQUIRED", "false")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ts.db", c.SQLitePath)
	assert.Equal(t, 37.5, c.WeeklyThreshold)
	assert.Equal(t, 90*time.Minute, c.SessionTTL)
	assert.False(t, c.AuthRequired)
	assert.Equal(t, "s3cret", c.SessionSecret)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown env":          {"APP_ENV": "qa"},
		"no secret in prod":    {"APP_ENV": "production"},
		"unknown backend":      {"STORAGE_BACKEND": "mongo"},
		"postgres without dsn": {"STORAGE_BACKEND": BackendPostgres},
		"bad threshold":        {"WEEKLY_HOURS_THRESHOLD": "lots"},
		"negative threshold":   {"WEEKLY_HOURS_THRESHOLD": "-1"},
		"bad ttl":              {"SESSION_TTL": "forever"},
		"bad auth required":    {"AUTH_REQUIRED": "maybe"},
		"unknown auth mode":    {"AUTH_MODE": "ldap"},
		"remote without a url": {"AUTH_MODE": AuthModeRemote},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
