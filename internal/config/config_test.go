package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	m, err := NewManager()
	require.NoError(t, err)
	return m
}

func TestNewManager_Defaults(t *testing.T) {
	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "./data/history.db", cfg.History.SQLitePath)
	assert.Equal(t, 50, cfg.History.ListLimit)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)

	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileBytes)
	assert.Equal(t, 30*time.Second, cfg.Enrichment.Timeout)
	assert.Equal(t, 1000, cfg.Cache.MemoryItems)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestManager_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SYMPTOM_INTAKE_SERVER_PORT", "9090")
	t.Setenv("SYMPTOM_INTAKE_HISTORY_DRIVER", "postgres")
	t.Setenv("SYMPTOM_INTAKE_DATABASE_HOST", "db.internal")
	t.Setenv("SYMPTOM_INTAKE_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("SYMPTOM_INTAKE_LOGGING_LEVEL", "debug")

	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.History.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestManager_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		m := newTestManager(t)
		assert.NoError(t, m.Validate())
	})

	t.Run("invalid port", func(t *testing.T) {
		m := newTestManager(t)
		m.config.Server.Port = 0
		assert.ErrorContains(t, m.Validate(), "invalid server port")
	})

	t.Run("unknown history driver", func(t *testing.T) {
		m := newTestManager(t)
		m.config.History.Driver = "mysql"
		assert.ErrorContains(t, m.Validate(), "invalid history driver")
	})

	t.Run("sqlite requires a path", func(t *testing.T) {
		m := newTestManager(t)
		m.config.History.SQLitePath = ""
		assert.ErrorContains(t, m.Validate(), "sqlite path")
	})

	t.Run("postgres requires host", func(t *testing.T) {
		m := newTestManager(t)
		m.config.History.Driver = "postgres"
		m.config.Database.Host = ""
		assert.ErrorContains(t, m.Validate(), "database host")
	})

	t.Run("invalid log level", func(t *testing.T) {
		m := newTestManager(t)
		m.config.Logging.Level = "verbose"
		assert.ErrorContains(t, m.Validate(), "invalid log level")
	})

	t.Run("invalid upload limit", func(t *testing.T) {
		m := newTestManager(t)
		m.config.Upload.MaxFileBytes = 0
		assert.ErrorContains(t, m.Validate(), "upload size limit")
	})
}

func TestManager_GetDatabaseConnectionString(t *testing.T) {
	m := newTestManager(t)
	m.config.Database.Host = "db.internal"
	m.config.Database.Port = 5433
	m.config.Database.Username = "intake"
	m.config.Database.Password = "secret"
	m.config.Database.Database = "symptom_intake"
	m.config.Database.SSLMode = "require"

	assert.Equal(t,
		"host=db.internal port=5433 user=intake password=secret dbname=symptom_intake sslmode=require",
		m.GetDatabaseConnectionString())
}

func TestManager_EnvironmentMode(t *testing.T) {
	t.Run("defaults to development", func(t *testing.T) {
		m := newTestManager(t)
		assert.True(t, m.IsDevelopment())
		assert.False(t, m.IsProduction())
	})

	t.Run("production env", func(t *testing.T) {
		t.Setenv("SYMPTOM_INTAKE_ENVIRONMENT", "production")
		m := newTestManager(t)
		assert.True(t, m.IsProduction())
		assert.False(t, m.IsDevelopment())
	})
}
