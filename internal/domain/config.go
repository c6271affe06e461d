package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	History    HistoryConfig    `mapstructure:"history"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// HistoryConfig selects and sizes the search history store.
// Driver is "postgres" or "sqlite"; sqlite requires no external services.
type HistoryConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	ListLimit  int    `mapstructure:"list_limit"`
}

// AuthConfig represents bearer token verification configuration
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// EnrichmentConfig represents the advisory text-analysis service configuration
type EnrichmentConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RetryCount int           `mapstructure:"retry_count"`
}

// CacheConfig represents the enrichment response cache configuration
type CacheConfig struct {
	RedisURL    string        `mapstructure:"redis_url"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	MemoryItems int           `mapstructure:"memory_items"`
}

// UploadConfig bounds document uploads on the intake endpoint
type UploadConfig struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
