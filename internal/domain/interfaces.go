package domain

import (
	"context"
)

// Classifier maps merged symptom text to a fully-populated Recommendation.
// Implementations must be total, deterministic, and safe for concurrent use.
type Classifier interface {
	Classify(symptomsText string) Recommendation
}

// UploadedFile carries an uploaded document through extraction.
type UploadedFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// TextExtractor converts an uploaded document into text or a descriptive
// placeholder. It never fails; unextractable content yields a placeholder.
type TextExtractor interface {
	Extract(ctx context.Context, file UploadedFile) string
}

// Enricher is the best-effort advisory text-analysis collaborator. The intake
// path discards its result; only the outcome is logged.
type Enricher interface {
	Analyze(ctx context.Context, text string) (map[string]interface{}, error)
}

// TokenVerifier resolves a bearer credential to a user identity. An empty
// user ID with a nil error means the caller is anonymous.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
