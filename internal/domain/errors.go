package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by stores when a record does not exist or belongs to
// a different user.
var ErrNotFound = errors.New("record not found")

// APIError is the standardized error envelope returned by the HTTP layer.
type APIError struct {
	Code          string    `json:"code"`
	Message       string    `json:"message"`
	Details       string    `json:"details,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for the gateway failure taxonomy. Only ErrInvalidInput and
// ErrInternalServer surface to callers; the rest degrade the request and are
// logged.
const (
	ErrInvalidInput       = "INVALID_INPUT"
	ErrExtractionFailure  = "EXTRACTION_FAILURE"
	ErrPersistenceFailure = "PERSISTENCE_FAILURE"
	ErrEnrichmentFailure  = "ENRICHMENT_FAILURE"
	ErrAuthFailure        = "AUTH_FAILURE"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
)

// NewAPIError creates a new APIError with timestamp.
func NewAPIError(code, message, details, correlationID string) *APIError {
	return &APIError{
		Code:          code,
		Message:       message,
		Details:       details,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
	}
}
