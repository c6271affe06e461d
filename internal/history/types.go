// Package history provides persistence for per-user search history. Records
// are owned by the store; the intake path treats every write failure as
// non-fatal.
package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/symptom-intake-server/internal/domain"
)

// DefaultListLimit caps history listings when the configured limit is unset.
const DefaultListLimit = 50

// Store defines the interface for search history persistence.
type Store interface {
	// Create inserts a new record. The store assigns ID and Timestamp when
	// they are zero.
	Create(ctx context.Context, record *domain.SearchRecord) error

	// List returns up to limit records for the user, newest first.
	List(ctx context.Context, userID string, limit int) ([]*domain.SearchRecord, error)

	// Delete removes a single record. It returns domain.ErrNotFound when the
	// record does not exist or belongs to another user.
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// DeleteAll removes every record for the user.
	DeleteAll(ctx context.Context, userID string) error

	// Close releases store resources.
	Close() error
}
