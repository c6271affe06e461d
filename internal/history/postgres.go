package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/domain"
)

// PostgresStore implements the Store interface on a pgx connection pool. The
// search_history schema is managed by migrations.
type PostgresStore struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPostgresStore creates a new PostgreSQL-backed history store.
func NewPostgresStore(db *pgxpool.Pool, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: logger,
	}
}

// Create inserts a new search record.
func (s *PostgresStore) Create(ctx context.Context, record *domain.SearchRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO search_history (
			id, user_id, symptoms, disease, severity, file_name, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := s.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Symptoms,
		record.Disease,
		record.Severity,
		record.FileName,
		record.Timestamp,
	)

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": record.UserID,
			"error":   err,
		}).Error("Failed to create search record")
		return fmt.Errorf("creating search record: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"record_id": record.ID,
		"user_id":   record.UserID,
		"disease":   record.Disease,
	}).Info("Search record created")

	return nil
}

// List returns up to limit records for the user, newest first.
func (s *PostgresStore) List(ctx context.Context, userID string, limit int) ([]*domain.SearchRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, user_id, symptoms, disease, severity, file_name, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err,
		}).Error("Failed to list search history")
		return nil, fmt.Errorf("listing search history: %w", err)
	}
	defer rows.Close()

	var records []*domain.SearchRecord
	for rows.Next() {
		var record domain.SearchRecord
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Symptoms,
			&record.Disease,
			&record.Severity,
			&record.FileName,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning search record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search records: %w", err)
	}

	return records, nil
}

// Delete removes a single record owned by the user.
func (s *PostgresStore) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM search_history WHERE id = $1 AND user_id = $2`

	result, err := s.db.Exec(ctx, query, id, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"record_id": id,
			"user_id":   userID,
			"error":     err,
		}).Error("Failed to delete search record")
		return fmt.Errorf("deleting search record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("search record %s: %w", id, domain.ErrNotFound)
	}

	s.log.WithFields(logrus.Fields{
		"record_id": id,
		"user_id":   userID,
	}).Info("Search record deleted")

	return nil
}

// DeleteAll removes every record for the user.
func (s *PostgresStore) DeleteAll(ctx context.Context, userID string) error {
	query := `DELETE FROM search_history WHERE user_id = $1`

	result, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err,
		}).Error("Failed to clear search history")
		return fmt.Errorf("clearing search history: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"deleted": result.RowsAffected(),
	}).Info("Search history cleared")

	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *PostgresStore) Close() error {
	return nil
}
