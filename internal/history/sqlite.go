package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/symptom-intake-server/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite. It needs no
// external services and is the default backend for standalone operation.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite history store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		symptoms TEXT NOT NULL,
		disease TEXT NOT NULL,
		severity TEXT NOT NULL,
		file_name TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_search_history_user_created ON search_history(user_id, created_at DESC);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord scans a row into a SearchRecord.
func scanRecord(s scanner) (*domain.SearchRecord, error) {
	record := &domain.SearchRecord{}
	var id string

	err := s.Scan(
		&id, &record.UserID, &record.Symptoms,
		&record.Disease, &record.Severity, &record.FileName,
		&record.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing record id: %w", err)
	}
	record.ID = parsed
	return record, nil
}

// Create inserts a new search record.
func (s *SQLiteStore) Create(ctx context.Context, record *domain.SearchRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO search_history (id, user_id, symptoms, disease, severity, file_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID.String(),
		record.UserID,
		record.Symptoms,
		record.Disease,
		record.Severity,
		record.FileName,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("creating search record: %w", err)
	}

	return nil
}

// List returns up to limit records for the user, newest first.
func (s *SQLiteStore) List(ctx context.Context, userID string, limit int) ([]*domain.SearchRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, user_id, symptoms, disease, severity, file_name, created_at
		FROM search_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing search history: %w", err)
	}
	defer rows.Close()

	var records []*domain.SearchRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning search record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search records: %w", err)
	}

	return records, nil
}

// Delete removes a single record owned by the user.
func (s *SQLiteStore) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM search_history WHERE id = ? AND user_id = ?",
		id.String(), userID,
	)
	if err != nil {
		return fmt.Errorf("deleting search record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("search record %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteAll removes every record for the user.
func (s *SQLiteStore) DeleteAll(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM search_history WHERE user_id = ?", userID,
	); err != nil {
		return fmt.Errorf("clearing search history: %w", err)
	}
	return nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
