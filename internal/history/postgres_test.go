package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-intake-server/internal/domain"
)

// getTestPool returns a connection pool for testing.
// Skip test if TEST_DATABASE_URL is not set.
func getTestPool(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS search_history (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			symptoms TEXT NOT NULL,
			disease TEXT NOT NULL,
			severity TEXT NOT NULL,
			file_name TEXT DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	require.NoError(t, err)

	// Clean up before test
	_, err = pool.Exec(ctx, "DELETE FROM search_history")
	require.NoError(t, err)

	return pool
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestPostgresStore_Create(t *testing.T) {
	pool := getTestPool(t)
	defer pool.Close()

	store := NewPostgresStore(pool, testLogger())

	ctx := context.Background()
	record := sampleRecord("user-1")

	err := store.Create(ctx, record)
	require.NoError(t, err)
	assert.False(t, record.Timestamp.IsZero(), "Timestamp should be set")

	records, err := store.List(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	assert.Equal(t, "Common Cold / Flu", records[0].Disease)
}

func TestPostgresStore_List_Order(t *testing.T) {
	pool := getTestPool(t)
	defer pool.Close()

	store := NewPostgresStore(pool, testLogger())

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := sampleRecord("user-1")
		record.Timestamp = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Create(ctx, record))
	}

	records, err := store.List(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].Timestamp.After(records[1].Timestamp))
	assert.True(t, records[1].Timestamp.After(records[2].Timestamp))
}

func TestPostgresStore_Delete(t *testing.T) {
	pool := getTestPool(t)
	defer pool.Close()

	store := NewPostgresStore(pool, testLogger())

	ctx := context.Background()
	record := sampleRecord("user-1")
	require.NoError(t, store.Create(ctx, record))

	require.NoError(t, store.Delete(ctx, "user-1", record.ID))

	err := store.Delete(ctx, "user-1", record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_DeleteAll(t *testing.T) {
	pool := getTestPool(t)
	defer pool.Close()

	store := NewPostgresStore(pool, testLogger())

	ctx := context.Background()
	require.NoError(t, store.Create(ctx, sampleRecord("user-1")))
	require.NoError(t, store.Create(ctx, sampleRecord("user-2")))

	require.NoError(t, store.DeleteAll(ctx, "user-1"))

	records, err := store.List(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = store.List(ctx, "user-2", 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
