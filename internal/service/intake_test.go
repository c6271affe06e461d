package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-intake-server/internal/domain"
	"github.com/symptom-intake-server/internal/history"
)

type stubClassifier struct {
	mu        sync.Mutex
	lastInput string
	result    domain.Recommendation
}

func (s *stubClassifier) Classify(symptomsText string) domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastInput = symptomsText
	return s.result
}

func (s *stubClassifier) input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInput
}

type stubExtractor struct {
	text string
}

func (s *stubExtractor) Extract(ctx context.Context, file domain.UploadedFile) string {
	return s.text
}

type stubEnricher struct {
	mu     sync.Mutex
	calls  int
	inputs []string
	err    error
	done   chan struct{}
}

func (s *stubEnricher) Analyze(ctx context.Context, text string) (map[string]interface{}, error) {
	s.mu.Lock()
	s.calls++
	s.inputs = append(s.inputs, text)
	s.mu.Unlock()
	if s.done != nil {
		close(s.done)
	}
	return map[string]interface{}{"ok": true}, s.err
}

type stubStore struct {
	mu      sync.Mutex
	records []*domain.SearchRecord
	err     error
}

func (s *stubStore) Create(ctx context.Context, record *domain.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *stubStore) List(ctx context.Context, userID string, limit int) ([]*domain.SearchRecord, error) {
	return nil, nil
}

func (s *stubStore) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return nil
}

func (s *stubStore) DeleteAll(ctx context.Context, userID string) error {
	return nil
}

func (s *stubStore) Close() error { return nil }

func newIntakeFixture(enricher domain.Enricher, store *stubStore) (*IntakeService, *stubClassifier) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	classifier := &stubClassifier{
		result: domain.Recommendation{
			Disease:  "Common Cold / Flu",
			Severity: domain.SeverityMildToModerate,
		},
	}
	// Avoid a typed-nil store becoming a non-nil interface
	var iface history.Store
	if store != nil {
		iface = store
	}
	svc := NewIntakeService(logger, classifier, &stubExtractor{text: "extracted report text"}, enricher, iface)
	return svc, classifier
}

func TestPredict_SymptomsOnly(t *testing.T) {
	svc, classifier := newIntakeFixture(nil, nil)

	rec, err := svc.Predict(context.Background(), PredictInput{Symptoms: "fever and cough"})
	require.NoError(t, err)
	assert.Equal(t, "Common Cold / Flu", rec.Disease)
	assert.Equal(t, "fever and cough", classifier.input())
}

func TestPredict_EmptyInput(t *testing.T) {
	svc, _ := newIntakeFixture(nil, nil)

	_, err := svc.Predict(context.Background(), PredictInput{Symptoms: "   "})
	assert.ErrorIs(t, err, ErrEmptySymptoms)
}

func TestPredict_MergesFileContent(t *testing.T) {
	svc, classifier := newIntakeFixture(nil, nil)

	_, err := svc.Predict(context.Background(), PredictInput{
		Symptoms: "fever",
		File:     &domain.UploadedFile{Name: "labs.pdf", MIMEType: "application/pdf"},
	})
	require.NoError(t, err)

	merged := classifier.input()
	assert.True(t, strings.HasPrefix(merged, "fever"))
	assert.Contains(t, merged, "--- Medical Report Content ---")
	assert.Contains(t, merged, "extracted report text")
}

func TestPredict_FileOnly(t *testing.T) {
	svc, classifier := newIntakeFixture(nil, nil)

	_, err := svc.Predict(context.Background(), PredictInput{
		File: &domain.UploadedFile{Name: "labs.pdf", MIMEType: "application/pdf"},
	})
	require.NoError(t, err)

	// No delimiter when there is no typed text
	assert.Equal(t, "extracted report text", classifier.input())
}

func TestPredict_EnrichmentIsFireAndForget(t *testing.T) {
	enricher := &stubEnricher{done: make(chan struct{})}
	svc, _ := newIntakeFixture(enricher, nil)

	rec, err := svc.Predict(context.Background(), PredictInput{Symptoms: "fever"})
	require.NoError(t, err)
	assert.Equal(t, "Common Cold / Flu", rec.Disease)

	select {
	case <-enricher.done:
	case <-time.After(2 * time.Second):
		t.Fatal("enrichment was never invoked")
	}
}

func TestPredict_EnrichmentErrorDoesNotFailRequest(t *testing.T) {
	enricher := &stubEnricher{err: errors.New("service down"), done: make(chan struct{})}
	svc, _ := newIntakeFixture(enricher, nil)

	rec, err := svc.Predict(context.Background(), PredictInput{Symptoms: "fever"})
	require.NoError(t, err)
	assert.Equal(t, "Common Cold / Flu", rec.Disease)

	<-enricher.done
}

func TestPredict_SavesHistoryForAuthenticatedUser(t *testing.T) {
	store := &stubStore{}
	svc, _ := newIntakeFixture(nil, store)

	_, err := svc.Predict(context.Background(), PredictInput{
		Symptoms: "fever and cough",
		UserID:   "user-1",
	})
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	assert.Equal(t, "user-1", store.records[0].UserID)
	assert.Equal(t, "fever and cough", store.records[0].Symptoms)
	assert.Equal(t, "Common Cold / Flu", store.records[0].Disease)
}

func TestPredict_AnonymousSkipsHistory(t *testing.T) {
	store := &stubStore{}
	svc, _ := newIntakeFixture(nil, store)

	_, err := svc.Predict(context.Background(), PredictInput{Symptoms: "fever"})
	require.NoError(t, err)
	assert.Empty(t, store.records)
}

func TestPredict_TruncatesStoredSymptoms(t *testing.T) {
	store := &stubStore{}
	svc, _ := newIntakeFixture(nil, store)

	long := strings.Repeat("a", 500)
	_, err := svc.Predict(context.Background(), PredictInput{Symptoms: long, UserID: "user-1"})
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	assert.Len(t, store.records[0].Symptoms, domain.MaxStoredSymptomLength)
}

func TestPredict_PersistenceFailureDoesNotFailRequest(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	svc, _ := newIntakeFixture(nil, store)

	rec, err := svc.Predict(context.Background(), PredictInput{
		Symptoms: "fever",
		UserID:   "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Common Cold / Flu", rec.Disease)
}
