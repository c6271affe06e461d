package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/domain"
	"github.com/symptom-intake-server/internal/history"
	"github.com/symptom-intake-server/internal/middleware"
)

// ErrEmptySymptoms is returned when neither typed text nor an uploaded
// document yields any symptom content.
var ErrEmptySymptoms = errors.New("symptoms text is empty")

// reportDelimiter separates typed symptoms from extracted document text in the
// merged input handed to the classifier.
const reportDelimiter = "--- Medical Report Content ---"

// defaultEnrichmentTimeout bounds the advisory analysis call so an external
// outage can never hold resources past the classification response.
const defaultEnrichmentTimeout = 30 * time.Second

// IntakeService orchestrates one classification request: merge input text,
// kick off the advisory enrichment, classify, and persist history for
// authenticated callers. No collaborator failure past input validation can
// fail the response.
type IntakeService struct {
	logger            *logrus.Logger
	classifier        domain.Classifier
	extractor         domain.TextExtractor
	enricher          domain.Enricher
	store             history.Store
	enrichmentTimeout time.Duration
}

// PredictInput carries one intake request. UserID is empty for anonymous
// callers; File is nil when no document was uploaded.
type PredictInput struct {
	Symptoms string
	File     *domain.UploadedFile
	UserID   string
}

// NewIntakeService creates the intake orchestrator. The enricher and store may
// be nil; both are optional collaborators.
func NewIntakeService(
	logger *logrus.Logger,
	classifier domain.Classifier,
	extractor domain.TextExtractor,
	enricher domain.Enricher,
	store history.Store,
) *IntakeService {
	return &IntakeService{
		logger:            logger,
		classifier:        classifier,
		extractor:         extractor,
		enricher:          enricher,
		store:             store,
		enrichmentTimeout: defaultEnrichmentTimeout,
	}
}

// Predict runs the full intake workflow and returns the Recommendation. It
// fails only on empty merged input.
func (s *IntakeService) Predict(ctx context.Context, input PredictInput) (domain.Recommendation, error) {
	symptomsText := input.Symptoms

	var fileName string
	if input.File != nil {
		fileName = input.File.Name
		extracted := s.extractor.Extract(ctx, *input.File)
		s.logger.WithFields(logrus.Fields{
			"file_name":      fileName,
			"mime_type":      input.File.MIMEType,
			"extracted_size": len(extracted),
		}).Info("Extracted text from uploaded document")

		if symptomsText != "" {
			symptomsText += "\n\n" + reportDelimiter + "\n" + extracted
		} else {
			symptomsText = extracted
		}
	}

	if strings.TrimSpace(symptomsText) == "" {
		return domain.Recommendation{}, ErrEmptySymptoms
	}

	// Advisory enrichment is fire-and-forget: its own context, its own
	// timeout, outcome logged, result discarded.
	s.enrichAsync(symptomsText)

	recommendation := s.classifier.Classify(symptomsText)

	s.logger.WithFields(logrus.Fields{
		"disease":  recommendation.Disease,
		"severity": recommendation.Severity,
	}).Info("Symptom classification completed")

	if input.UserID != "" {
		s.saveHistory(ctx, input.UserID, symptomsText, fileName, recommendation)
	}

	return recommendation, nil
}

// enrichAsync launches the advisory analysis without awaiting it. The call is
// detached from the request context so cancellation of the response path never
// propagates into it, and vice versa.
func (s *IntakeService) enrichAsync(text string) {
	if s.enricher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.enrichmentTimeout)
		defer cancel()

		if _, err := s.enricher.Analyze(ctx, text); err != nil {
			middleware.RecordEnrichment("error")
			s.logger.WithError(err).Info("Advisory enrichment skipped")
			return
		}
		middleware.RecordEnrichment("success")
		s.logger.Debug("Advisory enrichment completed")
	}()
}

// saveHistory persists a search record for an authenticated caller. Failures
// are logged and suppressed; the response is already determined.
func (s *IntakeService) saveHistory(ctx context.Context, userID, symptomsText, fileName string, rec domain.Recommendation) {
	if s.store == nil {
		return
	}

	record := &domain.SearchRecord{
		UserID:   userID,
		Symptoms: domain.TruncateSymptoms(symptomsText),
		Disease:  rec.Disease,
		Severity: rec.Severity,
		FileName: fileName,
	}

	if err := s.store.Create(ctx, record); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to save search history")
		return
	}

	s.logger.WithField("user_id", userID).Debug("Search saved to history")
}
