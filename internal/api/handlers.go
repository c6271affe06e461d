package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/symptom-intake-server/internal/auth"
	"github.com/symptom-intake-server/internal/domain"
	"github.com/symptom-intake-server/internal/history"
	"github.com/symptom-intake-server/internal/middleware"
	"github.com/symptom-intake-server/internal/service"
)

// predictRequest is the JSON body for prediction requests without a file.
type predictRequest struct {
	Symptoms string `json:"symptoms"`
}

// saveHistoryRequest is the body for explicit history saves.
type saveHistoryRequest struct {
	Symptoms string `json:"symptoms" binding:"required"`
	Disease  string `json:"disease" binding:"required"`
	Severity string `json:"severity" binding:"required"`
	FileName string `json:"file_name"`
}

// handlePredict runs one intake: merge typed symptoms with an optional
// uploaded document, classify, and answer with the recommendation.
func (s *Server) handlePredict(c *gin.Context) {
	maxBytes := s.configManager.GetConfig().Upload.MaxFileBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	input := service.PredictInput{UserID: auth.UserID(c)}

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		input.Symptoms = c.PostForm("symptoms")

		fileHeader, err := c.FormFile("file")
		if err == nil {
			src, openErr := fileHeader.Open()
			if openErr != nil {
				s.respondError(c, http.StatusBadRequest, domain.ErrExtractionFailure, "could not read uploaded file")
				return
			}
			defer src.Close()

			data, readErr := io.ReadAll(src)
			if readErr != nil {
				s.respondError(c, http.StatusRequestEntityTooLarge, domain.ErrInvalidInput, "uploaded file exceeds the size limit")
				return
			}

			input.File = &domain.UploadedFile{
				Name:     fileHeader.Filename,
				MIMEType: fileHeader.Header.Get("Content-Type"),
				Data:     data,
			}
		} else if err != http.ErrMissingFile {
			// Body too large surfaces here as a multipart parse error
			s.respondError(c, http.StatusRequestEntityTooLarge, domain.ErrInvalidInput, "request exceeds the size limit")
			return
		}
	} else {
		var req predictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid request body")
			return
		}
		input.Symptoms = req.Symptoms
	}

	recommendation, err := s.intake.Predict(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrEmptySymptoms) {
			s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput,
				"Please provide symptoms description or upload a medical report")
			return
		}
		s.logger.WithError(err).Error("Prediction failed")
		s.respondError(c, http.StatusInternalServerError, domain.ErrInternalServer,
			"Internal server error. Please try again later.")
		return
	}

	middleware.RecordPrediction(recommendation.Disease)
	c.JSON(http.StatusOK, recommendation)
}

// handleListHistory returns the caller's most recent searches.
func (s *Server) handleListHistory(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	limit := s.configManager.GetConfig().History.ListLimit
	records, err := store.List(c.Request.Context(), auth.UserID(c), limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch search history")
		s.respondError(c, http.StatusInternalServerError, domain.ErrPersistenceFailure, "Failed to fetch search history")
		return
	}

	if records == nil {
		records = []*domain.SearchRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}

// handleSaveHistory stores an explicit history entry for the caller.
func (s *Server) handleSaveHistory(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	var req saveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "symptoms, disease and severity are required")
		return
	}

	record := &domain.SearchRecord{
		UserID:   auth.UserID(c),
		Symptoms: domain.TruncateSymptoms(req.Symptoms),
		Disease:  req.Disease,
		Severity: req.Severity,
		FileName: req.FileName,
	}

	if err := store.Create(c.Request.Context(), record); err != nil {
		s.logger.WithError(err).Error("Failed to save search history")
		s.respondError(c, http.StatusInternalServerError, domain.ErrPersistenceFailure, "Failed to save search history")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    record,
	})
}

// handleClearHistory removes all of the caller's history.
func (s *Server) handleClearHistory(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	if err := store.DeleteAll(c.Request.Context(), auth.UserID(c)); err != nil {
		s.logger.WithError(err).Error("Failed to clear search history")
		s.respondError(c, http.StatusInternalServerError, domain.ErrPersistenceFailure, "Failed to clear search history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Search history cleared successfully",
	})
}

// handleDeleteHistory removes a single history entry owned by the caller.
func (s *Server) handleDeleteHistory(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid history entry id")
		return
	}

	if err := store.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrInvalidInput, "Search entry not found")
			return
		}
		s.logger.WithError(err).Error("Failed to delete search history entry")
		s.respondError(c, http.StatusInternalServerError, domain.ErrPersistenceFailure, "Failed to delete search entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Search entry deleted successfully",
	})
}

// requireStore answers 503 when the server runs without persistence.
func (s *Server) requireStore(c *gin.Context) (history.Store, bool) {
	if s.store == nil {
		s.respondError(c, http.StatusServiceUnavailable, domain.ErrPersistenceFailure, "search history is not available")
		return nil, false
	}
	return s.store, true
}

func (s *Server) respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, domain.NewAPIError(code, message, "", c.GetString("correlation_id")))
}
