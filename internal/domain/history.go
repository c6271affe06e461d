package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchRecord associates a classification outcome with the user who requested
// it. The symptom text is truncated before persistence; the full input is never
// stored.
type SearchRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Symptoms  string    `json:"symptoms"`
	Disease   string    `json:"disease"`
	Severity  string    `json:"severity"`
	FileName  string    `json:"file_name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxStoredSymptomLength bounds the symptom text persisted per record.
const MaxStoredSymptomLength = 200

// TruncateSymptoms shortens symptom text to the persisted limit.
func TruncateSymptoms(s string) string {
	if len(s) <= MaxStoredSymptomLength {
		return s
	}
	return s[:MaxStoredSymptomLength]
}
