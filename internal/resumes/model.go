package resumes

import (
	"encoding/json"
	"time"
)

// Job status lifecycle. Processing is the only non-terminal state; completed
// and failed are terminal and never transition again.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Resume is an uploaded resume and its extraction job state.
type Resume struct {
	ID            string
	UserID        string
	FileName      string
	SizeBytes     int64
	MimeType      string
	StorageKey    string
	Status        string
	ExtractedData json.RawMessage
	ErrorKind     string
	ErrorMessage  string
	FailedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Diagnostic captures why a job failed, persisted alongside the failed status.
type Diagnostic struct {
	ErrorKind string    `json:"errorKind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
