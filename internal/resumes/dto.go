package resumes

import (
	"encoding/json"
	"time"
)

// ResumeResponse is the outward-facing representation of a resume job.
type ResumeResponse struct {
	ResumeID      string          `json:"resumeId"`
	FileName      string          `json:"fileName"`
	SizeBytes     int64           `json:"sizeBytes"`
	Status        string          `json:"status"`
	ExtractedData json.RawMessage `json:"extractedData,omitempty"`
	Error         *DiagnosticDTO  `json:"error,omitempty"`
	UploadedAt    time.Time       `json:"uploadedAt"`
}

// DiagnosticDTO is the failure diagnostic exposed on failed jobs.
type DiagnosticDTO struct {
	ErrorKind string    `json:"errorKind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func toResponse(res Resume) ResumeResponse {
	out := ResumeResponse{
		ResumeID:   res.ID,
		FileName:   res.FileName,
		SizeBytes:  res.SizeBytes,
		Status:     res.Status,
		UploadedAt: res.CreatedAt,
	}
	if res.Status == StatusCompleted {
		out.ExtractedData = res.ExtractedData
	}
	if res.Status == StatusFailed && res.FailedAt != nil {
		out.Error = &DiagnosticDTO{
			ErrorKind: res.ErrorKind,
			Message:   res.ErrorMessage,
			Timestamp: *res.FailedAt,
		}
	}
	return out
}

func toListResponse(list []Resume) []ResumeResponse {
	out := make([]ResumeResponse, 0, len(list))
	for _, res := range list {
		out = append(out, toResponse(res))
	}
	return out
}
