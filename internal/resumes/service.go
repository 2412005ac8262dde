package resumes

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-parser-backend/internal/credits"
	"resume-parser-backend/internal/queue"
	"resume-parser-backend/internal/shared/storage/object"
	"resume-parser-backend/internal/shared/telemetry"
	"resume-parser-backend/internal/shared/util"
)

const pdfMagic = "%PDF-"

// Service contains business logic for resume uploads and job lifecycle.
type Service struct {
	Repo    Repo
	Store   object.ObjectStore
	Credits *credits.Service
	Queue   queue.Client
}

// Upload validates and stores the file, debits the user, records the job in
// processing status, and submits it for extraction. The debit happens before
// the job row exists; every failure after the debit refunds it.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Resume, error) {
	fileName, err := util.SanitizeFileName(fileName)
	if err != nil || !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return Resume{}, ErrInvalidInput
	}

	// The extension alone is caller-controlled; the %PDF- magic is not.
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(pdfMagic))
	if err != nil || string(magic) != pdfMagic {
		return Resume{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, br)
	if err != nil {
		return Resume{}, err
	}
	if size == 0 {
		_ = s.Store.Delete(ctx, storageKey)
		return Resume{}, ErrInvalidInput
	}

	if err := s.Credits.DebitForJob(ctx, userID); err != nil {
		_ = s.Store.Delete(ctx, storageKey)
		return Resume{}, err
	}

	now := time.Now().UTC()
	res := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		SizeBytes:  size,
		MimeType:   mimeType,
		StorageKey: storageKey,
		Status:     StatusProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		s.refund(ctx, userID, res.ID)
		_ = s.Store.Delete(ctx, storageKey)
		return Resume{}, err
	}

	msg := queue.Message{
		ResumeID:   res.ID,
		RequestID:  uuid.NewString(),
		EnqueuedAt: now.Format(time.RFC3339),
		Version:    queue.MessageVersion,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		// Job never reached a worker; finalize it here so it cannot hang in
		// processing, then refund the debit for the terminal failure.
		diag := Diagnostic{
			ErrorKind: "queue_error",
			Message:   "failed to submit extraction job",
			Timestamp: time.Now().UTC(),
		}
		if markErr := s.Repo.MarkFailed(ctx, res.ID, diag); markErr != nil {
			telemetry.Error("resumes.finalize_failed", map[string]any{
				"resume_id": res.ID,
				"error":     markErr.Error(),
			})
		}
		s.refund(ctx, userID, res.ID)
		return Resume{}, err
	}

	return res, nil
}

func (s *Service) refund(ctx context.Context, userID, resumeID string) {
	if err := s.Credits.RefundForJob(ctx, userID); err != nil {
		telemetry.Error("resumes.refund_failed", map[string]any{
			"resume_id": resumeID,
			"user_id":   userID,
			"error":     err.Error(),
		})
	}
}

// Get returns a resume scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if userID == "" || id == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.GetByUser(ctx, userID, id)
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes the resume row and its stored file. A missing object is not
// an error; the row is the source of truth.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res, err := s.Repo.GetByUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, res.StorageKey); err != nil {
		telemetry.Warn("resumes.object_delete_failed", map[string]any{
			"resume_id":   id,
			"storage_key": res.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

// Download opens the stored PDF for the owner.
func (s *Service) Download(ctx context.Context, userID, id string) (io.ReadCloser, Resume, error) {
	res, err := s.Repo.GetByUser(ctx, userID, id)
	if err != nil {
		return nil, Resume{}, err
	}
	rc, err := s.Store.Open(ctx, res.StorageKey)
	if err != nil {
		return nil, Resume{}, err
	}
	return rc, res, nil
}
