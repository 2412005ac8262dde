package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/pdftext"
	"resume-parser-backend/internal/render"
	"resume-parser-backend/internal/resumes"
	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/storage/object"
	"resume-parser-backend/internal/shared/telemetry"
)

// RefundFunc returns the per-job debit to a user after a terminal failure.
type RefundFunc func(ctx context.Context, userID string) error

// Service runs the extraction pipeline for one job at a time: classify,
// extract, normalize, validate, finalize. It is the sole writer of a job's
// status once processing starts.
type Service struct {
	Repo     resumes.Repo
	Store    object.ObjectStore
	Client   llm.Client
	Renderer *render.Renderer
	Refund   RefundFunc

	// ExtractText overrides the text-extraction capability; nil means
	// pdftext.Extract.
	ExtractText func(data []byte) string
}

// Process drives one job to a terminal status. Any failure, including a
// panic in a pipeline step, finalizes the job as failed with a diagnostic
// and triggers the refund; the original error is returned for logging.
func (s *Service) Process(ctx context.Context, resumeID, requestID string) (err error) {
	res, getErr := s.Repo.Get(ctx, resumeID)
	if getErr != nil {
		return fmt.Errorf("load job %s: %w", resumeID, getErr)
	}
	if resumes.Terminal(res.Status) {
		// Redelivered message for an already-finalized job.
		telemetry.Info("extraction.skip_terminal", map[string]any{
			"resume_id": resumeID,
			"status":    res.Status,
		})
		return nil
	}

	started := time.Now()
	metrics.IncExtractionStarted()
	telemetry.Info("extraction.started", map[string]any{
		"resume_id":  resumeID,
		"request_id": requestID,
		"size_bytes": res.SizeBytes,
	})

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
			s.finalizeFailure(ctx, res, err, KindPanic)
		}
		metrics.ObserveExtractionDurationMs(float64(time.Since(started).Milliseconds()))
	}()

	encoded, runErr := s.run(ctx, res)
	if runErr != nil {
		s.finalizeFailure(ctx, res, runErr, Classify(runErr))
		return runErr
	}

	if err := retryStoreUpdate(ctx, func(ctx context.Context) error {
		return s.Repo.MarkCompleted(ctx, res.ID, encoded)
	}); err != nil {
		if errors.Is(err, resumes.ErrTerminalStatus) {
			return nil
		}
		s.finalizeFailure(ctx, res, err, KindStoreError)
		return err
	}

	metrics.IncExtractionCompleted()
	telemetry.Info("extraction.completed", map[string]any{
		"resume_id":   resumeID,
		"request_id":  requestID,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return nil
}

// run executes the pipeline steps and returns the validated canonical JSON.
func (s *Service) run(ctx context.Context, res resumes.Resume) (encoded []byte, err error) {
	data, err := s.loadDocument(ctx, res.StorageKey)
	if err != nil {
		return nil, err
	}

	// Text extraction never fails the job; a corrupt structure yields empty
	// text and routes the document to vision mode.
	extract := s.ExtractText
	if extract == nil {
		extract = pdftext.Extract
	}
	text := extract(data)
	cls := ClassifyDocument(text, res.SizeBytes)
	metrics.IncExtractionMode(string(cls.Mode))
	telemetry.Info("extraction.classified", map[string]any{
		"resume_id":  res.ID,
		"mode":       string(cls.Mode),
		"size_class": string(cls.SizeClass),
		"text_len":   cls.TextLen,
	})

	var raw []byte
	if cls.Mode == ModeText {
		raw, err = s.Client.ExtractFromText(ctx, text)
	} else {
		var pages []render.PageImage
		pages, err = s.Renderer.Render(ctx, data)
		if err == nil {
			raw, err = s.Client.ExtractFromImages(ctx, pagePNGs(pages))
		}
	}
	if err != nil {
		return nil, err
	}

	// Model output is untrusted input: coerce, then gate on the schema.
	rec := Normalize(raw)
	return ValidateRecord(rec)
}

func (s *Service) loadDocument(ctx context.Context, storageKey string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

// finalizeFailure records the failed status with its diagnostic and refunds
// the job debit. The refund fires only when this call performs the
// processing -> failed transition, so redeliveries and double finalization
// can never refund twice. If the store write fails after retries the error
// is logged and the job stays in processing; the original error still
// propagates to the caller.
func (s *Service) finalizeFailure(ctx context.Context, res resumes.Resume, cause error, kind string) {
	metrics.IncExtractionFailed()

	// The terminal write must survive cancellation of the job context; a
	// worker draining on SIGTERM still has to record the failure.
	ctx = context.WithoutCancel(ctx)

	diag := resumes.Diagnostic{
		ErrorKind: kind,
		Message:   sanitizeMessage(cause),
		Timestamp: time.Now().UTC(),
	}
	markErr := retryStoreUpdate(ctx, func(ctx context.Context) error {
		return s.Repo.MarkFailed(ctx, res.ID, diag)
	})

	switch {
	case markErr == nil:
		telemetry.Error("extraction.failed", map[string]any{
			"resume_id":  res.ID,
			"error_kind": kind,
			"error":      diag.Message,
		})
		if s.Refund != nil {
			if refundErr := s.Refund(ctx, res.UserID); refundErr != nil {
				telemetry.Error("extraction.refund_failed", map[string]any{
					"resume_id": res.ID,
					"user_id":   res.UserID,
					"error":     refundErr.Error(),
				})
			}
		}
	case errors.Is(markErr, resumes.ErrTerminalStatus):
		// Already finalized elsewhere; refund was handled by that transition.
		telemetry.Warn("extraction.finalize_skipped", map[string]any{
			"resume_id": res.ID,
		})
	default:
		telemetry.Error("extraction.finalize_failed", map[string]any{
			"resume_id":  res.ID,
			"error_kind": kind,
			"error":      markErr.Error(),
		})
	}
}

func pagePNGs(pages []render.PageImage) [][]byte {
	out := make([][]byte, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.PNG)
	}
	return out
}
