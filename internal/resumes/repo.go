package resumes

import (
	"context"
	"encoding/json"
)

// Repo defines persistence operations for resumes. User-scoped reads never
// leak other users' rows; Get is unscoped for the extraction worker, which
// addresses jobs by ID alone.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	Get(ctx context.Context, id string) (Resume, error)
	GetByUser(ctx context.Context, userID, id string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	Delete(ctx context.Context, userID, id string) error

	// MarkCompleted and MarkFailed finalize a job. Both refuse to touch rows
	// already in a terminal status, returning ErrTerminalStatus.
	MarkCompleted(ctx context.Context, id string, extracted json.RawMessage) error
	MarkFailed(ctx context.Context, id string, diag Diagnostic) error
}
