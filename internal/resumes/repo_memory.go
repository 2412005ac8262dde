package resumes

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo, used for local dev and
// tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // id -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[res.ID] = res
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepo) GetByUser(ctx context.Context, userID, id string) (Resume, error) {
	res, err := r.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var out []Resume
	for _, res := range r.data {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Resume{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.data[id]
	if !ok || res.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) MarkCompleted(ctx context.Context, id string, extracted json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if Terminal(res.Status) {
		return ErrTerminalStatus
	}
	res.Status = StatusCompleted
	res.ExtractedData = extracted
	res.UpdatedAt = time.Now().UTC()
	r.data[id] = res
	return nil
}

func (r *MemoryRepo) MarkFailed(ctx context.Context, id string, diag Diagnostic) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if Terminal(res.Status) {
		return ErrTerminalStatus
	}
	ts := diag.Timestamp
	res.Status = StatusFailed
	res.ErrorKind = diag.ErrorKind
	res.ErrorMessage = diag.Message
	res.FailedAt = &ts
	res.UpdatedAt = time.Now().UTC()
	r.data[id] = res
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
