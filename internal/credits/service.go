package credits

import (
	"context"

	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/telemetry"
)

type store interface {
	Balance(ctx context.Context, userID string) (int, error)
	Debit(ctx context.Context, userID string, n int) (int, error)
	Refund(ctx context.Context, userID string, n int) (int, error)
}

// Service manages per-user credit balances. When billing is disabled every
// debit and refund is a no-op, so the extraction pipeline never branches on
// the flag itself.
type Service struct {
	store   store
	enabled bool
	cost    int
}

// NewService constructs a Service with an in-memory store.
func NewService(enabled bool, costPerJob int) *Service {
	return &Service{store: newMemoryStore(), enabled: enabled, cost: costPerJob}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store, enabled bool, costPerJob int) *Service {
	return &Service{store: pgStore, enabled: enabled, cost: costPerJob}
}

// Enabled reports whether billing is enforced.
func (s *Service) Enabled() bool { return s.enabled }

// CostPerJob returns the configured debit per extraction job.
func (s *Service) CostPerJob() int { return s.cost }

// Balance returns the user's current balance. With billing disabled it
// reports zero without touching the store.
func (s *Service) Balance(ctx context.Context, userID string) (int, error) {
	if !s.enabled {
		return 0, nil
	}
	return s.store.Balance(ctx, userID)
}

// DebitForJob charges the per-job cost before processing starts. Returns
// ErrInsufficientCredits when the balance cannot cover it.
func (s *Service) DebitForJob(ctx context.Context, userID string) error {
	if !s.enabled || s.cost <= 0 {
		return nil
	}
	remaining, err := s.store.Debit(ctx, userID, s.cost)
	if err != nil {
		return err
	}
	telemetry.Info("credits.debited", map[string]any{
		"user_id":   userID,
		"amount":    s.cost,
		"remaining": remaining,
	})
	return nil
}

// RefundForJob returns the per-job cost after a failed job. Callers invoke it
// exactly once per failure; the service itself stays stateless about jobs.
func (s *Service) RefundForJob(ctx context.Context, userID string) error {
	if !s.enabled || s.cost <= 0 {
		return nil
	}
	remaining, err := s.store.Refund(ctx, userID, s.cost)
	if err != nil {
		return err
	}
	metrics.IncCreditsRefunded()
	telemetry.Info("credits.refunded", map[string]any{
		"user_id":   userID,
		"amount":    s.cost,
		"remaining": remaining,
	})
	return nil
}
