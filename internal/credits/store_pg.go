package credits

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed credit store over the users table.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Balance(ctx context.Context, userID string) (int, error) {
	var bal int
	err := s.DB.QueryRowContext(ctx, `
SELECT credits FROM users WHERE id = $1`, userID).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return bal, nil
}

// Debit decrements atomically; the WHERE clause makes overdraft impossible
// without an explicit row lock.
func (s *pgStore) Debit(ctx context.Context, userID string, n int) (int, error) {
	var bal int
	err := s.DB.QueryRowContext(ctx, `
UPDATE users SET credits = credits - $1, updated_at = NOW()
WHERE id = $2 AND credits >= $1
RETURNING credits`, n, userID).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		// Either no such user or not enough balance; disambiguate for the caller.
		if _, balErr := s.Balance(ctx, userID); balErr != nil {
			return 0, balErr
		}
		return 0, ErrInsufficientCredits
	}
	if err != nil {
		return 0, err
	}
	return bal, nil
}

func (s *pgStore) Refund(ctx context.Context, userID string, n int) (int, error) {
	var bal int
	err := s.DB.QueryRowContext(ctx, `
UPDATE users SET credits = credits + $1, updated_at = NOW()
WHERE id = $2
RETURNING credits`, n, userID).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	return bal, nil
}
