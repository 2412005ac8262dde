package credits

import (
	"context"
	"sync"
)

const defaultStartingBalance = 30

type memoryStore struct {
	mu   sync.Mutex
	data map[string]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]int)}
}

func (s *memoryStore) ensureLocked(userID string) int {
	bal, ok := s.data[userID]
	if !ok {
		bal = defaultStartingBalance
		s.data[userID] = bal
	}
	return bal
}

func (s *memoryStore) Balance(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID), nil
}

func (s *memoryStore) Debit(ctx context.Context, userID string, n int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bal := s.ensureLocked(userID)
	if bal < n {
		return bal, ErrInsufficientCredits
	}
	bal -= n
	s.data[userID] = bal
	return bal, nil
}

func (s *memoryStore) Refund(ctx context.Context, userID string, n int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bal := s.ensureLocked(userID) + n
	s.data[userID] = bal
	return bal, nil
}
