package usage

import (
	"context"
	"sync"
	"time"

	"quickai-backend/internal/shared/auth"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]Account
	now  func() time.Time
}

// NewMemoryStore returns a process-local Store.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		data: make(map[string]Account),
		now:  time.Now,
	}
}

func (s *memoryStore) Ensure(ctx context.Context, userID, plan string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.loadLocked(userID)
	a.Plan = auth.NormalizePlan(plan)
	a.UpdatedAt = s.now().UTC()
	s.data[userID] = a
	return a, nil
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(userID), nil
}

func (s *memoryStore) IncrementIfBelow(ctx context.Context, userID string, limit int) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.loadLocked(userID)
	if a.FreeUsage >= limit {
		return Account{}, ErrLimitReached
	}
	a.FreeUsage++
	a.UpdatedAt = s.now().UTC()
	s.data[userID] = a
	return a, nil
}

func (s *memoryStore) Refund(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.loadLocked(userID)
	if a.FreeUsage > 0 {
		a.FreeUsage--
	}
	a.UpdatedAt = s.now().UTC()
	s.data[userID] = a
	return a, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.loadLocked(userID)
	a.FreeUsage = 0
	a.UpdatedAt = s.now().UTC()
	s.data[userID] = a
	return a, nil
}

func (s *memoryStore) loadLocked(userID string) Account {
	a, ok := s.data[userID]
	if !ok {
		return Account{UserID: userID, Plan: auth.PlanFree}
	}
	return a
}
