package creations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Creation // userId -> creations
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Creation),
		now:  time.Now,
	}
}

// Append stores a creation.
func (r *MemoryRepo) Append(ctx context.Context, c Creation) (Creation, error) {
	if err := ctx.Err(); err != nil {
		return Creation{}, err
	}
	c, err := prepare(c, r.now())
	if err != nil {
		return Creation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[c.UserID] = append(r.data[c.UserID], c)
	return c, nil
}

// ListByUser returns creations for a user, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Creation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Creation, len(r.data[userID]))
	copy(out, r.data[userID])
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
