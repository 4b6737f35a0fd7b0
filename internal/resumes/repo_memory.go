package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // id -> resume
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Resume),
		now:  time.Now,
	}
}

func (m *MemoryRepo) Create(ctx context.Context, r Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	r.normalize()
	r.Version = 1
	r.CreatedAt = now
	r.UpdatedAt = now
	m.data[r.ID] = r
	return r, nil
}

func (m *MemoryRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := []Resume{}
	for _, r := range m.data {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *MemoryRepo) GetPublic(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.data[id]
	if !ok || !r.Public {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepo) Replace(ctx context.Context, r Resume, expectedVersion int) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.data[r.ID]
	if !ok || cur.UserID != r.UserID {
		return Resume{}, ErrNotFound
	}
	if expectedVersion > 0 && cur.Version != expectedVersion {
		return Resume{}, ErrVersionConflict
	}
	r.normalize()
	r.CreatedAt = cur.CreatedAt
	r.Version = cur.Version + 1
	r.UpdatedAt = m.now().UTC()
	m.data[r.ID] = r
	return r, nil
}

func (m *MemoryRepo) SetVisibility(ctx context.Context, userID, id string, public bool) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return Resume{}, ErrNotFound
	}
	r.Public = public
	m.data[id] = r
	return r, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	delete(m.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
