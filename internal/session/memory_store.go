package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/openshelf/storefront/internal/domain"
)

// MemoryStore is a single-process Store backed by go-cache. It is meant for
// development and tests; sessions vanish on restart.
type MemoryStore struct {
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore expires sessions after ttl without activity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: cache.New(ttl, 2*ttl),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.items.Set(s.ID, &cp, m.ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	v, ok := m.items.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v.(*domain.Session)
	return &cp, nil
}

// Touch refreshes last activity and expiry. Writes are serialized with Delete so
// a touch racing a logout cannot bring the session back.
func (m *MemoryStore) Touch(_ context.Context, id string) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items.Get(id)
	if !ok {
		return ErrNotFound
	}
	cp := *v.(*domain.Session)
	cp.LastActivity = now
	m.items.Set(id, &cp, m.ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items.Delete(id)
	return nil
}
