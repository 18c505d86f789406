package session

import (
	"context"
	"sync"
	"time"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/service/cache"
)

// Store persists whole session records. Get returns nil without error when the id is
// unknown or expired.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		// a Save may have replaced the entry since the read lock was released
		if current, ok := m.entries[id]; ok && current.expired(m.now()) {
			delete(m.entries, id)
		}
		m.mu.Unlock()
		return nil, nil
	}

	s := entry.session
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *domain.Session, ttl time.Duration) error {
	entry := memoryEntry{session: *s}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[s.ID] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// RedisStore keeps sessions as JSON under constants.SessionConfig.KeyPrefix.
type RedisStore struct {
	cache *cache.CacheService
}

func NewRedisStore(c *cache.CacheService) *RedisStore {
	return &RedisStore{cache: c}
}

func key(id string) string {
	return constants.SessionConfig.KeyPrefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	found, err := r.cache.Get(ctx, key(id), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *domain.Session, ttl time.Duration) error {
	return r.cache.Set(ctx, key(s.ID), s, ttl)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Del(ctx, key(id))
}
