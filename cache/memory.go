package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	data    []byte
	count   int64
	expires time.Time
}

// memoryBackend is the in-process store used without Redis. The LRU bounds
// memory and drops anything older than maxTTL; shorter per-key ttls are
// checked on read.
type memoryBackend struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, memoryEntry]
	now     func() time.Time
}

const maxTTL = time.Hour

func newMemoryBackend(size int) *memoryBackend {
	return &memoryBackend{
		entries: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now:     time.Now,
	}
}

func (m *memoryBackend) live(key string) (memoryEntry, bool) {
	e, ok := m.entries.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	if !m.now().Before(e.expires) {
		m.entries.Remove(key)
		return memoryEntry{}, false
	}
	return e, true
}

func (m *memoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok || e.data == nil {
		return nil, ErrMiss
	}
	return e.data, nil
}

func (m *memoryBackend) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries.Add(key, memoryEntry{data: val, expires: m.now().Add(ttl)})
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.entries.Remove(k)
	}
	return nil
}

func (m *memoryBackend) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		e = memoryEntry{expires: m.now().Add(window)}
	}
	e.count++
	m.entries.Add(key, e)
	return e.count, nil
}
