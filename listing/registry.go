package listing

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry keeps one coordinator per browser view session and forgets
// sessions that stay idle longer than the ttl.
type Registry struct {
	fetcher  Fetcher
	pageSize int

	mu   sync.Mutex
	byID *expirable.LRU[string, *Coordinator]
}

func NewRegistry(f Fetcher, pageSize, size int, ttl time.Duration) *Registry {
	return &Registry{
		fetcher:  f,
		pageSize: pageSize,
		byID:     expirable.NewLRU[string, *Coordinator](size, nil, ttl),
	}
}

// Get returns the session's coordinator, creating it on first use. created
// tells the caller the view still needs mounting.
func (r *Registry) Get(sessionID string) (c *Coordinator, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byID.Get(sessionID); ok {
		r.byID.Add(sessionID, c) // extend the idle window
		return c, false
	}
	c = NewCoordinator(r.fetcher, r.pageSize)
	r.byID.Add(sessionID, c)
	return c, true
}

func (r *Registry) Forget(sessionID string) {
	r.byID.Remove(sessionID)
}
