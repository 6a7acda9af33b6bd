package cache

import (
	"context"
	"sync"
	"time"
)

var _ ViewCache = (*MemoryViewCache)(nil)

type entry struct {
	view    []byte
	expires time.Time
}

// MemoryViewCache is a process-local ViewCache, used when no Redis is configured.
type MemoryViewCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]int64
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryViewCache returns an empty cache. A ttl <= 0 means entries only
// leave the cache through Revalidate.
func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{
		entries: make(map[string]entry),
		gens:    make(map[string]int64),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached view for path.
func (c *MemoryViewCache) Get(_ context.Context, path string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, ok := c.entries[path]; ok && cur.expires.Equal(e.expires) {
			delete(c.entries, path)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.view, true, nil
}

// Generation returns the current generation of path.
func (c *MemoryViewCache) Generation(_ context.Context, path string) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[path], nil
}

// Set stores the view for path unless path moved past gen.
func (c *MemoryViewCache) Set(_ context.Context, path string, gen int64, view []byte) error {
	e := entry{view: view}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[path] != gen {
		return nil
	}
	c.entries[path] = e
	return nil
}

// Revalidate drops the view for path and advances its generation.
func (c *MemoryViewCache) Revalidate(_ context.Context, path string) error {
	c.mu.Lock()
	delete(c.entries, path)
	c.gens[path]++
	c.mu.Unlock()
	return nil
}
