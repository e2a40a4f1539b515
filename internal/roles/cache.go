package roles

import (
	"sync"
	"time"
)

// Cache is the small TTL cache collaborator injected into the play-rate
// providers, so role assignment stays free of process-wide mutable state.
type Cache interface {
	Get(key string) (any, bool)
	Put(key string, value any, ttl time.Duration)
}

// MemoryCache is the default in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached value if present and not expired.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Put stores a value with the given TTL, replacing any previous entry.
func (c *MemoryCache) Put(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}
