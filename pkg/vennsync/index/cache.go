package index

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

// Cache is a document-scoped key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key for doc and whether it was present and unexpired.
	Get(ctx context.Context, doc, key string) ([]byte, bool, error)
	// Put stores value under key for doc for ttl.
	Put(ctx context.Context, doc, key string, value []byte, ttl time.Duration) error
	// Remove deletes key for doc.
	Remove(ctx context.Context, doc, key string) error
}

// DefaultMaxEntries bounds the number of entries kept by a MemoryCache.
const DefaultMaxEntries = 256

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is an in-process Cache that evicts the least recently used
// entries once it holds more than its maximum.
type MemoryCache struct {
	mu  sync.Mutex
	lru *lru.Cache
	now func() time.Time
}

// NewMemoryCache creates a MemoryCache holding at most maxEntries entries.
// A non-positive maxEntries uses DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{lru: lru.New(maxEntries), now: time.Now}
}

func memoryKey(doc, key string) string {
	return doc + "\x00" + key
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, doc, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := memoryKey(doc, key)
	v, ok := c.lru.Get(k)
	if !ok {
		return nil, false, nil
	}
	e := v.(memoryEntry)
	if !c.now().Before(e.expires) {
		c.lru.Remove(k)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(_ context.Context, doc, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	c.lru.Add(memoryKey(doc, key), memoryEntry{value: stored, expires: c.now().Add(ttl)})
	return nil
}

// Remove implements Cache.
func (c *MemoryCache) Remove(_ context.Context, doc, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Remove(memoryKey(doc, key))
	return nil
}
