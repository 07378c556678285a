package graph

import (
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// defaultCacheTTL and defaultCacheByteBudget follow spec.md §4.4: "TTL is
// small (~3 minutes); eviction is LRU with a byte budget".
const (
	defaultCacheTTL         = 3 * time.Minute
	defaultCacheByteBudget  = 8 * 1024 * 1024
)

type cacheEntry struct {
	key       string
	value     interface{}
	size      int
	expiresAt time.Time
}

// lookupCache is the graph's unified bounded cache for lookup results,
// keyed by a discriminator prefix (name/fqn/refs/deps/...), combining
// TTL-based expiry with LRU eviction under a byte budget rather than a
// fixed node cap. Keys are hashed with xxhash for the LRU list's internal
// bookkeeping; the original string key is kept on the entry for prefix
// invalidation.
type lookupCache struct {
	mu          sync.Mutex
	ttl         time.Duration
	byteBudget  int
	usedBytes   int
	entries     map[uint64]*cacheEntry
	accessOrder []uint64
}

func newLookupCache(ttl time.Duration, byteBudget int) *lookupCache {
	return &lookupCache{
		ttl:        ttl,
		byteBudget: byteBudget,
		entries:    make(map[uint64]*cacheEntry),
	}
}

func hashKey(key string) uint64 {
	return xxhash.Sum64String(key)
}

func (c *lookupCache) get(key string) (interface{}, bool) {
	h := hashKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[h]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.evictLocked(h)
		return nil, false
	}
	c.touchLocked(h)
	return e.value, true
}

func (c *lookupCache) put(key string, value interface{}, size int) {
	if size <= 0 {
		size = 1
	}
	h := hashKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[h]; exists {
		c.evictLocked(h)
	}
	for c.usedBytes+size > c.byteBudget && len(c.accessOrder) > 0 {
		c.evictLocked(c.accessOrder[len(c.accessOrder)-1])
	}
	c.entries[h] = &cacheEntry{key: key, value: value, size: size, expiresAt: time.Now().Add(c.ttl)}
	c.usedBytes += size
	c.accessOrder = append([]uint64{h}, c.accessOrder...)
}

func (c *lookupCache) touchLocked(h uint64) {
	for i, v := range c.accessOrder {
		if v == h {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			break
		}
	}
	c.accessOrder = append([]uint64{h}, c.accessOrder...)
}

func (c *lookupCache) evictLocked(h uint64) {
	e, ok := c.entries[h]
	if !ok {
		return
	}
	delete(c.entries, h)
	c.usedBytes -= e.size
	for i, v := range c.accessOrder {
		if v == h {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			break
		}
	}
}

// invalidatePrefix drops every cached entry whose original key starts with
// prefix — used when a write affects a keyed space (spec.md §4.4).
func (c *lookupCache) invalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for h, e := range c.entries {
		if strings.HasPrefix(e.key, prefix) {
			c.evictLocked(h)
		}
	}
}

func (c *lookupCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
	c.accessOrder = nil
	c.usedBytes = 0
}
