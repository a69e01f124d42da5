package generator

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/seolim/thoughtcast/internal/domain"
)

// ContentCache bounds repeat LLM spend for identical requests. Misses are
// always safe: a cold call must produce identical results, only slower.
type ContentCache interface {
	Get(ctx context.Context, key string) (*domain.EnhancedContentResult, bool)
	Set(ctx context.Context, key string, result *domain.EnhancedContentResult)
}

// CacheKey derives the cache key from the lower-cased trimmed topic plus a
// deterministic serialization of the profile.
func CacheKey(topic string, profile domain.GeneratorProfile) string {
	serialized, err := json.Marshal(profile)
	if err != nil {
		serialized = []byte("{}")
	}
	return strings.ToLower(strings.TrimSpace(topic)) + "|" + string(serialized)
}

type memoryEntry struct {
	result     *domain.EnhancedContentResult
	insertedAt time.Time
}

// MemoryCache is the process-local implementation: TTL expiry plus a FIFO
// size bound. Eviction removes the single oldest-inserted entry; this is a
// memory bound, not a correctness mechanism. Safe for concurrent use;
// same-key races resolve last-write-wins.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string]*memoryEntry
	order    []string
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:  make(map[string]*memoryEntry),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.EnhancedContentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	// An expired entry is treated as absent even before the size bound
	// evicts it.
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		c.removeLocked(key)
		return nil, false
	}
	return entry.result, true
}

func (c *MemoryCache) Set(_ context.Context, key string, result *domain.EnhancedContentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.result = result
		existing.insertedAt = c.now()
		return
	}

	if len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.removeLocked(c.order[0])
	}

	c.entries[key] = &memoryEntry{result: result, insertedAt: c.now()}
	c.order = append(c.order, key)
}

// Len reports the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
