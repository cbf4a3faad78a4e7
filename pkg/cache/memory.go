package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultCapacity bounds a MemoryCache created with capacity <= 0.
const DefaultCapacity = 1024

// MemoryCache is a bounded in-process cache guarded by a single mutex.
//
// When a new key arrives at capacity, expired entries are evicted oldest
// expiry first; if none have expired an arbitrary entry is dropped.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// NewMemoryCache returns a cache holding at most capacity entries. ttl is
// applied when Set is called with a zero TTL; zero means entries never expire.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryCache{
		entries:  make(map[string]memoryEntry),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if ttl <= 0 {
		ttl = c.ttl
	}
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evict(now)
	}
	c.entries[key] = e
	return nil
}

// evict frees at least one slot. Callers hold c.mu.
func (c *MemoryCache) evict(now time.Time) {
	type candidate struct {
		key       string
		expiresAt time.Time
	}
	var expired []candidate
	for k, e := range c.entries {
		if e.expired(now) {
			expired = append(expired, candidate{k, e.expiresAt})
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].expiresAt.Before(expired[j].expiresAt)
	})
	for _, cand := range expired {
		if len(c.entries) < c.capacity {
			return
		}
		delete(c.entries, cand.key)
	}
	for k := range c.entries {
		if len(c.entries) < c.capacity {
			return
		}
		delete(c.entries, k)
	}
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear drops every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error { return nil }

var (
	_ Cache   = (*MemoryCache)(nil)
	_ Clearer = (*MemoryCache)(nil)
)
