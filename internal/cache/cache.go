// Package cache provides short-lived response caching with ETag support.
// The memory backend serves a single process; the redis backend shares
// entries between replicas.
package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// TTL defaults. Odds move quickly and every upstream call costs credits, so
// provider responses live for a minute and a half.
const (
	TTLOdds      = 90 * time.Second
	TTLGames     = 5 * time.Minute
	TTLDiscovery = 10 * time.Minute
)

// Store is a TTL key/value cache for serialized responses.
type Store interface {
	// Get returns data, etag, and whether a live entry was found.
	Get(ctx context.Context, key string) (data []byte, etag string, ok bool)
	// Set stores data for ttl and returns its etag.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) string
	Stats(ctx context.Context) map[string]any
}

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

// Get retrieves a cached value.
func (c *Cache) Get(_ context.Context, key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || c.now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a value with a TTL.
func (c *Cache) Set(_ context.Context, key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled || ttl <= 0 {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: c.now().Add(ttl),
	}
	return etag
}

// Stats returns cache statistics.
func (c *Cache) Stats(context.Context) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]any{
		"backend":      "memory",
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
	}
}

// Close stops the background eviction loop.
func (c *Cache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// evictLoop periodically removes expired entries.
func (c *Cache) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evict()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	return ifNoneMatch == etag
}
