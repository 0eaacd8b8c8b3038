// SPDX-License-Identifier: MIT

// Package cache provides a typed in-memory cache with TTL support. The bot
// uses it for the display-stop list and for fuzzy search results.
package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe key/value store with per-entry expiration.
type Cache[V any] interface {
	// Get retrieves a value. The second return is false if the key is
	// missing or expired.
	Get(key string) (V, bool)
	// Set stores a value with the given TTL.
	Set(key string, value V, ttl time.Duration)
	// Delete removes one key.
	Delete(key string)
	// Clear removes all entries.
	Clear()
	// Stats returns hit/miss counters.
	Stats() Stats
	// Stop halts the background janitor.
	Stop()
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type entry[V any] struct {
	value      V
	expiration time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return now.After(e.expiration)
}

type memoryCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	stats   Stats

	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates an in-memory cache. When cleanupInterval is positive a
// janitor goroutine evicts expired entries on that cadence; Stop shuts it
// down.
func NewMemory[V any](cleanupInterval time.Duration) Cache[V] {
	c := &memoryCache[V]{
		entries:  make(map[string]entry[V]),
		interval: cleanupInterval,
		stop:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor()
	}
	return c
}

func (c *memoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found || e.expired(time.Now()) {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	return e.value, true
}

func (c *memoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	c.stats.Sets++
}

func (c *memoryCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

func (c *memoryCache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.CurrentSize = len(c.entries)
	return stats
}

func (c *memoryCache[V]) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
}

func (c *memoryCache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *memoryCache[V]) janitor() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}
