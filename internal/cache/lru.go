// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/malwrapped/internal/metrics"
)

// Defaults applied by NewLRU to non-positive arguments.
const (
	DefaultCapacity = 1024
	DefaultTTL      = time.Hour
)

type lruEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	prev      *lruEntry[K, V]
	next      *lruEntry[K, V]
}

// LRU is a fixed-capacity least-recently-used cache whose entries also
// expire after a TTL.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	name     string
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[K]*lruEntry[K, V]

	// Sentinels; head.next is the most recently used entry.
	head *lruEntry[K, V]
	tail *lruEntry[K, V]

	hits   int64
	misses int64
}

// NewLRU creates a cache. name labels its metrics.
func NewLRU[K comparable, V any](name string, capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &LRU[K, V]{
		name:     name,
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[K]*lruEntry[K, V], capacity),
		head:     &lruEntry[K, V]{},
		tail:     &lruEntry[K, V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key if present and not expired.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.RecordCacheLookup(c.name, false)
		return zero, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.remove(entry)
		metrics.RecordCacheEviction(c.name)
		c.misses++
		metrics.RecordCacheLookup(c.name, false)
		return zero, false
	}

	c.moveToFront(entry)
	c.hits++
	metrics.RecordCacheLookup(c.name, true)
	return entry.value, true
}

// Add inserts or replaces key and resets its TTL. The least recently used
// entry is evicted when the cache is full.
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &lruEntry[K, V]{key: key, value: value, expiresAt: expiresAt}
	c.pushFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.remove(c.tail.prev)
		metrics.RecordCacheEviction(c.name)
	}
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if ok {
		c.remove(entry)
	}
	return ok
}

// Len returns the number of entries, expired ones included.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// PurgeExpired removes expired entries and returns how many were dropped.
func (c *LRU[K, V]) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if !now.Before(entry.expiresAt) {
			c.remove(entry)
			metrics.RecordCacheEviction(c.name)
			removed++
		}
		entry = prev
	}
	return removed
}

// Stats returns hit and miss counts and the current size.
func (c *LRU[K, V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

func (c *LRU[K, V]) pushFront(entry *lruEntry[K, V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *LRU[K, V]) unlink(entry *lruEntry[K, V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (c *LRU[K, V]) moveToFront(entry *lruEntry[K, V]) {
	c.unlink(entry)
	c.pushFront(entry)
}

func (c *LRU[K, V]) remove(entry *lruEntry[K, V]) {
	c.unlink(entry)
	delete(c.items, entry.key)
}
