// ABOUTME: Thread-safe TTL cache for suppressing duplicate inbound activities
// ABOUTME: Teams redelivers activities on webhook timeouts; the cache keeps processing idempotent

package dedupe

import (
	"sync"
	"time"
)

// ActivityKey builds the cache key for an inbound activity. Activity ids are
// only unique per channel, so the channel tag is part of the key.
func ActivityKey(channelID, activityID string) string {
	return channelID + ":" + activityID
}

type entry struct {
	seenAt time.Time
}

// Cache tracks recently seen activity keys within a TTL window, bounded by a
// maximum size. All methods are safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	seen    map[string]entry
	ttl     time.Duration
	maxSize int
}

// New creates a cache that remembers keys for the given TTL and holds at most
// maxSize entries. Expired entries are dropped lazily on access.
func New(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		seen:    make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// CheckAndMark atomically checks whether a key has been seen within the TTL
// and marks it if not. Returns true if the key was already seen (duplicate),
// false if it is new and now marked.
func (c *Cache) CheckAndMark(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if e, ok := c.seen[key]; ok && now.Sub(e.seenAt) < c.ttl {
		return true
	}

	if len(c.seen) >= c.maxSize {
		c.evictLocked(now)
	}

	c.seen[key] = entry{seenAt: now}
	return false
}

// Check returns true if the key has been seen and is not expired.
// Use with Mark for the check -> process -> mark pattern, where a key is only
// marked after the activity was processed successfully.
func (c *Cache) Check(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.seen[key]
	return ok && time.Since(e.seenAt) < c.ttl
}

// Mark records that a key has been seen.
func (c *Cache) Mark(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if len(c.seen) >= c.maxSize {
		c.evictLocked(now)
	}
	c.seen[key] = entry{seenAt: now}
}

// Len returns the number of tracked keys, including any not yet evicted
// expired entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// evictLocked drops expired entries, and if nothing has expired, the oldest
// entry. Must be called with mu held.
func (c *Cache) evictLocked(now time.Time) {
	var oldestKey string
	var oldestAt time.Time

	for key, e := range c.seen {
		if now.Sub(e.seenAt) >= c.ttl {
			delete(c.seen, key)
			continue
		}
		if oldestKey == "" || e.seenAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.seenAt
		}
	}

	if len(c.seen) >= c.maxSize && oldestKey != "" {
		delete(c.seen, oldestKey)
	}
}
