// Package cache holds analysis responses keyed by the full request content.
// Entries expire after a TTL and the map is capped, evicting the oldest
// entry on insert. All operations are safe for concurrent use and never
// return errors.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/oneirolabs/dream-backend/internal/types"
)

type entry struct {
	response  *types.AnalysisResponse
	createdAt time.Time
}

type ResultCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry
	now        func() time.Time
}

// Key derives the cache key from the normalized dream text and the use_ml
// flag. The full text is hashed so distinct long dreams sharing a prefix
// never collide.
func Key(normalizedText string, useML bool) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%t", normalizedText, useML)))
	return hex.EncodeToString(sum[:])
}

func New(ttl time.Duration, maxEntries int) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &ResultCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
		now:        time.Now,
	}
}

// Get returns the cached response when present and younger than the TTL.
// Expired entries are removed on read.
func (c *ResultCache) Get(key string) (*types.AnalysisResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.response, true
}

// Set stores a response, evicting the oldest entry first when the cache is
// at its size cap.
func (c *ResultCache) Set(key string, response *types.AnalysisResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{response: response, createdAt: c.now()}
}

func (c *ResultCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range c.entries {
		if first || e.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.createdAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear atomically empties the cache and returns the number of entries
// removed.
func (c *ResultCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := len(c.entries)
	c.entries = make(map[string]entry)
	return count
}
