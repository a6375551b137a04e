package profile

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pettycoon/backend/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema.
// Increment when the cached profile shape changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// cachedProfileEntry wraps a profile with version metadata for invalidation
type cachedProfileEntry struct {
	Version  string          `json:"version"`
	Profile  *domain.Profile `json:"profile"`
	CachedAt time.Time       `json:"cached_at"`
}

// profileCache is a small read cache in front of profile lookups. Entries
// are short-lived and every engine mutation invalidates eagerly, so reads
// through the cache stay close to the row.
type profileCache struct {
	lru *expirable.LRU[string, *cachedProfileEntry]
}

func newProfileCache(size int, ttl time.Duration) *profileCache {
	return &profileCache{
		lru: expirable.NewLRU[string, *cachedProfileEntry](size, nil, ttl),
	}
}

// Get returns (profile, true) on a fresh hit. Entries written by an older
// schema version are dropped on read.
func (c *profileCache) Get(userID string) (*domain.Profile, bool) {
	entry, found := c.lru.Get(userID)
	if !found {
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(userID)
		return nil, false
	}

	return entry.Profile, true
}

// Set stores a profile with the current schema version.
func (c *profileCache) Set(userID string, p *domain.Profile) {
	c.lru.Add(userID, &cachedProfileEntry{
		Version:  CacheSchemaVersion,
		Profile:  p,
		CachedAt: time.Now(),
	})
}

// Invalidate removes one user's entry after a mutation.
func (c *profileCache) Invalidate(userID string) {
	c.lru.Remove(userID)
}

// Clear removes all entries.
func (c *profileCache) Clear() {
	c.lru.Purge()
}
