package unlock

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pettycoon/backend/internal/domain"
)

// DefaultCatalogTTL bounds how long a stale catalog is served after a
// content deploy.
const DefaultCatalogTTL = 5 * time.Minute

const catalogKey = "catalog"

// catalogCache holds the immutable unlockable catalog. Content only changes
// on deploy, so a single TTL entry is enough.
type catalogCache struct {
	lru *expirable.LRU[string, []domain.CatalogItem]
}

func newCatalogCache(ttl time.Duration) *catalogCache {
	return &catalogCache{
		lru: expirable.NewLRU[string, []domain.CatalogItem](1, nil, ttl),
	}
}

func (c *catalogCache) Get() ([]domain.CatalogItem, bool) {
	return c.lru.Get(catalogKey)
}

func (c *catalogCache) Set(items []domain.CatalogItem) {
	c.lru.Add(catalogKey, items)
}
