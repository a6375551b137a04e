package quest

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pettycoon/backend/internal/domain"
)

// DefaultQuestTTL bounds staleness of the active quest list after a content
// deploy.
const DefaultQuestTTL = 5 * time.Minute

const questsKey = "active"

type questCache struct {
	lru *expirable.LRU[string, []domain.Quest]
}

func newQuestCache(ttl time.Duration) *questCache {
	return &questCache{
		lru: expirable.NewLRU[string, []domain.Quest](1, nil, ttl),
	}
}

func (c *questCache) Get() ([]domain.Quest, bool) {
	return c.lru.Get(questsKey)
}

func (c *questCache) Set(quests []domain.Quest) {
	c.lru.Add(questsKey, quests)
}
