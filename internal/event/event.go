package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pettycoon/backend/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata interface{} `json:"metadata"`
}

// Common event types
const (
	ProfileLeveledUp    Type = "profile.leveled_up"
	AchievementUnlocked Type = "unlock.achievement"
	TitleUnlocked       Type = "unlock.title"
	RankAttained        Type = "unlock.rank"
	TitleEquipped       Type = "title.equipped"
	RewardClaimed       Type = "reward.claimed"
	QuestCompleted      Type = "quest.completed"
	QuestRewardClaimed  Type = "quest.reward_claimed"
	ChestClaimed        Type = "chest.claimed"
	PassiveClaimed      Type = "passive.claimed"
	LootboxPurchased    Type = "lootbox.purchased"
	LootboxOpened       Type = "lootbox.opened"
)

// Typed event payloads for type safety

// UnlockPayloadV1 is the typed payload for unlock-ledger events
type UnlockPayloadV1 struct {
	UserID    string `json:"user_id"`
	ItemType  string `json:"item_type"`
	ItemID    int    `json:"item_id"`
	ItemKey   string `json:"item_key"`
	AutoClaim bool   `json:"auto_claim"`
	Timestamp int64  `json:"timestamp"`
}

// RewardClaimedPayloadV1 is the typed payload for reward claim events
type RewardClaimedPayloadV1 struct {
	UserID    string `json:"user_id"`
	ItemType  string `json:"item_type"`
	ItemID    int    `json:"item_id"`
	Crystals  int64  `json:"crystals"`
	Diamonds  int64  `json:"diamonds"`
	Timestamp int64  `json:"timestamp"`
}

// LevelUpPayloadV1 is the typed payload for level-up events
type LevelUpPayloadV1 struct {
	UserID   string `json:"user_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	Source   string `json:"source,omitempty"`
}

// QuestCompletedPayloadV1 is the typed payload for quest completion events
type QuestCompletedPayloadV1 struct {
	UserID   string `json:"user_id"`
	QuestID  int    `json:"quest_id"`
	QuestKey string `json:"quest_key"`
	Epoch    string `json:"epoch"`
}

// ChestClaimedPayloadV1 is the typed payload for daily chest claims
type ChestClaimedPayloadV1 struct {
	UserID     string `json:"user_id"`
	Crystals   int64  `json:"crystals"`
	Stones     int64  `json:"stones"`
	StreakDays int    `json:"streak_days"`
	Timestamp  int64  `json:"timestamp"`
}

// PassiveClaimedPayloadV1 is the typed payload for passive income claims
type PassiveClaimedPayloadV1 struct {
	UserID       string `json:"user_id"`
	Crystals     int64  `json:"crystals"`
	HoursOffline int    `json:"hours_offline"`
	XPPenalty    int64  `json:"xp_penalty"`
	Timestamp    int64  `json:"timestamp"`
}

// LootboxOpenedPayloadV1 is the typed payload for lootbox open events
type LootboxOpenedPayloadV1 struct {
	UserID         string `json:"user_id"`
	LootboxID      int    `json:"lootbox_id"`
	RewardCategory string `json:"reward_category"`
	RewardRarity   string `json:"reward_rarity"`
	RewardAmount   int64  `json:"reward_amount,omitempty"`
	AccessoryID    string `json:"accessory_id,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewUnlockEvent creates an unlock event for the given catalog item
func NewUnlockEvent(userID string, item domain.CatalogItem) Event {
	var eventType Type
	switch item.Type {
	case domain.UnlockableTitle:
		eventType = TitleUnlocked
	case domain.UnlockableRank:
		eventType = RankAttained
	default:
		eventType = AchievementUnlocked
	}

	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: UnlockPayloadV1{
			UserID:    userID,
			ItemType:  string(item.Type),
			ItemID:    item.ID,
			ItemKey:   item.Key,
			AutoClaim: item.AutoClaim,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewRewardClaimedEvent creates a reward claim event
func NewRewardClaimedEvent(userID string, itemType domain.UnlockableType, itemID int, reward domain.CurrencyDelta) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RewardClaimed,
		Payload: RewardClaimedPayloadV1{
			UserID:    userID,
			ItemType:  string(itemType),
			ItemID:    itemID,
			Crystals:  reward.Crystals,
			Diamonds:  reward.Diamonds,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewLevelUpEvent creates a level-up event
func NewLevelUpEvent(userID string, oldLevel, newLevel int, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProfileLeveledUp,
		Payload: LevelUpPayloadV1{
			UserID:   userID,
			OldLevel: oldLevel,
			NewLevel: newLevel,
			Source:   source,
		},
	}
}

// NewQuestCompletedEvent creates a quest completion event
func NewQuestCompletedEvent(userID string, questID int, questKey, epoch string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    QuestCompleted,
		Payload: QuestCompletedPayloadV1{
			UserID:   userID,
			QuestID:  questID,
			QuestKey: questKey,
			Epoch:    epoch,
		},
	}
}

// NewChestClaimedEvent creates a daily chest claim event
func NewChestClaimedEvent(userID string, crystals, stones int64, streakDays int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ChestClaimed,
		Payload: ChestClaimedPayloadV1{
			UserID:     userID,
			Crystals:   crystals,
			Stones:     stones,
			StreakDays: streakDays,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// NewPassiveClaimedEvent creates a passive income claim event
func NewPassiveClaimedEvent(userID string, crystals int64, hoursOffline int, xpPenalty int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PassiveClaimed,
		Payload: PassiveClaimedPayloadV1{
			UserID:       userID,
			Crystals:     crystals,
			HoursOffline: hoursOffline,
			XPPenalty:    xpPenalty,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewLootboxOpenedEvent creates a lootbox open event
func NewLootboxOpenedEvent(userID string, lootboxID int, reward domain.Reward) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LootboxOpened,
		Payload: LootboxOpenedPayloadV1{
			UserID:         userID,
			LootboxID:      lootboxID,
			RewardCategory: string(reward.Category),
			RewardRarity:   string(reward.Rarity),
			RewardAmount:   reward.Amount,
			AccessoryID:    reward.AccessoryID,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously; a slow handler delays the publisher.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
