package domain

import "time"

// Rarity tiers used by drop tables and catch events.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RewardCategory is the kind of value a drop-table entry resolves to.
type RewardCategory string

const (
	RewardCrystals  RewardCategory = "crystals"
	RewardDiamonds  RewardCategory = "diamonds"
	RewardStones    RewardCategory = "stones"
	RewardAccessory RewardCategory = "accessory"
)

// Reward is a concrete generated reward: either a currency amount or an
// accessory item id, never both.
type Reward struct {
	Category    RewardCategory `json:"category"`
	Rarity      Rarity         `json:"rarity"`
	Amount      int64          `json:"amount,omitempty"`
	AccessoryID string         `json:"accessory_id,omitempty"`
}

// Delta converts a currency reward into a profile delta. Accessory rewards
// carry no currency and return a zero delta.
func (r Reward) Delta() CurrencyDelta {
	switch r.Category {
	case RewardCrystals:
		return CurrencyDelta{Crystals: r.Amount}
	case RewardDiamonds:
		return CurrencyDelta{Diamonds: r.Amount}
	case RewardStones:
		return CurrencyDelta{Stones: r.Amount}
	default:
		return CurrencyDelta{}
	}
}

// Lootbox is a static content entry purchasable with crystals.
type Lootbox struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	NameEN      string `json:"name_en"`
	NameRU      string `json:"name_ru"`
	Rarity      Rarity `json:"rarity"`
	Price       int64  `json:"price"`
	DropTableID string `json:"drop_table_id"`
}

// UserLootbox tracks owned, unopened boxes. Quantity is always >= 0;
// the row is deleted when quantity reaches zero.
type UserLootbox struct {
	UserID    string `json:"user_id"`
	LootboxID int    `json:"lootbox_id"`
	Quantity  int    `json:"quantity"`
}

// LootboxOpening is one append-only audit row per open. Never mutated.
type LootboxOpening struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	LootboxID int       `json:"lootbox_id"`
	Reward    Reward    `json:"reward"`
	OpenedAt  time.Time `json:"opened_at"`
}
