package domain

import "time"

// RequirementType enumerates the profile/derived stats a catalog item can
// gate on. Values are stored in content tables and must stay stable.
type RequirementType string

const (
	RequirementLevel              RequirementType = "level"
	RequirementCrystals           RequirementType = "crystals"
	RequirementDiamonds           RequirementType = "diamonds"
	RequirementStreak             RequirementType = "streak"
	RequirementPetChanges         RequirementType = "pet_changes"
	RequirementQuestsCompleted    RequirementType = "quests_completed"
	RequirementLegendaryCaught    RequirementType = "legendary_caught"
	RequirementMaxLegendaryStreak RequirementType = "max_legendary_streak"
	RequirementTotalClicks        RequirementType = "total_clicks"
	RequirementFriendsCount       RequirementType = "friends_count"
	RequirementAchievementsCount  RequirementType = "achievements_count"
)

// RequirementDescriptor pairs a stat with the threshold it must reach.
// Immutable, authored as content.
type RequirementDescriptor struct {
	Type      RequirementType `json:"type"`
	Threshold int64           `json:"threshold"`
}

// UnlockableType identifies which catalog an unlock row belongs to.
type UnlockableType string

const (
	UnlockableAchievement  UnlockableType = "achievement"
	UnlockableTitle        UnlockableType = "title"
	UnlockableRank         UnlockableType = "rank"
	UnlockablePetMilestone UnlockableType = "pet_milestone"
)

// CatalogItem is a static content entry: an achievement, title, rank or
// pet milestone. Entries are immutable at runtime and referenced by the
// unlock ledger.
type CatalogItem struct {
	ID          int                   `json:"id"`
	Type        UnlockableType        `json:"type"`
	Key         string                `json:"key"`
	NameEN      string                `json:"name_en"`
	NameRU      string                `json:"name_ru"`
	Description string                `json:"description"`
	Icon        string                `json:"icon"`
	Requirement RequirementDescriptor `json:"requirement"`
	Reward      CurrencyDelta         `json:"reward"`
	// AutoClaim grants the reward at unlock time instead of requiring an
	// explicit claim call.
	AutoClaim bool `json:"auto_claim"`
	// PetType scopes pet milestones to a single pet. Empty for the
	// user-scoped catalogs.
	PetType string `json:"pet_type,omitempty"`
}

// UserUnlock is one (user, item) row in the unlock ledger.
// Created once on unlock; RewardClaimed flips false->true exactly once.
type UserUnlock struct {
	UserID        string         `json:"user_id"`
	ItemID        int            `json:"item_id"`
	ItemType      UnlockableType `json:"item_type"`
	UnlockedAt    time.Time      `json:"unlocked_at"`
	RewardClaimed bool           `json:"reward_claimed"`
	// IsEquipped applies to titles only; at most one equipped per user.
	IsEquipped bool `json:"is_equipped,omitempty"`
}

// UnlockState is the lifecycle position of a catalog item for one user.
// Locked -> Unlockable -> Unlocked -> Claimed, strictly forward.
type UnlockState string

const (
	StateLocked     UnlockState = "locked"
	StateUnlockable UnlockState = "unlockable"
	StateUnlocked   UnlockState = "unlocked"
	StateClaimed    UnlockState = "claimed"
)

// CatalogItemStatus is a catalog entry annotated with one user's state,
// used by the listing endpoints.
type CatalogItemStatus struct {
	Item       CatalogItem `json:"item"`
	State      UnlockState `json:"state"`
	UnlockedAt *time.Time  `json:"unlocked_at,omitempty"`
	IsEquipped bool        `json:"is_equipped,omitempty"`
}

// UnlockedItem pairs a catalog entry with its ledger state for responses.
type UnlockedItem struct {
	Item          CatalogItem   `json:"item"`
	UnlockedAt    time.Time     `json:"unlocked_at"`
	RewardClaimed bool          `json:"reward_claimed"`
	IsEquipped    bool          `json:"is_equipped,omitempty"`
	AutoGranted   CurrencyDelta `json:"auto_granted,omitempty"`
}
