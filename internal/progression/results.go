package progression

import "github.com/pettycoon/backend/internal/domain"

// TapResult is the outcome of one tap.
type TapResult struct {
	Profile         *domain.Profile       `json:"profile"`
	CrystalsEarned  int64                 `json:"crystals_earned"`
	XPEarned        int64                 `json:"xp_earned"`
	TapCombo        int                   `json:"tap_combo"`
	ComboMultiplier float64               `json:"combo_multiplier"`
	LeveledUp       bool                  `json:"leveled_up"`
	CompletedQuests []domain.Quest        `json:"completed_quests,omitempty"`
	NewUnlocks      []domain.UnlockedItem `json:"new_unlocks,omitempty"`
}

// CatchResult is the outcome of catching one pet.
type CatchResult struct {
	Profile          *domain.Profile       `json:"profile"`
	Rarity           domain.Rarity         `json:"rarity"`
	CrystalsEarned   int64                 `json:"crystals_earned"`
	XPEarned         int64                 `json:"xp_earned"`
	LegendaryStreak  int                   `json:"legendary_streak"`
	StreakMultiplier int64                 `json:"streak_multiplier"`
	LeveledUp        bool                  `json:"leveled_up"`
	CompletedQuests  []domain.Quest        `json:"completed_quests,omitempty"`
	NewUnlocks       []domain.UnlockedItem `json:"new_unlocks,omitempty"`
}

// ChestResult is the outcome of a daily chest claim.
type ChestResult struct {
	Profile         *domain.Profile       `json:"profile"`
	Reward          domain.CurrencyDelta  `json:"reward"`
	StreakDays      int                   `json:"streak_days"`
	MilestoneBonus  int64                 `json:"milestone_bonus,omitempty"`
	LeveledUp       bool                  `json:"leveled_up"`
	CompletedQuests []domain.Quest        `json:"completed_quests,omitempty"`
	NewUnlocks      []domain.UnlockedItem `json:"new_unlocks,omitempty"`
}

// PassiveResult is the outcome of a passive income claim.
type PassiveResult struct {
	Profile        *domain.Profile       `json:"profile"`
	Earned         int64                 `json:"earned"`
	HoursCounted   int                   `json:"hours_counted"`
	ElapsedHours   int                   `json:"elapsed_hours"`
	XPPenalty      int64                 `json:"xp_penalty,omitempty"`
	PenaltyApplied bool                  `json:"penalty_applied"`
	NewUnlocks     []domain.UnlockedItem `json:"new_unlocks,omitempty"`
}

// ClaimResult is the outcome of claiming an unlock or quest reward.
type ClaimResult struct {
	Profile    *domain.Profile       `json:"profile"`
	Reward     domain.CurrencyDelta  `json:"reward"`
	LeveledUp  bool                  `json:"leveled_up"`
	NewUnlocks []domain.UnlockedItem `json:"new_unlocks,omitempty"`
}

// PetChangeResult is the outcome of switching the active pet.
type PetChangeResult struct {
	Profile    *domain.Profile       `json:"profile"`
	NewUnlocks []domain.UnlockedItem `json:"new_unlocks,omitempty"`
}
