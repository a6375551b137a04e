package domain

import "time"

// Profile is the single source of truth for a player's mutable counters.
// All mutation goes through engine transactions; profiles are never deleted,
// only deactivated via IsBanned.
type Profile struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Crystals            int64      `json:"crystals"`
	Diamonds            int64      `json:"diamonds"`
	Stones              int64      `json:"stones"`
	Level               int        `json:"level"`
	XP                  int64      `json:"xp"`
	StreakDays          int        `json:"streak_days"`
	LastStreakDate      *time.Time `json:"last_streak_date,omitempty"`
	LastChestClaim      *time.Time `json:"last_chest_claim,omitempty"`
	LastPassiveClaim    *time.Time `json:"last_passive_claim,omitempty"`
	PetType             string     `json:"pet_type"`
	PetChanges          int        `json:"pet_changes"`
	QuestsCompleted     int        `json:"quests_completed"`
	TotalClicks         int64      `json:"total_clicks"`
	TotalCrystalsEarned int64      `json:"total_crystals_earned"`
	FriendsCount        int        `json:"friends_count"`
	IsBanned            bool       `json:"is_banned"`
	Combo               ComboState `json:"combo"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// PlayerSnapshot is a read-only projection of profile fields and derived
// stats used by requirement evaluation. Derived stats (legendary counters)
// come from the caught-pets aggregate, not the profile row itself.
type PlayerSnapshot struct {
	UserID             string
	Level              int
	Crystals           int64
	Diamonds           int64
	StreakDays         int
	PetChanges         int
	QuestsCompleted    int
	TotalClicks        int64
	FriendsCount       int
	AchievementsCount  int
	LegendaryCaught    int
	MaxLegendaryStreak int
}

// PetStats is the per-user caught-pets aggregate backing the legendary
// requirement stats.
type PetStats struct {
	UserID             string `json:"user_id"`
	TotalCaught        int64  `json:"total_caught"`
	LegendaryCaught    int    `json:"legendary_caught"`
	MaxLegendaryStreak int    `json:"max_legendary_streak"`
}

// CurrencyDelta describes a change applied to a profile's balances.
// Negative values are deductions and must never drive a balance below zero.
type CurrencyDelta struct {
	Crystals int64 `json:"crystals"`
	Diamonds int64 `json:"diamonds"`
	Stones   int64 `json:"stones"`
	XP       int64 `json:"xp"`
}

// IsZero reports whether the delta changes nothing.
func (d CurrencyDelta) IsZero() bool {
	return d.Crystals == 0 && d.Diamonds == 0 && d.Stones == 0 && d.XP == 0
}

// Add returns the sum of two deltas.
func (d CurrencyDelta) Add(other CurrencyDelta) CurrencyDelta {
	return CurrencyDelta{
		Crystals: d.Crystals + other.Crystals,
		Diamonds: d.Diamonds + other.Diamonds,
		Stones:   d.Stones + other.Stones,
		XP:       d.XP + other.XP,
	}
}

// XPForLevel returns the cumulative XP required to reach the given level.
// Level 1 starts at 0; each level costs LevelXPStep more than the previous.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return n * (n + 1) / 2 * LevelXPStep
}

// LevelForXP returns the level a player with the given cumulative XP holds.
func LevelForXP(xp int64) int {
	level := 1
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}
