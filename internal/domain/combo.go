package domain

import "time"

// ComboState is the per-user combo history persisted on the profile row.
// A zero ComboState is valid: no combo, no streak.
type ComboState struct {
	LastTap         time.Time `json:"last_tap"`
	TapCombo        int       `json:"tap_combo"`
	LegendaryStreak int       `json:"legendary_streak"`
}
