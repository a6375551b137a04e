// Package combo derives reward multipliers from recent event history.
//
// Two independent axes: the tap combo (rapid consecutive taps) weights quest
// progress, and the legendary streak (consecutive legendary catches) scales
// currency. Callers combine them; this package never touches balances.
package combo

import (
	"time"

	"github.com/pettycoon/backend/internal/domain"
)

// ComboWindow is the maximum gap between taps that keeps a combo alive.
const ComboWindow = 1500 * time.Millisecond

// LegendaryStreakCap caps the legendary streak multiplier.
const LegendaryStreakCap = 5

// Tap registers a tap at the given time and returns the new state with the
// tap-combo multiplier in effect for this tap. A zero gap still counts as
// within the window; coarse clocks can stamp burst taps identically.
func Tap(s domain.ComboState, at time.Time) (domain.ComboState, float64) {
	if !s.LastTap.IsZero() && !at.Before(s.LastTap) && at.Sub(s.LastTap) <= ComboWindow {
		s.TapCombo++
	} else {
		s.TapCombo = 1
	}
	s.LastTap = at

	return s, TapMultiplier(s.TapCombo)
}

// Catch registers a catch of the given rarity and returns the new state with
// the legendary-streak multiplier for this catch. Any non-legendary catch
// resets the streak to zero.
func Catch(s domain.ComboState, rarity domain.Rarity) (domain.ComboState, int64) {
	if rarity != domain.RarityLegendary {
		s.LegendaryStreak = 0
		return s, 1
	}

	s.LegendaryStreak++
	return s, LegendaryMultiplier(s.LegendaryStreak)
}

// TapMultiplier is a step function over the current combo count.
func TapMultiplier(combo int) float64 {
	switch {
	case combo >= 20:
		return 3.0
	case combo >= 15:
		return 2.5
	case combo >= 10:
		return 2.0
	case combo >= 5:
		return 1.5
	default:
		return 1.0
	}
}

// LegendaryMultiplier is flat min(streak, cap); a streak of one carries no
// bonus.
func LegendaryMultiplier(streak int) int64 {
	if streak <= 1 {
		return 1
	}
	if streak > LegendaryStreakCap {
		return LegendaryStreakCap
	}
	return int64(streak)
}
