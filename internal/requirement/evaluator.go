// Package requirement evaluates catalog requirement descriptors against a
// player snapshot. Evaluation is a pure comparison; unknown descriptor types
// are a content-authoring error and evaluate to false with a warning, never
// an error, so one bad descriptor cannot poison a batch.
package requirement

import (
	"context"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/logger"
)

// Satisfies reports whether the snapshot meets the descriptor's threshold.
func Satisfies(ctx context.Context, desc domain.RequirementDescriptor, snap domain.PlayerSnapshot) bool {
	value, ok := statValue(desc.Type, snap)
	if !ok {
		logger.FromContext(ctx).Warn("Unknown requirement type in catalog content",
			"requirement_type", desc.Type)
		return false
	}
	return value >= desc.Threshold
}

// statValue maps a requirement type onto the snapshot field it gates.
func statValue(t domain.RequirementType, snap domain.PlayerSnapshot) (int64, bool) {
	switch t {
	case domain.RequirementLevel:
		return int64(snap.Level), true
	case domain.RequirementCrystals:
		return snap.Crystals, true
	case domain.RequirementDiamonds:
		return snap.Diamonds, true
	case domain.RequirementStreak:
		return int64(snap.StreakDays), true
	case domain.RequirementPetChanges:
		return int64(snap.PetChanges), true
	case domain.RequirementQuestsCompleted:
		return int64(snap.QuestsCompleted), true
	case domain.RequirementLegendaryCaught:
		return int64(snap.LegendaryCaught), true
	case domain.RequirementMaxLegendaryStreak:
		return int64(snap.MaxLegendaryStreak), true
	case domain.RequirementTotalClicks:
		return snap.TotalClicks, true
	case domain.RequirementFriendsCount:
		return int64(snap.FriendsCount), true
	case domain.RequirementAchievementsCount:
		return int64(snap.AchievementsCount), true
	default:
		return 0, false
	}
}
