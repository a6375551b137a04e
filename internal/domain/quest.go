package domain

import (
	"fmt"
	"time"
)

// QuestEpochKind defines the reset boundary of a quest.
type QuestEpochKind string

const (
	EpochDaily  QuestEpochKind = "daily"
	EpochWeekly QuestEpochKind = "weekly"
	EpochSeason QuestEpochKind = "season"
)

// Quest is a static content entry describing a repeatable goal.
type Quest struct {
	ID               int             `json:"id"`
	Key              string          `json:"key"`
	NameEN           string          `json:"name_en"`
	NameRU           string          `json:"name_ru"`
	Description      string          `json:"description"`
	EpochKind        QuestEpochKind  `json:"epoch_kind"`
	RequirementType  RequirementType `json:"requirement_type"`
	RequirementValue int64           `json:"requirement_value"`
	Reward           CurrencyDelta   `json:"reward"`
	IsActive         bool            `json:"is_active"`
}

// UserQuest holds one user's progress for one quest within one epoch.
// Progress is monotonically non-decreasing; rows for past epochs are
// immutable history.
type UserQuest struct {
	UserID        string     `json:"user_id"`
	QuestID       int        `json:"quest_id"`
	Epoch         string     `json:"epoch"`
	Progress      int64      `json:"progress"`
	IsCompleted   bool       `json:"is_completed"`
	RewardClaimed bool       `json:"reward_claimed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// QuestProgress joins a quest definition with the user's current-epoch row.
type QuestProgress struct {
	Quest         Quest  `json:"quest"`
	Epoch         string `json:"epoch"`
	Progress      int64  `json:"progress"`
	IsCompleted   bool   `json:"is_completed"`
	RewardClaimed bool   `json:"reward_claimed"`
	// DisplayProgress is capped at RequirementValue for rendering; the
	// underlying Progress counter keeps accumulating for analytics.
	DisplayProgress int64 `json:"display_progress"`
}

// QuestEpochRef addresses one user-quest row by quest and epoch.
type QuestEpochRef struct {
	QuestID int
	Epoch   string
}

// EpochKey derives the epoch identifier for a point in time. Season epochs
// use the externally supplied season id since seasons are content-driven.
func EpochKey(kind QuestEpochKind, at time.Time, seasonID string) string {
	switch kind {
	case EpochDaily:
		return at.UTC().Format("2006-01-02")
	case EpochWeekly:
		year, week := at.UTC().ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case EpochSeason:
		return seasonID
	default:
		return at.UTC().Format("2006-01-02")
	}
}
