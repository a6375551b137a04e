package repository

import (
	"context"
	"time"

	"github.com/pettycoon/backend/internal/domain"
)

// Quest defines the interface for quest content and per-epoch progress.
type Quest interface {
	GetActiveQuests(ctx context.Context) ([]domain.Quest, error)
	GetQuest(ctx context.Context, questID int) (*domain.Quest, error)

	// GetUserQuests fetches the user's rows for the given (quest, epoch)
	// pairs. Missing rows simply do not appear in the result.
	GetUserQuests(ctx context.Context, userID string, refs []domain.QuestEpochRef) ([]domain.UserQuest, error)

	// UpsertProgress adds increment to the user's row for the epoch,
	// creating it on first progress. Completion latches once progress
	// reaches target and never unlatches.
	UpsertProgress(ctx context.Context, userID string, questID int, epoch string, increment, target int64, now time.Time) (*domain.UserQuest, error)

	// ClaimReward flips reward_claimed on a completed row and credits the
	// reward plus the quests_completed counter in one transaction.
	// No completed row: domain.ErrNothingToClaim. Already claimed:
	// domain.ErrAlreadyClaimed.
	ClaimReward(ctx context.Context, userID string, questID int, epoch string, reward domain.CurrencyDelta) (*domain.Profile, error)
}
