// Package quest tracks per-epoch quest progress. Daily and weekly quests
// reset by epoch key derivation, not by a scheduler: a new epoch simply
// addresses fresh rows while old rows stay behind as immutable history.
package quest

import (
	"context"
	"fmt"
	"time"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/event"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/repository"
)

// Service defines the interface for quest operations
type Service interface {
	// Track adds progress to every active quest keyed by one of the given
	// stats. Returns the quests that completed on this call.
	Track(ctx context.Context, userID string, increments map[domain.RequirementType]int64) ([]domain.Quest, error)

	// List returns all active quests with the user's current-epoch progress.
	List(ctx context.Context, userID string) ([]domain.QuestProgress, error)

	// Claim grants a completed quest's reward exactly once per epoch.
	Claim(ctx context.Context, userID string, questID int) (*domain.Profile, *domain.Quest, error)
}

type service struct {
	repo     repository.Quest
	eventBus event.Bus
	cache    *questCache
	seasonID string
	now      func() time.Time
}

// NewService creates a new quest service. seasonID keys season-scoped quest
// rows and changes on season rollover via config.
func NewService(repo repository.Quest, eventBus event.Bus, seasonID string) Service {
	return &service{
		repo:     repo,
		eventBus: eventBus,
		cache:    newQuestCache(DefaultQuestTTL),
		seasonID: seasonID,
		now:      time.Now,
	}
}

func (s *service) activeQuests(ctx context.Context) ([]domain.Quest, error) {
	if quests, ok := s.cache.Get(); ok {
		return quests, nil
	}

	quests, err := s.repo.GetActiveQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active quests: %w", err)
	}
	s.cache.Set(quests)
	return quests, nil
}

func (s *service) Track(ctx context.Context, userID string, increments map[domain.RequirementType]int64) ([]domain.Quest, error) {
	quests, err := s.activeQuests(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	now := s.now()

	var completed []domain.Quest
	for _, q := range quests {
		inc, ok := increments[q.RequirementType]
		if !ok || inc <= 0 {
			continue
		}

		epoch := domain.EpochKey(q.EpochKind, now, s.seasonID)
		row, err := s.repo.UpsertProgress(ctx, userID, q.ID, epoch, inc, q.RequirementValue, now)
		if err != nil {
			// One failed quest must not swallow progress on the rest.
			log.Error("Failed to track quest progress", "user_id", userID, "quest_id", q.ID, "error", err)
			continue
		}

		if row.IsCompleted && row.Progress-inc < q.RequirementValue {
			completed = append(completed, q)
			if err := s.eventBus.Publish(ctx, event.NewQuestCompletedEvent(userID, q.ID, q.Key, epoch)); err != nil {
				log.Warn("Failed to publish quest completed event", "quest_id", q.ID, "error", err)
			}
			log.Info("Quest completed", "user_id", userID, "quest_key", q.Key, "epoch", epoch)
		}
	}

	return completed, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.QuestProgress, error) {
	quests, err := s.activeQuests(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	refs := make([]domain.QuestEpochRef, len(quests))
	for i, q := range quests {
		refs[i] = domain.QuestEpochRef{QuestID: q.ID, Epoch: domain.EpochKey(q.EpochKind, now, s.seasonID)}
	}

	rows, err := s.repo.GetUserQuests(ctx, userID, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to load quest progress: %w", err)
	}
	byQuest := make(map[int]domain.UserQuest, len(rows))
	for _, row := range rows {
		byQuest[row.QuestID] = row
	}

	out := make([]domain.QuestProgress, 0, len(quests))
	for i, q := range quests {
		p := domain.QuestProgress{Quest: q, Epoch: refs[i].Epoch}
		if row, ok := byQuest[q.ID]; ok {
			p.Progress = row.Progress
			p.IsCompleted = row.IsCompleted
			p.RewardClaimed = row.RewardClaimed
		}
		p.DisplayProgress = p.Progress
		if p.DisplayProgress > q.RequirementValue {
			p.DisplayProgress = q.RequirementValue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *service) Claim(ctx context.Context, userID string, questID int) (*domain.Profile, *domain.Quest, error) {
	q, err := s.repo.GetQuest(ctx, questID)
	if err != nil {
		return nil, nil, err
	}

	epoch := domain.EpochKey(q.EpochKind, s.now(), s.seasonID)
	profile, err := s.repo.ClaimReward(ctx, userID, q.ID, epoch, q.Reward)
	if err != nil {
		return nil, nil, err
	}

	if err := s.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.QuestRewardClaimed,
		Payload: event.QuestCompletedPayloadV1{UserID: userID, QuestID: q.ID, QuestKey: q.Key, Epoch: epoch},
	}); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish quest reward event", "quest_id", q.ID, "error", err)
	}
	logger.FromContext(ctx).Info("Quest reward claimed", "user_id", userID, "quest_key", q.Key, "epoch", epoch)

	return profile, q, nil
}
