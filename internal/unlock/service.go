// Package unlock maintains the unlock ledger: which catalog items each user
// has reached, and the one-shot reward claim on top of them.
//
// Unlock detection is evaluation-driven. After any stat mutation the engine
// re-evaluates the catalog against a fresh snapshot; the database unique
// constraint makes duplicate detection races harmless.
package unlock

import (
	"context"
	"fmt"
	"time"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/event"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/repository"
	"github.com/pettycoon/backend/internal/requirement"
)

// Service defines the interface for unlock ledger operations
type Service interface {
	// EvaluateAll checks every catalog item against the snapshot and
	// records the ones newly reached. Pet milestones only count for the
	// currently active pet. One bad item never aborts the sweep.
	EvaluateAll(ctx context.Context, userID string, snap domain.PlayerSnapshot, activePet string) ([]domain.UnlockedItem, error)

	// ClaimReward grants an unlocked item's reward exactly once.
	ClaimReward(ctx context.Context, userID string, itemType domain.UnlockableType, itemID int) (*domain.Profile, *domain.CatalogItem, error)

	EquipTitle(ctx context.Context, userID string, titleID int) error

	// ListByType returns the catalog of one type annotated with the user's
	// lifecycle state per item.
	ListByType(ctx context.Context, userID string, itemType domain.UnlockableType, snap domain.PlayerSnapshot, activePet string) ([]domain.CatalogItemStatus, error)
}

type service struct {
	repo     repository.Unlock
	eventBus event.Bus
	catalog  *catalogCache
	now      func() time.Time
}

// NewService creates a new unlock service
func NewService(repo repository.Unlock, eventBus event.Bus) Service {
	return &service{
		repo:     repo,
		eventBus: eventBus,
		catalog:  newCatalogCache(DefaultCatalogTTL),
		now:      time.Now,
	}
}

func (s *service) catalogItems(ctx context.Context) ([]domain.CatalogItem, error) {
	if items, ok := s.catalog.Get(); ok {
		return items, nil
	}

	items, err := s.repo.GetCatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	s.catalog.Set(items)
	return items, nil
}

// applies reports whether an item is even a candidate for this user.
func applies(item domain.CatalogItem, activePet string) bool {
	if item.Type == domain.UnlockablePetMilestone {
		return item.PetType == activePet
	}
	return true
}

func (s *service) EvaluateAll(ctx context.Context, userID string, snap domain.PlayerSnapshot, activePet string) ([]domain.UnlockedItem, error) {
	items, err := s.catalogItems(ctx)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.repo.GetUserUnlocks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlock ledger: %w", err)
	}
	have := make(map[int]bool, len(unlocked))
	for _, u := range unlocked {
		have[u.ItemID] = true
	}

	log := logger.FromContext(ctx)
	now := s.now()

	var newly []domain.UnlockedItem
	for _, item := range items {
		if have[item.ID] || !applies(item, activePet) {
			continue
		}
		if !requirement.Satisfies(ctx, item.Requirement, snap) {
			continue
		}

		inserted, err := s.repo.InsertUnlock(ctx, userID, item, now)
		if err != nil {
			// Keep sweeping; a failed item is retried on the next evaluation.
			log.Error("Failed to record unlock", "user_id", userID, "item_id", item.ID, "error", err)
			continue
		}
		if !inserted {
			continue
		}

		result := domain.UnlockedItem{
			Item:          item,
			UnlockedAt:    now,
			RewardClaimed: item.AutoClaim,
		}
		if item.AutoClaim {
			result.AutoGranted = item.Reward
		}
		newly = append(newly, result)

		if err := s.eventBus.Publish(ctx, event.NewUnlockEvent(userID, item)); err != nil {
			log.Warn("Failed to publish unlock event", "item_id", item.ID, "error", err)
		}
		log.Info("Item unlocked", "user_id", userID, "item_type", item.Type, "item_key", item.Key, "auto_claim", item.AutoClaim)
	}

	return newly, nil
}

func (s *service) ClaimReward(ctx context.Context, userID string, itemType domain.UnlockableType, itemID int) (*domain.Profile, *domain.CatalogItem, error) {
	item, err := s.repo.GetCatalogItem(ctx, itemType, itemID)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.repo.ClaimReward(ctx, userID, *item)
	if err != nil {
		return nil, nil, err
	}

	if err := s.eventBus.Publish(ctx, event.NewRewardClaimedEvent(userID, item.Type, item.ID, item.Reward)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish reward claimed event", "item_id", item.ID, "error", err)
	}
	logger.FromContext(ctx).Info("Unlock reward claimed", "user_id", userID, "item_key", item.Key,
		"crystals", item.Reward.Crystals, "diamonds", item.Reward.Diamonds)

	return profile, item, nil
}

func (s *service) EquipTitle(ctx context.Context, userID string, titleID int) error {
	item, err := s.repo.GetCatalogItem(ctx, domain.UnlockableTitle, titleID)
	if err != nil {
		return err
	}

	if err := s.repo.EquipTitle(ctx, userID, titleID); err != nil {
		return err
	}

	if err := s.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.TitleEquipped,
		Payload: event.UnlockPayloadV1{UserID: userID, ItemID: item.ID, ItemType: string(item.Type), ItemKey: item.Key},
	}); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish title equipped event", "title_id", titleID, "error", err)
	}
	return nil
}

func (s *service) ListByType(ctx context.Context, userID string, itemType domain.UnlockableType, snap domain.PlayerSnapshot, activePet string) ([]domain.CatalogItemStatus, error) {
	items, err := s.catalogItems(ctx)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.repo.GetUserUnlocks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlock ledger: %w", err)
	}
	byID := make(map[int]domain.UserUnlock, len(unlocks))
	for _, u := range unlocks {
		byID[u.ItemID] = u
	}

	var statuses []domain.CatalogItemStatus
	for _, item := range items {
		if item.Type != itemType || !applies(item, activePet) {
			continue
		}

		status := domain.CatalogItemStatus{Item: item, State: domain.StateLocked}
		if u, ok := byID[item.ID]; ok {
			unlockedAt := u.UnlockedAt
			status.UnlockedAt = &unlockedAt
			status.IsEquipped = u.IsEquipped
			status.State = domain.StateUnlocked
			if u.RewardClaimed {
				status.State = domain.StateClaimed
			}
		} else if requirement.Satisfies(ctx, item.Requirement, snap) {
			status.State = domain.StateUnlockable
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
