// Package lootbox sells and opens lootboxes. Purchases and opens are two
// separate inventory steps; every open writes an immutable audit row with
// the generated reward.
package lootbox

import (
	"context"
	"fmt"
	"time"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/event"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/repository"
	"github.com/pettycoon/backend/internal/reward"
)

// Service defines the interface for lootbox operations
type Service interface {
	ListCatalog(ctx context.Context) ([]domain.Lootbox, error)
	ListOwned(ctx context.Context, userID string) ([]domain.UserLootbox, error)
	Purchase(ctx context.Context, userID string, lootboxID, quantity int) (*domain.Profile, error)
	Open(ctx context.Context, userID string, lootboxID int) (*domain.LootboxOpening, error)
	History(ctx context.Context, userID string, limit int) ([]domain.LootboxOpening, error)
}

type service struct {
	repo      repository.Lootbox
	generator *reward.Generator
	eventBus  event.Bus
	now       func() time.Time
}

// NewService creates a new lootbox service
func NewService(repo repository.Lootbox, generator *reward.Generator, eventBus event.Bus) Service {
	return &service{
		repo:      repo,
		generator: generator,
		eventBus:  eventBus,
		now:       time.Now,
	}
}

func (s *service) ListCatalog(ctx context.Context) ([]domain.Lootbox, error) {
	return s.repo.GetLootboxes(ctx)
}

func (s *service) ListOwned(ctx context.Context, userID string) ([]domain.UserLootbox, error) {
	return s.repo.GetUserLootboxes(ctx, userID)
}

func (s *service) Purchase(ctx context.Context, userID string, lootboxID, quantity int) (*domain.Profile, error) {
	if quantity < MinPurchaseQuantity || quantity > MaxPurchaseQuantity {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d",
			domain.ErrInvalidInput, MinPurchaseQuantity, MaxPurchaseQuantity)
	}

	box, err := s.repo.GetLootbox(ctx, lootboxID)
	if err != nil {
		return nil, err
	}

	total := box.Price * int64(quantity)
	profile, err := s.repo.Purchase(ctx, userID, lootboxID, quantity, total)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.LootboxPurchased,
		Payload: event.LootboxOpenedPayloadV1{UserID: userID, LootboxID: lootboxID, Timestamp: s.now().Unix()},
	}); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish lootbox purchased event", "lootbox_id", lootboxID, "error", err)
	}
	logger.FromContext(ctx).Info("Lootbox purchased", "user_id", userID, "lootbox_key", box.Key,
		"quantity", quantity, "total_price", total)

	return profile, nil
}

func (s *service) Open(ctx context.Context, userID string, lootboxID int) (*domain.LootboxOpening, error) {
	box, err := s.repo.GetLootbox(ctx, lootboxID)
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.Generate(box.DropTableID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reward for %q: %w", box.Key, err)
	}

	opening, err := s.repo.Open(ctx, userID, lootboxID, generated, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, event.NewLootboxOpenedEvent(userID, lootboxID, generated)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish lootbox opened event", "lootbox_id", lootboxID, "error", err)
	}
	logger.FromContext(ctx).Info("Lootbox opened", "user_id", userID, "lootbox_key", box.Key,
		"reward_category", generated.Category, "reward_rarity", generated.Rarity, "reward_amount", generated.Amount)

	return opening, nil
}

func (s *service) History(ctx context.Context, userID string, limit int) ([]domain.LootboxOpening, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.ListOpenings(ctx, userID, limit)
}
