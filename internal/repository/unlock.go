package repository

import (
	"context"
	"time"

	"github.com/pettycoon/backend/internal/domain"
)

// Unlock defines the interface for the unlock ledger and its catalogs.
type Unlock interface {
	GetCatalogItems(ctx context.Context) ([]domain.CatalogItem, error)
	GetCatalogItem(ctx context.Context, itemType domain.UnlockableType, itemID int) (*domain.CatalogItem, error)
	GetUserUnlocks(ctx context.Context, userID string) ([]domain.UserUnlock, error)

	// InsertUnlock records an unlock with INSERT .. ON CONFLICT DO NOTHING.
	// Returns false when the row already existed; that is not an error.
	// Auto-claim items have their reward credited in the same transaction.
	InsertUnlock(ctx context.Context, userID string, item domain.CatalogItem, unlockedAt time.Time) (bool, error)

	// ClaimReward flips reward_claimed false->true and credits the reward in
	// one transaction. Missing row: domain.ErrNotUnlocked. Already flipped:
	// domain.ErrAlreadyClaimed.
	ClaimReward(ctx context.Context, userID string, item domain.CatalogItem) (*domain.Profile, error)

	// EquipTitle unequips any currently equipped title and equips the given
	// one in a single transaction. Unowned title: domain.ErrNotUnlocked.
	EquipTitle(ctx context.Context, userID string, titleID int) error
}
