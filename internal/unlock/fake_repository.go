package unlock

import (
	"context"
	"sync"
	"time"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/profile"
)

// FakeRepository implements repository.Unlock in memory for testing. Reward
// credits are applied through an attached profile fake so claim flows can be
// verified end to end.
type FakeRepository struct {
	mu       sync.Mutex
	catalog  []domain.CatalogItem
	unlocks  map[string]map[int]*domain.UserUnlock
	Profiles *profile.FakeRepository

	// InsertErrs forces InsertUnlock to fail for the listed item ids.
	InsertErrs map[int]error
}

func NewFakeRepository(profiles *profile.FakeRepository) *FakeRepository {
	return &FakeRepository{
		unlocks:  make(map[string]map[int]*domain.UserUnlock),
		Profiles: profiles,
	}
}

// SeedCatalog replaces the catalog content.
func (f *FakeRepository) SeedCatalog(items ...domain.CatalogItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalog = items
}

func (f *FakeRepository) GetCatalogItems(ctx context.Context) ([]domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.CatalogItem(nil), f.catalog...), nil
}

func (f *FakeRepository) GetCatalogItem(ctx context.Context, itemType domain.UnlockableType, itemID int) (*domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.catalog {
		if item.Type == itemType && item.ID == itemID {
			cp := item
			return &cp, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (f *FakeRepository) GetUserUnlocks(ctx context.Context, userID string) ([]domain.UserUnlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.UserUnlock
	for _, u := range f.unlocks[userID] {
		out = append(out, *u)
	}
	return out, nil
}

func (f *FakeRepository) InsertUnlock(ctx context.Context, userID string, item domain.CatalogItem, unlockedAt time.Time) (bool, error) {
	f.mu.Lock()
	if err := f.InsertErrs[item.ID]; err != nil {
		f.mu.Unlock()
		return false, err
	}
	if f.unlocks[userID] == nil {
		f.unlocks[userID] = make(map[int]*domain.UserUnlock)
	}
	if _, exists := f.unlocks[userID][item.ID]; exists {
		f.mu.Unlock()
		return false, nil
	}

	autoClaim := item.AutoClaim && !item.Reward.IsZero()
	f.unlocks[userID][item.ID] = &domain.UserUnlock{
		UserID:        userID,
		ItemID:        item.ID,
		ItemType:      item.Type,
		UnlockedAt:    unlockedAt,
		RewardClaimed: item.AutoClaim,
	}
	f.mu.Unlock()

	if autoClaim && f.Profiles != nil {
		if _, err := f.Profiles.ApplyDelta(ctx, userID, item.Reward); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (f *FakeRepository) ClaimReward(ctx context.Context, userID string, item domain.CatalogItem) (*domain.Profile, error) {
	f.mu.Lock()
	u, ok := f.unlocks[userID][item.ID]
	if !ok {
		f.mu.Unlock()
		return nil, domain.ErrNotUnlocked
	}
	if u.RewardClaimed {
		f.mu.Unlock()
		return nil, domain.ErrAlreadyClaimed
	}
	u.RewardClaimed = true
	f.mu.Unlock()

	return f.Profiles.ApplyDelta(ctx, userID, item.Reward)
}

func (f *FakeRepository) EquipTitle(ctx context.Context, userID string, titleID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target, ok := f.unlocks[userID][titleID]
	if !ok || target.ItemType != domain.UnlockableTitle {
		return domain.ErrNotUnlocked
	}

	for _, u := range f.unlocks[userID] {
		if u.ItemType == domain.UnlockableTitle {
			u.IsEquipped = false
		}
	}
	target.IsEquipped = true
	return nil
}
