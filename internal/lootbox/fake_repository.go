package lootbox

import (
	"context"
	"sync"
	"time"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/profile"
)

type ownedKey struct {
	userID    string
	lootboxID int
}

// FakeRepository implements repository.Lootbox in memory for testing.
type FakeRepository struct {
	mu       sync.Mutex
	boxes    []domain.Lootbox
	owned    map[ownedKey]int
	openings []domain.LootboxOpening
	nextID   int64
	Profiles *profile.FakeRepository
}

func NewFakeRepository(profiles *profile.FakeRepository) *FakeRepository {
	return &FakeRepository{
		owned:    make(map[ownedKey]int),
		Profiles: profiles,
	}
}

// SeedLootboxes replaces the lootbox content.
func (f *FakeRepository) SeedLootboxes(boxes ...domain.Lootbox) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boxes = boxes
}

func (f *FakeRepository) GetLootboxes(ctx context.Context) ([]domain.Lootbox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Lootbox(nil), f.boxes...), nil
}

func (f *FakeRepository) GetLootbox(ctx context.Context, lootboxID int) (*domain.Lootbox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.boxes {
		if b.ID == lootboxID {
			cp := b
			return &cp, nil
		}
	}
	return nil, domain.ErrLootboxNotFound
}

func (f *FakeRepository) GetUserLootboxes(ctx context.Context, userID string) ([]domain.UserLootbox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.UserLootbox
	for key, qty := range f.owned {
		if key.userID == userID && qty > 0 {
			out = append(out, domain.UserLootbox{UserID: userID, LootboxID: key.lootboxID, Quantity: qty})
		}
	}
	return out, nil
}

func (f *FakeRepository) Purchase(ctx context.Context, userID string, lootboxID, quantity int, totalPrice int64) (*domain.Profile, error) {
	p, err := f.Profiles.ApplyDelta(ctx, userID, domain.CurrencyDelta{Crystals: -totalPrice})
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.owned[ownedKey{userID, lootboxID}] += quantity
	f.mu.Unlock()
	return p, nil
}

func (f *FakeRepository) Open(ctx context.Context, userID string, lootboxID int, reward domain.Reward, openedAt time.Time) (*domain.LootboxOpening, error) {
	f.mu.Lock()
	key := ownedKey{userID, lootboxID}
	if f.owned[key] < 1 {
		f.mu.Unlock()
		return nil, domain.ErrNoLootboxToOpen
	}
	f.owned[key]--

	f.nextID++
	opening := domain.LootboxOpening{
		ID:        f.nextID,
		UserID:    userID,
		LootboxID: lootboxID,
		Reward:    reward,
		OpenedAt:  openedAt,
	}
	f.openings = append(f.openings, opening)
	f.mu.Unlock()

	if delta := reward.Delta(); !delta.IsZero() {
		if _, err := f.Profiles.ApplyDelta(ctx, userID, delta); err != nil {
			return nil, err
		}
	}
	return &opening, nil
}

func (f *FakeRepository) ListOpenings(ctx context.Context, userID string, limit int) ([]domain.LootboxOpening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.LootboxOpening
	for i := len(f.openings) - 1; i >= 0 && len(out) < limit; i-- {
		if f.openings[i].UserID == userID {
			out = append(out, f.openings[i])
		}
	}
	return out, nil
}
