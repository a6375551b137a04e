package lootbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/event"
	"github.com/pettycoon/backend/internal/profile"
	"github.com/pettycoon/backend/internal/reward"
)

func testGenerator(t *testing.T) *reward.Generator {
	t.Helper()
	cfg := &reward.Config{
		Version: "1.0",
		DropTables: map[string]reward.TableDef{
			"basic": {Entries: []reward.TableEntry{
				{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Weight: 100},
			}},
		},
		AmountRanges: []reward.AmountRange{
			{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Min: 10, Max: 10},
		},
	}
	gen, err := reward.NewGenerator(cfg)
	require.NoError(t, err)
	return gen
}

func newTestService(t *testing.T) (Service, *FakeRepository) {
	t.Helper()
	profiles := profile.NewFakeRepository()
	profiles.Seed(domain.Profile{ID: "tg-1", Username: "alice", Crystals: 1000})
	repo := NewFakeRepository(profiles)
	repo.SeedLootboxes(domain.Lootbox{
		ID: 1, Key: "basic_box", Rarity: domain.RarityCommon, Price: 250, DropTableID: "basic",
	})
	return NewService(repo, testGenerator(t), event.NewMemoryBus()), repo
}

func TestPurchaseDeductsAndStocks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Purchase(ctx, "tg-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(500), p.Crystals)

	owned, err := svc.ListOwned(ctx, "tg-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 2, owned[0].Quantity)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	svc, _ := newTestService(t)

	// 5 boxes cost 1250, balance is 1000.
	_, err := svc.Purchase(context.Background(), "tg-1", 1, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestPurchaseValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Purchase(ctx, "tg-1", 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Purchase(ctx, "tg-1", 1, MaxPurchaseQuantity+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Purchase(ctx, "tg-1", 42, 1)
	assert.ErrorIs(t, err, domain.ErrLootboxNotFound)
}

func TestOpenConsumesCreditsAndAudits(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Purchase(ctx, "tg-1", 1, 1)
	require.NoError(t, err)

	opening, err := svc.Open(ctx, "tg-1", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RewardCrystals, opening.Reward.Category)
	assert.Equal(t, int64(10), opening.Reward.Amount)

	// Inventory is consumed; a second open has nothing left.
	_, err = svc.Open(ctx, "tg-1", 1)
	assert.ErrorIs(t, err, domain.ErrNoLootboxToOpen)

	// Reward credited on top of the post-purchase balance.
	p, err := repo.Profiles.GetProfile(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(760), p.Crystals)

	// Every open leaves an audit row.
	history, err := svc.History(ctx, "tg-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, opening.ID, history[0].ID)
}

func TestOpenUnknownLootbox(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Open(context.Background(), "tg-1", 42)
	assert.ErrorIs(t, err, domain.ErrLootboxNotFound)
}
