package quest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/event"
	"github.com/pettycoon/backend/internal/profile"
)

func questFixture() []domain.Quest {
	return []domain.Quest{
		{
			ID: 1, Key: "daily_taps", EpochKind: domain.EpochDaily,
			RequirementType: domain.RequirementTotalClicks, RequirementValue: 100,
			Reward: domain.CurrencyDelta{Crystals: 200}, IsActive: true,
		},
		{
			ID: 2, Key: "weekly_crystals", EpochKind: domain.EpochWeekly,
			RequirementType: domain.RequirementCrystals, RequirementValue: 5000,
			Reward: domain.CurrencyDelta{Diamonds: 3}, IsActive: true,
		},
		{
			ID: 3, Key: "retired", EpochKind: domain.EpochDaily,
			RequirementType: domain.RequirementTotalClicks, RequirementValue: 10,
			IsActive: false,
		},
	}
}

func newTestService(t *testing.T) (Service, *FakeRepository) {
	t.Helper()
	profiles := profile.NewFakeRepository()
	profiles.Seed(domain.Profile{ID: "tg-1", Username: "alice"})
	repo := NewFakeRepository(profiles)
	repo.SeedQuests(questFixture()...)
	return NewService(repo, event.NewMemoryBus(), "season-1"), repo
}

func TestTrackAccumulatesAndCompletes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	completed, err := svc.Track(ctx, "tg-1", map[domain.RequirementType]int64{domain.RequirementTotalClicks: 60})
	require.NoError(t, err)
	assert.Empty(t, completed)

	completed, err = svc.Track(ctx, "tg-1", map[domain.RequirementType]int64{domain.RequirementTotalClicks: 60})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "daily_taps", completed[0].Key)

	// Further progress never re-completes.
	completed, err = svc.Track(ctx, "tg-1", map[domain.RequirementType]int64{domain.RequirementTotalClicks: 60})
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestTrackIgnoresInactiveAndUnmatchedQuests(t *testing.T) {
	svc, _ := newTestService(t)

	completed, err := svc.Track(context.Background(), "tg-1",
		map[domain.RequirementType]int64{domain.RequirementTotalClicks: 50})
	require.NoError(t, err)
	assert.Empty(t, completed, "retired quest with threshold 10 must not complete")

	list, err := svc.List(context.Background(), "tg-1")
	require.NoError(t, err)
	require.Len(t, list, 2, "inactive quests are not listed")
	for _, p := range list {
		if p.Quest.Key == "weekly_crystals" {
			assert.Zero(t, p.Progress, "crystal quest untouched by tap progress")
		}
	}
}

func TestListCapsDisplayProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Track(ctx, "tg-1", map[domain.RequirementType]int64{domain.RequirementTotalClicks: 250})
	require.NoError(t, err)

	list, err := svc.List(ctx, "tg-1")
	require.NoError(t, err)
	for _, p := range list {
		if p.Quest.Key == "daily_taps" {
			assert.Equal(t, int64(250), p.Progress, "raw counter keeps accumulating")
			assert.Equal(t, int64(100), p.DisplayProgress)
			assert.True(t, p.IsCompleted)
		}
	}
}

func TestClaimOncePerEpoch(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Track(ctx, "tg-1", map[domain.RequirementType]int64{domain.RequirementTotalClicks: 100})
	require.NoError(t, err)

	p, q, err := svc.Claim(ctx, "tg-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "daily_taps", q.Key)
	assert.Equal(t, int64(200), p.Crystals)
	assert.Equal(t, 1, p.QuestsCompleted)

	_, _, err = svc.Claim(ctx, "tg-1", 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	// Balance credited exactly once.
	stored, err := repo.Profiles.GetProfile(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), stored.Crystals)
}

func TestClaimRequiresCompletion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Claim(ctx, "tg-1", 1)
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)

	_, _, err = svc.Claim(ctx, "tg-1", 42)
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)
}
