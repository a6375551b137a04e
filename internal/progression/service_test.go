package progression

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/event"
	"github.com/pettycoon/backend/internal/lootbox"
	"github.com/pettycoon/backend/internal/passive"
	"github.com/pettycoon/backend/internal/profile"
	"github.com/pettycoon/backend/internal/quest"
	"github.com/pettycoon/backend/internal/reward"
	"github.com/pettycoon/backend/internal/unlock"
)

type engineFixture struct {
	svc      *service
	profiles *profile.FakeRepository
	unlocks  *unlock.FakeRepository
	quests   *quest.FakeRepository
	boxes    *lootbox.FakeRepository
	now      time.Time
}

func newEngine(t *testing.T) *engineFixture {
	t.Helper()

	profiles := profile.NewFakeRepository()
	unlocks := unlock.NewFakeRepository(profiles)
	quests := quest.NewFakeRepository(profiles)
	boxes := lootbox.NewFakeRepository(profiles)
	bus := event.NewMemoryBus()

	gen, err := reward.NewGenerator(&reward.Config{
		Version: "1.0",
		DropTables: map[string]reward.TableDef{
			"basic": {Entries: []reward.TableEntry{
				{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Weight: 1},
			}},
		},
		AmountRanges: []reward.AmountRange{
			{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Min: 10, Max: 10},
		},
	})
	require.NoError(t, err)

	policy := passive.Policy{
		RatePerHour: domain.PassiveDefaultRatePerHour,
		MaxHours:    domain.PassiveDefaultMaxHours,
		GraceHours:  domain.PassiveDefaultGraceHours,
		BasePenalty: domain.PassiveDefaultBasePenalty,
	}

	svc := NewService(
		profiles,
		profile.NewService(profiles),
		unlock.NewService(unlocks, bus),
		quest.NewService(quests, bus, "season-1"),
		lootbox.NewService(boxes, gen, bus),
		bus,
		policy,
	).(*service)

	f := &engineFixture{
		svc:      svc,
		profiles: profiles,
		unlocks:  unlocks,
		quests:   quests,
		boxes:    boxes,
		now:      time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC),
	}
	svc.now = func() time.Time { return f.now }
	return f
}

func (f *engineFixture) seedUser(p domain.Profile) {
	if p.Level == 0 {
		p.Level = 1
	}
	if p.PetType == "" {
		p.PetType = "cat"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = f.now.Add(-48 * time.Hour)
	}
	f.profiles.Seed(p)
}

func TestTapEarnsBaseAmounts(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice"})
	ctx := context.Background()

	res, err := f.svc.Tap(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.CrystalsEarned)
	assert.Equal(t, int64(1), res.XPEarned)
	assert.Equal(t, 1, res.TapCombo)
	assert.Equal(t, 1.0, res.ComboMultiplier)
	assert.Equal(t, int64(1), res.Profile.TotalClicks)
}

func TestTapComboGrowsWithinWindow(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice"})
	ctx := context.Background()

	var last *TapResult
	for i := 0; i < 5; i++ {
		var err error
		last, err = f.svc.Tap(ctx, "tg-1")
		require.NoError(t, err)
		f.now = f.now.Add(time.Second)
	}
	assert.Equal(t, 5, last.TapCombo)
	assert.Equal(t, 1.5, last.ComboMultiplier)

	// A gap past the window resets the combo.
	f.now = f.now.Add(2 * time.Second)
	res, err := f.svc.Tap(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.TapCombo)
}

func TestTapLevelsUp(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice", XP: 99})
	ctx := context.Background()

	res, err := f.svc.Tap(ctx, "tg-1")
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.Profile.Level)
}

func TestCatchLegendarySequence(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice"})
	ctx := context.Background()

	// legendary, legendary, rare, legendary -> multipliers 1, 2, -, 1
	res, err := f.svc.Catch(ctx, "tg-1", domain.RarityLegendary)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.CrystalsEarned)
	assert.Equal(t, 1, res.LegendaryStreak)

	res, err = f.svc.Catch(ctx, "tg-1", domain.RarityLegendary)
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.CrystalsEarned)
	assert.Equal(t, int64(2), res.StreakMultiplier)

	res, err = f.svc.Catch(ctx, "tg-1", domain.RarityRare)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.CrystalsEarned)
	assert.Equal(t, 0, res.LegendaryStreak)

	res, err = f.svc.Catch(ctx, "tg-1", domain.RarityLegendary)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.CrystalsEarned)
	assert.Equal(t, 1, res.LegendaryStreak)
}

func TestCatchRejectsUnknownRarity(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice"})

	_, err := f.svc.Catch(context.Background(), "tg-1", "mythic")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChestClaimOncePerUTCDay(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice"})
	ctx := context.Background()

	res, err := f.svc.ClaimChest(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.StreakDays)
	assert.Equal(t, domain.ChestBaseCrystals, res.Reward.Crystals)
	assert.Equal(t, domain.ChestBaseStones, res.Reward.Stones)

	// Same UTC day, even hours later: rejected.
	f.now = f.now.Add(10 * time.Hour)
	_, err = f.svc.ClaimChest(ctx, "tg-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimedToday)

	// Next UTC day: streak continues and the bonus grows.
	f.now = f.now.Add(14 * time.Hour)
	res, err = f.svc.ClaimChest(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.StreakDays)
	assert.Equal(t, domain.ChestBaseCrystals+domain.ChestStreakBonusPerDay, res.Reward.Crystals)

	// Skipping a day resets the streak.
	f.now = f.now.Add(48 * time.Hour)
	res, err = f.svc.ClaimChest(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.StreakDays)
}

func TestChestStreakMilestoneBonus(t *testing.T) {
	f := newEngine(t)
	yesterday := f.now.Add(-24 * time.Hour)
	f.seedUser(domain.Profile{
		ID: "tg-1", Username: "alice",
		StreakDays:     6,
		LastStreakDate: &yesterday,
		LastChestClaim: &yesterday,
	})

	res, err := f.svc.ClaimChest(context.Background(), "tg-1")
	require.NoError(t, err)
	assert.Equal(t, 7, res.StreakDays)
	assert.Equal(t, domain.ChestStreakMilestones[7], res.MilestoneBonus)
	assert.Equal(t, domain.ChestBaseStones+domain.ChestStreakMilestones[7], res.Reward.Stones)
}

func TestPassiveClaimCapsAtMaxHours(t *testing.T) {
	f := newEngine(t)
	last := f.now.Add(-25 * time.Hour)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice", XP: 500, LastPassiveClaim: &last})
	ctx := context.Background()

	res, err := f.svc.ClaimPassive(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(240), res.Earned, "25h offline pays the 24h cap")
	assert.Equal(t, 24, res.HoursCounted)
	assert.Zero(t, res.XPPenalty, "25h is within the grace span")

	// Immediately after a claim there is nothing to collect.
	_, err = f.svc.ClaimPassive(ctx, "tg-1")
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)
}

func TestPassiveClaimAppliesNeglectPenalty(t *testing.T) {
	f := newEngine(t)
	last := f.now.Add(-30 * time.Hour)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice", XP: 500, LastPassiveClaim: &last})

	res, err := f.svc.ClaimPassive(context.Background(), "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(240), res.Earned)
	assert.Equal(t, int64(30), res.XPPenalty, "6 hours past grace at 5 XP each")
	assert.True(t, res.PenaltyApplied)
	assert.Equal(t, int64(470), res.Profile.XP)
}

func TestBannedProfileRejected(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice", IsBanned: true})
	ctx := context.Background()

	_, err := f.svc.Tap(ctx, "tg-1")
	assert.ErrorIs(t, err, domain.ErrProfileBanned)

	_, err = f.svc.ClaimChest(ctx, "tg-1")
	assert.ErrorIs(t, err, domain.ErrProfileBanned)

	_, err = f.svc.ClaimPassive(ctx, "tg-1")
	assert.ErrorIs(t, err, domain.ErrProfileBanned)
}

func TestTapUnlocksAndAutoClaims(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice"})
	f.unlocks.SeedCatalog(domain.CatalogItem{
		ID: 1, Type: domain.UnlockableAchievement, Key: "first_tap",
		Requirement: domain.RequirementDescriptor{Type: domain.RequirementTotalClicks, Threshold: 1},
		Reward:      domain.CurrencyDelta{Crystals: 25},
		AutoClaim:   true,
	})
	ctx := context.Background()

	res, err := f.svc.Tap(ctx, "tg-1")
	require.NoError(t, err)
	require.Len(t, res.NewUnlocks, 1)
	assert.Equal(t, "first_tap", res.NewUnlocks[0].Item.Key)
	assert.Equal(t, domain.CurrencyDelta{Crystals: 25}, res.NewUnlocks[0].AutoGranted)

	p, err := f.profiles.GetProfile(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(26), p.Crystals, "tap crystal plus auto-claimed reward")
}

func TestQuestClaimTriggersUnlockEvaluation(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice"})
	f.quests.SeedQuests(domain.Quest{
		ID: 1, Key: "tap_once", EpochKind: domain.EpochDaily,
		RequirementType: domain.RequirementTotalClicks, RequirementValue: 1,
		Reward: domain.CurrencyDelta{Crystals: 1000}, IsActive: true,
	})
	f.unlocks.SeedCatalog(domain.CatalogItem{
		ID: 1, Type: domain.UnlockableAchievement, Key: "quest_closer",
		Requirement: domain.RequirementDescriptor{Type: domain.RequirementQuestsCompleted, Threshold: 1},
	})
	ctx := context.Background()

	tap, err := f.svc.Tap(ctx, "tg-1")
	require.NoError(t, err)
	require.Len(t, tap.CompletedQuests, 1)

	claim, err := f.svc.ClaimQuestReward(ctx, "tg-1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), claim.Reward.Crystals)
	require.Len(t, claim.NewUnlocks, 1)
	assert.Equal(t, "quest_closer", claim.NewUnlocks[0].Item.Key)
}

func TestOpenLootboxFlow(t *testing.T) {
	f := newEngine(t)
	f.seedUser(domain.Profile{ID: "tg-1", Username: "alice", Crystals: 500})
	f.boxes.SeedLootboxes(domain.Lootbox{
		ID: 1, Key: "basic_box", Rarity: domain.RarityCommon, Price: 100, DropTableID: "basic",
	})
	ctx := context.Background()

	p, err := f.svc.PurchaseLootbox(ctx, "tg-1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(400), p.Crystals)

	opening, _, err := f.svc.OpenLootbox(ctx, "tg-1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), opening.Reward.Amount)

	p, err = f.profiles.GetProfile(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, int64(410), p.Crystals)
}
