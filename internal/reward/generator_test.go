package reward

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettycoon/backend/internal/domain"
)

func testConfig() *Config {
	return &Config{
		Version: "1.0",
		DropTables: map[string]TableDef{
			"wooden_chest": {
				Entries: []TableEntry{
					{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Weight: 70},
					{Category: domain.RewardCrystals, Rarity: domain.RarityRare, Weight: 20},
					{Category: domain.RewardDiamonds, Rarity: domain.RarityEpic, Weight: 8},
					{Category: domain.RewardAccessory, Rarity: domain.RarityLegendary, Weight: 2},
				},
			},
		},
		AmountRanges: []AmountRange{
			{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Min: 50, Max: 150},
			{Category: domain.RewardCrystals, Rarity: domain.RarityRare, Min: 200, Max: 500},
			{Category: domain.RewardDiamonds, Rarity: domain.RarityEpic, Min: 5, Max: 15},
		},
		Accessories: map[domain.Rarity][]string{
			domain.RarityLegendary: {"golden_collar", "ruby_bowtie"},
		},
	}
}

func TestGenerateObservedFrequencies(t *testing.T) {
	gen, err := NewGenerator(testConfig(), WithRand(rand.New(rand.NewSource(42)).Float64))
	require.NoError(t, err)

	const draws = 10000
	counts := make(map[domain.RewardCategory]map[domain.Rarity]int)

	for i := 0; i < draws; i++ {
		reward, err := gen.Generate("wooden_chest")
		require.NoError(t, err)
		if counts[reward.Category] == nil {
			counts[reward.Category] = make(map[domain.Rarity]int)
		}
		counts[reward.Category][reward.Rarity]++
	}

	// Each category within +-3% of its normalized weight.
	tests := []struct {
		category domain.RewardCategory
		rarity   domain.Rarity
		expected float64
	}{
		{domain.RewardCrystals, domain.RarityCommon, 0.70},
		{domain.RewardCrystals, domain.RarityRare, 0.20},
		{domain.RewardDiamonds, domain.RarityEpic, 0.08},
		{domain.RewardAccessory, domain.RarityLegendary, 0.02},
	}

	for _, tc := range tests {
		observed := float64(counts[tc.category][tc.rarity]) / draws
		assert.InDelta(t, tc.expected, observed, 0.03,
			"category %s rarity %s: observed %.4f", tc.category, tc.rarity, observed)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	cfg := testConfig()

	first := drawSequence(t, cfg, 99, 50)
	second := drawSequence(t, cfg, 99, 50)

	assert.Equal(t, first, second, "same seed must replay the same reward sequence")
}

func drawSequence(t *testing.T, cfg *Config, seed int64, n int) []domain.Reward {
	t.Helper()

	gen, err := NewGenerator(cfg, WithRand(rand.New(rand.NewSource(seed)).Float64))
	require.NoError(t, err)

	rewards := make([]domain.Reward, 0, n)
	for i := 0; i < n; i++ {
		reward, err := gen.Generate("wooden_chest")
		require.NoError(t, err)
		rewards = append(rewards, reward)
	}
	return rewards
}

func TestGenerateAmountsWithinRange(t *testing.T) {
	gen, err := NewGenerator(testConfig(), WithRand(rand.New(rand.NewSource(7)).Float64))
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		reward, err := gen.Generate("wooden_chest")
		require.NoError(t, err)

		switch {
		case reward.Category == domain.RewardCrystals && reward.Rarity == domain.RarityCommon:
			assert.GreaterOrEqual(t, reward.Amount, int64(50))
			assert.LessOrEqual(t, reward.Amount, int64(150))
		case reward.Category == domain.RewardCrystals && reward.Rarity == domain.RarityRare:
			assert.GreaterOrEqual(t, reward.Amount, int64(200))
			assert.LessOrEqual(t, reward.Amount, int64(500))
		case reward.Category == domain.RewardAccessory:
			assert.NotEmpty(t, reward.AccessoryID)
			assert.Zero(t, reward.Amount)
		}
	}
}

func TestEmptyTableRejected(t *testing.T) {
	cfg := &Config{
		DropTables: map[string]TableDef{
			"empty": {},
		},
	}

	_, err := NewGenerator(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

func TestAllZeroWeightTableRejected(t *testing.T) {
	cfg := &Config{
		DropTables: map[string]TableDef{
			"zeroed": {
				Entries: []TableEntry{
					{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Weight: 0},
				},
			},
		},
		AmountRanges: []AmountRange{
			{Category: domain.RewardCrystals, Rarity: domain.RarityCommon, Min: 1, Max: 2},
		},
	}

	_, err := NewGenerator(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

func TestMissingAmountRangeRejected(t *testing.T) {
	cfg := &Config{
		DropTables: map[string]TableDef{
			"bad": {
				Entries: []TableEntry{
					{Category: domain.RewardStones, Rarity: domain.RarityRare, Weight: 10},
				},
			},
		},
	}

	_, err := NewGenerator(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

func TestUnknownTable(t *testing.T) {
	gen, err := NewGenerator(testConfig())
	require.NoError(t, err)

	_, err = gen.Generate("no_such_table")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}
