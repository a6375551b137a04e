package domain

// Leveling
const (
	// LevelXPStep is the per-level increment of the cumulative XP curve.
	LevelXPStep int64 = 100

	// ClickBaseCrystals and ClickBaseXP are the raw per-tap gains before
	// multipliers apply.
	ClickBaseCrystals int64 = 1
	ClickBaseXP       int64 = 1
)

// Rarity currency values used when scaling catch rewards.
var RarityValue = map[Rarity]int64{
	RarityCommon:    1,
	RarityRare:      5,
	RarityEpic:      20,
	RarityLegendary: 100,
}

// Daily chest
const (
	ChestBaseCrystals int64 = 500
	ChestBaseStones   int64 = 10
	// ChestStreakBonusPerDay is added per consecutive day of claims.
	ChestStreakBonusPerDay int64 = 50
)

// ChestStreakMilestones are the streak days that pay an extra stone bonus.
var ChestStreakMilestones = map[int]int64{
	7:  50,
	14: 120,
	30: 300,
}

// Passive income defaults
const (
	PassiveDefaultRatePerHour int64 = 10
	PassiveDefaultMaxHours          = 24
	PassiveDefaultGraceHours        = 24
	PassiveDefaultBasePenalty int64 = 5
)

// Game event sources recorded on reward grants and audit rows.
const (
	SourceClick        = "click"
	SourceCatch        = "catch"
	SourceChestClaim   = "chest_claim"
	SourcePassiveClaim = "passive_claim"
	SourceQuestReward  = "quest_reward"
	SourceUnlockReward = "unlock_reward"
	SourceLootboxOpen  = "lootbox_open"
)
