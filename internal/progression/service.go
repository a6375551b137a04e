// Package progression orchestrates the reward engine: every player action
// flows through here, which credits earnings, recomputes the level, feeds
// quest progress and re-evaluates the unlock catalog, in that order.
package progression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pettycoon/backend/internal/combo"
	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/event"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/lootbox"
	"github.com/pettycoon/backend/internal/metrics"
	"github.com/pettycoon/backend/internal/passive"
	"github.com/pettycoon/backend/internal/profile"
	"github.com/pettycoon/backend/internal/quest"
	"github.com/pettycoon/backend/internal/repository"
	"github.com/pettycoon/backend/internal/unlock"
)

// Service defines the interface for progression operations
type Service interface {
	Tap(ctx context.Context, userID string) (*TapResult, error)
	Catch(ctx context.Context, userID string, rarity domain.Rarity) (*CatchResult, error)
	ClaimChest(ctx context.Context, userID string) (*ChestResult, error)
	ClaimPassive(ctx context.Context, userID string) (*PassiveResult, error)

	ClaimUnlockReward(ctx context.Context, userID string, itemType domain.UnlockableType, itemID int) (*ClaimResult, error)
	ClaimQuestReward(ctx context.Context, userID string, questID int) (*ClaimResult, error)
	EquipTitle(ctx context.Context, userID string, titleID int) error
	ChangePet(ctx context.Context, userID, petType string) (*PetChangeResult, error)

	PurchaseLootbox(ctx context.Context, userID string, lootboxID, quantity int) (*domain.Profile, error)
	OpenLootbox(ctx context.Context, userID string, lootboxID int) (*domain.LootboxOpening, []domain.UnlockedItem, error)

	ListCatalog(ctx context.Context, userID string, itemType domain.UnlockableType) ([]domain.CatalogItemStatus, error)
	ListQuests(ctx context.Context, userID string) ([]domain.QuestProgress, error)
}

type service struct {
	profileRepo repository.Profile
	profiles    profile.Service
	unlocks     unlock.Service
	quests      quest.Service
	lootboxes   lootbox.Service
	eventBus    event.Bus
	passive     passive.Policy
	now         func() time.Time
}

// NewService creates a new progression service
func NewService(
	profileRepo repository.Profile,
	profiles profile.Service,
	unlocks unlock.Service,
	quests quest.Service,
	lootboxes lootbox.Service,
	eventBus event.Bus,
	passivePolicy passive.Policy,
) Service {
	return &service{
		profileRepo: profileRepo,
		profiles:    profiles,
		unlocks:     unlocks,
		quests:      quests,
		lootboxes:   lootboxes,
		eventBus:    eventBus,
		passive:     passivePolicy,
		now:         time.Now,
	}
}

// loadActive fetches the profile and rejects banned players up front.
func (s *service) loadActive(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.IsBanned {
		return nil, domain.ErrProfileBanned
	}
	return p, nil
}

// syncLevel recomputes the level from cumulative XP and persists it when it
// grew. Returns true on level-up.
func (s *service) syncLevel(ctx context.Context, p *domain.Profile, source string) bool {
	newLevel := domain.LevelForXP(p.XP)
	if newLevel <= p.Level {
		return false
	}

	if err := s.profileRepo.SetLevel(ctx, p.ID, newLevel); err != nil {
		logger.FromContext(ctx).Error("Failed to persist level up", "user_id", p.ID, "level", newLevel, "error", err)
		return false
	}

	if err := s.eventBus.Publish(ctx, event.NewLevelUpEvent(p.ID, p.Level, newLevel, source)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish level up event", "user_id", p.ID, "error", err)
	}
	logger.FromContext(ctx).Info("Level up", "user_id", p.ID, "old_level", p.Level, "new_level", newLevel, "source", source)

	p.Level = newLevel
	return true
}

// evaluateUnlocks sweeps the catalog against a fresh snapshot. Evaluation
// failures are logged, never returned: the sweep reruns on the next action.
func (s *service) evaluateUnlocks(ctx context.Context, userID, petType string) []domain.UnlockedItem {
	snap, err := s.profiles.GetSnapshot(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to snapshot for unlock evaluation", "user_id", userID, "error", err)
		return nil
	}

	newly, err := s.unlocks.EvaluateAll(ctx, userID, *snap, petType)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to evaluate unlocks", "user_id", userID, "error", err)
		return nil
	}

	for _, u := range newly {
		metrics.ItemsUnlocked.WithLabelValues(string(u.Item.Type)).Inc()
	}
	return newly
}

// trackQuests feeds stat increments into quest progress. Quest failures are
// soft for the same reason unlock failures are.
func (s *service) trackQuests(ctx context.Context, userID string, increments map[domain.RequirementType]int64) []domain.Quest {
	completed, err := s.quests.Track(ctx, userID, increments)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to track quest progress", "user_id", userID, "error", err)
		return nil
	}

	for _, q := range completed {
		metrics.QuestsCompleted.WithLabelValues(string(q.EpochKind)).Inc()
	}
	return completed
}

func (s *service) Tap(ctx context.Context, userID string) (*TapResult, error) {
	p, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	state, mult := combo.Tap(p.Combo, now)

	updated, err := s.profileRepo.RecordTap(ctx, userID, domain.ClickBaseCrystals, domain.ClickBaseXP, state)
	if err != nil {
		return nil, fmt.Errorf("failed to record tap: %w", err)
	}
	s.profiles.InvalidateCache(userID)

	metrics.TapsTotal.Inc()
	metrics.CrystalsEarned.WithLabelValues(domain.SourceClick).Add(float64(domain.ClickBaseCrystals))

	result := &TapResult{
		Profile:         updated,
		CrystalsEarned:  domain.ClickBaseCrystals,
		XPEarned:        domain.ClickBaseXP,
		TapCombo:        state.TapCombo,
		ComboMultiplier: mult,
	}
	result.LeveledUp = s.syncLevel(ctx, updated, domain.SourceClick)

	// The combo multiplier weights quest progress, not the payout.
	weighted := int64(math.Round(mult))
	result.CompletedQuests = s.trackQuests(ctx, userID, map[domain.RequirementType]int64{
		domain.RequirementTotalClicks: weighted,
		domain.RequirementCrystals:    result.CrystalsEarned,
	})
	result.NewUnlocks = s.evaluateUnlocks(ctx, userID, updated.PetType)

	return result, nil
}

func (s *service) Catch(ctx context.Context, userID string, rarity domain.Rarity) (*CatchResult, error) {
	base, ok := domain.RarityValue[rarity]
	if !ok {
		return nil, fmt.Errorf("%w: unknown rarity %q", domain.ErrInvalidInput, rarity)
	}

	p, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	state, mult := combo.Catch(p.Combo, rarity)
	crystals := base * mult
	xp := base

	updated, err := s.profileRepo.RecordCatch(ctx, userID, crystals, xp, state, rarity == domain.RarityLegendary)
	if err != nil {
		return nil, fmt.Errorf("failed to record catch: %w", err)
	}
	s.profiles.InvalidateCache(userID)

	metrics.CatchesTotal.WithLabelValues(string(rarity)).Inc()
	metrics.CrystalsEarned.WithLabelValues(domain.SourceCatch).Add(float64(crystals))

	result := &CatchResult{
		Profile:          updated,
		Rarity:           rarity,
		CrystalsEarned:   crystals,
		XPEarned:         xp,
		LegendaryStreak:  state.LegendaryStreak,
		StreakMultiplier: mult,
	}
	result.LeveledUp = s.syncLevel(ctx, updated, domain.SourceCatch)

	increments := map[domain.RequirementType]int64{
		domain.RequirementCrystals: crystals,
	}
	if rarity == domain.RarityLegendary {
		increments[domain.RequirementLegendaryCaught] = 1
	}
	result.CompletedQuests = s.trackQuests(ctx, userID, increments)
	result.NewUnlocks = s.evaluateUnlocks(ctx, userID, updated.PetType)

	return result, nil
}

func (s *service) ClaimChest(ctx context.Context, userID string) (*ChestResult, error) {
	p, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := now.Truncate(24 * time.Hour)

	// The repository guard is authoritative; this just spares a round trip.
	if p.LastChestClaim != nil && !p.LastChestClaim.UTC().Before(dayStart) {
		return nil, domain.ErrAlreadyClaimedToday
	}

	streak := 1
	if p.LastStreakDate != nil && p.LastStreakDate.UTC().Truncate(24*time.Hour).Equal(dayStart.Add(-24*time.Hour)) {
		streak = p.StreakDays + 1
	}

	milestone := domain.ChestStreakMilestones[streak]
	reward := domain.CurrencyDelta{
		Crystals: domain.ChestBaseCrystals + domain.ChestStreakBonusPerDay*int64(streak-1),
		Stones:   domain.ChestBaseStones + milestone,
	}

	updated, err := s.profileRepo.ClaimDailyChest(ctx, userID, now, dayStart, reward, streak)
	if err != nil {
		return nil, err
	}
	s.profiles.InvalidateCache(userID)

	metrics.ChestsClaimed.Inc()
	metrics.CrystalsEarned.WithLabelValues(domain.SourceChestClaim).Add(float64(reward.Crystals))

	if err := s.eventBus.Publish(ctx, event.NewChestClaimedEvent(userID, reward.Crystals, reward.Stones, streak)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish chest claimed event", "user_id", userID, "error", err)
	}
	logger.FromContext(ctx).Info("Daily chest claimed", "user_id", userID, "streak_days", streak,
		"crystals", reward.Crystals, "stones", reward.Stones)

	result := &ChestResult{
		Profile:        updated,
		Reward:         reward,
		StreakDays:     streak,
		MilestoneBonus: milestone,
	}
	result.LeveledUp = s.syncLevel(ctx, updated, domain.SourceChestClaim)
	result.CompletedQuests = s.trackQuests(ctx, userID, map[domain.RequirementType]int64{
		domain.RequirementStreak:   1,
		domain.RequirementCrystals: reward.Crystals,
	})
	result.NewUnlocks = s.evaluateUnlocks(ctx, userID, updated.PetType)

	return result, nil
}

func (s *service) ClaimPassive(ctx context.Context, userID string) (*PassiveResult, error) {
	p, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One retry after a lost conditional write, then give up and let the
	// client resubmit.
	for attempt := 0; ; attempt++ {
		result, err := s.claimPassiveOnce(ctx, p)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= PassiveClaimRetries {
			return nil, err
		}

		metrics.ConcurrencyRetries.WithLabelValues("passive_claim").Inc()
		s.profiles.InvalidateCache(userID)
		p, err = s.loadActive(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
}

func (s *service) claimPassiveOnce(ctx context.Context, p *domain.Profile) (*PassiveResult, error) {
	now := s.now()

	since := p.CreatedAt
	if p.LastPassiveClaim != nil {
		since = *p.LastPassiveClaim
	}

	accrued := passive.Accrue(s.passive, since, now, p.XP)
	if accrued.Earned == 0 && accrued.XPPenalty == 0 {
		return nil, domain.ErrNothingToClaim
	}

	updated, err := s.profileRepo.ClaimPassive(ctx, p.ID, p.LastPassiveClaim, now, accrued.Earned, accrued.XPPenalty)
	if err != nil {
		return nil, err
	}
	s.profiles.InvalidateCache(p.ID)

	metrics.PassiveClaims.Inc()
	metrics.CrystalsEarned.WithLabelValues(domain.SourcePassiveClaim).Add(float64(accrued.Earned))
	if accrued.PenaltyApplied {
		metrics.XPPenalties.Add(float64(accrued.XPPenalty))
	}

	if err := s.eventBus.Publish(ctx, event.NewPassiveClaimedEvent(p.ID, accrued.Earned, accrued.ElapsedHours, accrued.XPPenalty)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish passive claimed event", "user_id", p.ID, "error", err)
	}
	logger.FromContext(ctx).Info("Passive income claimed", "user_id", p.ID,
		"earned", accrued.Earned, "hours_counted", accrued.HoursCounted,
		"elapsed_hours", accrued.ElapsedHours, "xp_penalty", accrued.XPPenalty)

	result := &PassiveResult{
		Profile:        updated,
		Earned:         accrued.Earned,
		HoursCounted:   accrued.HoursCounted,
		ElapsedHours:   accrued.ElapsedHours,
		XPPenalty:      accrued.XPPenalty,
		PenaltyApplied: accrued.PenaltyApplied,
	}
	s.trackQuests(ctx, p.ID, map[domain.RequirementType]int64{
		domain.RequirementCrystals: accrued.Earned,
	})
	result.NewUnlocks = s.evaluateUnlocks(ctx, p.ID, updated.PetType)

	return result, nil
}

func (s *service) ClaimUnlockReward(ctx context.Context, userID string, itemType domain.UnlockableType, itemID int) (*ClaimResult, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}

	updated, item, err := s.unlocks.ClaimReward(ctx, userID, itemType, itemID)
	if err != nil {
		return nil, err
	}
	s.profiles.InvalidateCache(userID)

	metrics.RewardsClaimed.WithLabelValues(string(itemType)).Inc()
	metrics.CrystalsEarned.WithLabelValues(domain.SourceUnlockReward).Add(float64(item.Reward.Crystals))

	result := &ClaimResult{Profile: updated, Reward: item.Reward}
	result.LeveledUp = s.syncLevel(ctx, updated, domain.SourceUnlockReward)
	result.NewUnlocks = s.evaluateUnlocks(ctx, userID, updated.PetType)
	return result, nil
}

func (s *service) ClaimQuestReward(ctx context.Context, userID string, questID int) (*ClaimResult, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}

	updated, q, err := s.quests.Claim(ctx, userID, questID)
	if err != nil {
		return nil, err
	}
	s.profiles.InvalidateCache(userID)

	metrics.CrystalsEarned.WithLabelValues(domain.SourceQuestReward).Add(float64(q.Reward.Crystals))

	result := &ClaimResult{Profile: updated, Reward: q.Reward}
	result.LeveledUp = s.syncLevel(ctx, updated, domain.SourceQuestReward)
	result.NewUnlocks = s.evaluateUnlocks(ctx, userID, updated.PetType)
	return result, nil
}

func (s *service) EquipTitle(ctx context.Context, userID string, titleID int) error {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return err
	}
	return s.unlocks.EquipTitle(ctx, userID, titleID)
}

func (s *service) ChangePet(ctx context.Context, userID, petType string) (*PetChangeResult, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := s.profiles.ChangePet(ctx, userID, petType)
	if err != nil {
		return nil, err
	}

	return &PetChangeResult{
		Profile:    updated,
		NewUnlocks: s.evaluateUnlocks(ctx, userID, updated.PetType),
	}, nil
}

func (s *service) PurchaseLootbox(ctx context.Context, userID string, lootboxID, quantity int) (*domain.Profile, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := s.lootboxes.Purchase(ctx, userID, lootboxID, quantity)
	if err != nil {
		return nil, err
	}
	s.profiles.InvalidateCache(userID)
	metrics.LootboxesPurchased.Inc()

	return updated, nil
}

func (s *service) OpenLootbox(ctx context.Context, userID string, lootboxID int) (*domain.LootboxOpening, []domain.UnlockedItem, error) {
	p, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	opening, err := s.lootboxes.Open(ctx, userID, lootboxID)
	if err != nil {
		return nil, nil, err
	}
	s.profiles.InvalidateCache(userID)

	metrics.LootboxesOpened.WithLabelValues(string(opening.Reward.Rarity)).Inc()
	if delta := opening.Reward.Delta(); delta.Crystals > 0 {
		metrics.CrystalsEarned.WithLabelValues(domain.SourceLootboxOpen).Add(float64(delta.Crystals))
	}

	newUnlocks := s.evaluateUnlocks(ctx, userID, p.PetType)
	return opening, newUnlocks, nil
}

func (s *service) ListCatalog(ctx context.Context, userID string, itemType domain.UnlockableType) ([]domain.CatalogItemStatus, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.profiles.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.unlocks.ListByType(ctx, userID, itemType, *snap, p.PetType)
}

func (s *service) ListQuests(ctx context.Context, userID string) ([]domain.QuestProgress, error) {
	if _, err := s.profiles.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	return s.quests.List(ctx, userID)
}
