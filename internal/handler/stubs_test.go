package handler_test

import (
	"context"
	"errors"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/lootbox"
	"github.com/pettycoon/backend/internal/profile"
	"github.com/pettycoon/backend/internal/progression"
)

// errStubNotConfigured is returned by stub methods a test did not wire up,
// so an unexpected service call fails the test loudly instead of panicking.
var errStubNotConfigured = errors.New("stub method not configured")

// stubProgressionService implements progression.Service with per-method
// function fields so each test wires only the calls it expects.
type stubProgressionService struct {
	tapFn               func(ctx context.Context, userID string) (*progression.TapResult, error)
	catchFn             func(ctx context.Context, userID string, rarity domain.Rarity) (*progression.CatchResult, error)
	claimChestFn        func(ctx context.Context, userID string) (*progression.ChestResult, error)
	claimPassiveFn      func(ctx context.Context, userID string) (*progression.PassiveResult, error)
	claimUnlockRewardFn func(ctx context.Context, userID string, itemType domain.UnlockableType, itemID int) (*progression.ClaimResult, error)
	claimQuestRewardFn  func(ctx context.Context, userID string, questID int) (*progression.ClaimResult, error)
	equipTitleFn        func(ctx context.Context, userID string, titleID int) error
	changePetFn         func(ctx context.Context, userID, petType string) (*progression.PetChangeResult, error)
	purchaseLootboxFn   func(ctx context.Context, userID string, lootboxID, quantity int) (*domain.Profile, error)
	openLootboxFn       func(ctx context.Context, userID string, lootboxID int) (*domain.LootboxOpening, []domain.UnlockedItem, error)
	listCatalogFn       func(ctx context.Context, userID string, itemType domain.UnlockableType) ([]domain.CatalogItemStatus, error)
	listQuestsFn        func(ctx context.Context, userID string) ([]domain.QuestProgress, error)
}

func (s *stubProgressionService) Tap(ctx context.Context, userID string) (*progression.TapResult, error) {
	if s.tapFn == nil {
		return nil, errStubNotConfigured
	}
	return s.tapFn(ctx, userID)
}

func (s *stubProgressionService) Catch(ctx context.Context, userID string, rarity domain.Rarity) (*progression.CatchResult, error) {
	if s.catchFn == nil {
		return nil, errStubNotConfigured
	}
	return s.catchFn(ctx, userID, rarity)
}

func (s *stubProgressionService) ClaimChest(ctx context.Context, userID string) (*progression.ChestResult, error) {
	if s.claimChestFn == nil {
		return nil, errStubNotConfigured
	}
	return s.claimChestFn(ctx, userID)
}

func (s *stubProgressionService) ClaimPassive(ctx context.Context, userID string) (*progression.PassiveResult, error) {
	if s.claimPassiveFn == nil {
		return nil, errStubNotConfigured
	}
	return s.claimPassiveFn(ctx, userID)
}

func (s *stubProgressionService) ClaimUnlockReward(ctx context.Context, userID string, itemType domain.UnlockableType, itemID int) (*progression.ClaimResult, error) {
	if s.claimUnlockRewardFn == nil {
		return nil, errStubNotConfigured
	}
	return s.claimUnlockRewardFn(ctx, userID, itemType, itemID)
}

func (s *stubProgressionService) ClaimQuestReward(ctx context.Context, userID string, questID int) (*progression.ClaimResult, error) {
	if s.claimQuestRewardFn == nil {
		return nil, errStubNotConfigured
	}
	return s.claimQuestRewardFn(ctx, userID, questID)
}

func (s *stubProgressionService) EquipTitle(ctx context.Context, userID string, titleID int) error {
	if s.equipTitleFn == nil {
		return errStubNotConfigured
	}
	return s.equipTitleFn(ctx, userID, titleID)
}

func (s *stubProgressionService) ChangePet(ctx context.Context, userID, petType string) (*progression.PetChangeResult, error) {
	if s.changePetFn == nil {
		return nil, errStubNotConfigured
	}
	return s.changePetFn(ctx, userID, petType)
}

func (s *stubProgressionService) PurchaseLootbox(ctx context.Context, userID string, lootboxID, quantity int) (*domain.Profile, error) {
	if s.purchaseLootboxFn == nil {
		return nil, errStubNotConfigured
	}
	return s.purchaseLootboxFn(ctx, userID, lootboxID, quantity)
}

func (s *stubProgressionService) OpenLootbox(ctx context.Context, userID string, lootboxID int) (*domain.LootboxOpening, []domain.UnlockedItem, error) {
	if s.openLootboxFn == nil {
		return nil, nil, errStubNotConfigured
	}
	return s.openLootboxFn(ctx, userID, lootboxID)
}

func (s *stubProgressionService) ListCatalog(ctx context.Context, userID string, itemType domain.UnlockableType) ([]domain.CatalogItemStatus, error) {
	if s.listCatalogFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listCatalogFn(ctx, userID, itemType)
}

func (s *stubProgressionService) ListQuests(ctx context.Context, userID string) ([]domain.QuestProgress, error) {
	if s.listQuestsFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listQuestsFn(ctx, userID)
}

// stubProfileService implements profile.Service
type stubProfileService struct {
	registerFn   func(ctx context.Context, userID, username string) (*domain.Profile, error)
	getProfileFn func(ctx context.Context, userID string) (*domain.Profile, error)
	cacheStats   profile.CacheStats
	invalidated  []string
}

func (s *stubProfileService) Register(ctx context.Context, userID, username string) (*domain.Profile, error) {
	if s.registerFn == nil {
		return nil, errStubNotConfigured
	}
	return s.registerFn(ctx, userID, username)
}

func (s *stubProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if s.getProfileFn == nil {
		return nil, errStubNotConfigured
	}
	return s.getProfileFn(ctx, userID)
}

func (s *stubProfileService) GetSnapshot(ctx context.Context, userID string) (*domain.PlayerSnapshot, error) {
	return nil, errStubNotConfigured
}

func (s *stubProfileService) ChangePet(ctx context.Context, userID, petType string) (*domain.Profile, error) {
	return nil, errStubNotConfigured
}

func (s *stubProfileService) InvalidateCache(userID string) {
	s.invalidated = append(s.invalidated, userID)
}

func (s *stubProfileService) GetCacheStats() profile.CacheStats {
	return s.cacheStats
}

// stubLootboxService implements lootbox.Service
type stubLootboxService struct {
	listCatalogFn func(ctx context.Context) ([]domain.Lootbox, error)
	listOwnedFn   func(ctx context.Context, userID string) ([]domain.UserLootbox, error)
	historyFn     func(ctx context.Context, userID string, limit int) ([]domain.LootboxOpening, error)
}

func (s *stubLootboxService) ListCatalog(ctx context.Context) ([]domain.Lootbox, error) {
	if s.listCatalogFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listCatalogFn(ctx)
}

func (s *stubLootboxService) ListOwned(ctx context.Context, userID string) ([]domain.UserLootbox, error) {
	if s.listOwnedFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listOwnedFn(ctx, userID)
}

func (s *stubLootboxService) Purchase(ctx context.Context, userID string, lootboxID, quantity int) (*domain.Profile, error) {
	return nil, errStubNotConfigured
}

func (s *stubLootboxService) Open(ctx context.Context, userID string, lootboxID int) (*domain.LootboxOpening, error) {
	return nil, errStubNotConfigured
}

func (s *stubLootboxService) History(ctx context.Context, userID string, limit int) ([]domain.LootboxOpening, error) {
	if s.historyFn == nil {
		return nil, errStubNotConfigured
	}
	return s.historyFn(ctx, userID, limit)
}

// ensure the stubs keep tracking the real interfaces
var (
	_ progression.Service = (*stubProgressionService)(nil)
	_ profile.Service     = (*stubProfileService)(nil)
	_ lootbox.Service     = (*stubLootboxService)(nil)
)
