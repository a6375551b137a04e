package profile

import (
	"context"
	"sync"
	"time"

	"github.com/pettycoon/backend/internal/domain"
)

// FakeRepository implements repository.Profile in memory for testing. The
// conditional-write guards mirror the SQL implementation so claim races can
// be exercised without a database.
type FakeRepository struct {
	mu           sync.Mutex
	profiles     map[string]*domain.Profile
	petStats     map[string]*domain.PetStats
	Achievements map[string]int // user -> unlocked achievement count for snapshots
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		profiles:     make(map[string]*domain.Profile),
		petStats:     make(map[string]*domain.PetStats),
		Achievements: make(map[string]int),
	}
}

// Seed installs a profile directly, bypassing registration defaults.
func (f *FakeRepository) Seed(p domain.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = &p
}

// SeedPetStats installs a caught-pets aggregate.
func (f *FakeRepository) SeedPetStats(s domain.PetStats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.petStats[s.UserID] = &s
}

// Mutate applies fn to the stored profile under the lock. Helper for
// sibling fakes that mirror multi-table transactions.
func (f *FakeRepository) Mutate(userID string, fn func(*domain.Profile)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		fn(p)
	}
}

func (f *FakeRepository) CreateProfile(ctx context.Context, userID, username string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.profiles[userID]; ok {
		p.Username = username
		cp := *p
		return &cp, nil
	}

	now := time.Now()
	p := &domain.Profile{
		ID:        userID,
		Username:  username,
		Level:     1,
		PetType:   "cat",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.profiles[userID] = p
	cp := *p
	return &cp, nil
}

func (f *FakeRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *FakeRepository) GetSnapshot(ctx context.Context, userID string) (*domain.PlayerSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	s := &domain.PlayerSnapshot{
		UserID:            userID,
		Level:             p.Level,
		Crystals:          p.Crystals,
		Diamonds:          p.Diamonds,
		StreakDays:        p.StreakDays,
		PetChanges:        p.PetChanges,
		QuestsCompleted:   p.QuestsCompleted,
		TotalClicks:       p.TotalClicks,
		FriendsCount:      p.FriendsCount,
		AchievementsCount: f.Achievements[userID],
	}
	if ps, ok := f.petStats[userID]; ok {
		s.LegendaryCaught = ps.LegendaryCaught
		s.MaxLegendaryStreak = ps.MaxLegendaryStreak
	}
	return s, nil
}

func (f *FakeRepository) ApplyDelta(ctx context.Context, userID string, delta domain.CurrencyDelta) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyDeltaLocked(userID, delta)
}

func (f *FakeRepository) applyDeltaLocked(userID string, delta domain.CurrencyDelta) (*domain.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if p.Crystals+delta.Crystals < 0 || p.Diamonds+delta.Diamonds < 0 || p.Stones+delta.Stones < 0 {
		return nil, domain.ErrInsufficientFunds
	}

	p.Crystals += delta.Crystals
	p.Diamonds += delta.Diamonds
	p.Stones += delta.Stones
	p.XP += delta.XP
	if p.XP < 0 {
		p.XP = 0
	}
	if delta.Crystals > 0 {
		p.TotalCrystalsEarned += delta.Crystals
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *FakeRepository) SetLevel(ctx context.Context, userID string, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.profiles[userID]; ok && p.Level < level {
		p.Level = level
	}
	return nil
}

func (f *FakeRepository) RecordTap(ctx context.Context, userID string, crystals, xp int64, state domain.ComboState) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	p.Crystals += crystals
	p.XP += xp
	p.TotalClicks++
	p.TotalCrystalsEarned += crystals
	p.Combo = state
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *FakeRepository) RecordCatch(ctx context.Context, userID string, crystals, xp int64, state domain.ComboState, legendary bool) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	p.Crystals += crystals
	p.XP += xp
	p.TotalCrystalsEarned += crystals
	p.Combo.LegendaryStreak = state.LegendaryStreak
	p.UpdatedAt = time.Now()

	ps, ok := f.petStats[userID]
	if !ok {
		ps = &domain.PetStats{UserID: userID}
		f.petStats[userID] = ps
	}
	ps.TotalCaught++
	if legendary {
		ps.LegendaryCaught++
	}
	if state.LegendaryStreak > ps.MaxLegendaryStreak {
		ps.MaxLegendaryStreak = state.LegendaryStreak
	}

	cp := *p
	return &cp, nil
}

func (f *FakeRepository) ChangePet(ctx context.Context, userID, petType string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	p.PetType = petType
	p.PetChanges++
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *FakeRepository) ClaimDailyChest(ctx context.Context, userID string, claimedAt, dayStart time.Time, reward domain.CurrencyDelta, streakDays int) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if p.LastChestClaim != nil && !p.LastChestClaim.Before(dayStart) {
		return nil, domain.ErrAlreadyClaimedToday
	}

	p.Crystals += reward.Crystals
	p.Diamonds += reward.Diamonds
	p.Stones += reward.Stones
	p.XP += reward.XP
	if reward.Crystals > 0 {
		p.TotalCrystalsEarned += reward.Crystals
	}
	p.StreakDays = streakDays
	claimed := claimedAt
	p.LastStreakDate = &claimed
	p.LastChestClaim = &claimed
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *FakeRepository) ClaimPassive(ctx context.Context, userID string, prevClaim *time.Time, claimedAt time.Time, earned, xpPenalty int64) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	switch {
	case prevClaim == nil && p.LastPassiveClaim != nil,
		prevClaim != nil && p.LastPassiveClaim == nil,
		prevClaim != nil && p.LastPassiveClaim != nil && !prevClaim.Equal(*p.LastPassiveClaim):
		return nil, domain.ErrConcurrencyConflict
	}

	p.Crystals += earned
	p.TotalCrystalsEarned += earned
	p.XP -= xpPenalty
	if p.XP < 0 {
		p.XP = 0
	}
	claimed := claimedAt
	p.LastPassiveClaim = &claimed
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}
