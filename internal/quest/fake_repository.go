package quest

import (
	"context"
	"sync"
	"time"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/profile"
)

type userQuestKey struct {
	userID  string
	questID int
	epoch   string
}

// FakeRepository implements repository.Quest in memory for testing.
type FakeRepository struct {
	mu       sync.Mutex
	quests   []domain.Quest
	rows     map[userQuestKey]*domain.UserQuest
	Profiles *profile.FakeRepository
}

func NewFakeRepository(profiles *profile.FakeRepository) *FakeRepository {
	return &FakeRepository{
		rows:     make(map[userQuestKey]*domain.UserQuest),
		Profiles: profiles,
	}
}

// SeedQuests replaces the quest content.
func (f *FakeRepository) SeedQuests(quests ...domain.Quest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quests = quests
}

func (f *FakeRepository) GetActiveQuests(ctx context.Context) ([]domain.Quest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Quest
	for _, q := range f.quests {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *FakeRepository) GetQuest(ctx context.Context, questID int) (*domain.Quest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, q := range f.quests {
		if q.ID == questID {
			cp := q
			return &cp, nil
		}
	}
	return nil, domain.ErrQuestNotFound
}

func (f *FakeRepository) GetUserQuests(ctx context.Context, userID string, refs []domain.QuestEpochRef) ([]domain.UserQuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.UserQuest
	for _, ref := range refs {
		if row, ok := f.rows[userQuestKey{userID, ref.QuestID, ref.Epoch}]; ok {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *FakeRepository) UpsertProgress(ctx context.Context, userID string, questID int, epoch string, increment, target int64, now time.Time) (*domain.UserQuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := userQuestKey{userID, questID, epoch}
	row, ok := f.rows[key]
	if !ok {
		row = &domain.UserQuest{UserID: userID, QuestID: questID, Epoch: epoch}
		f.rows[key] = row
	}

	row.Progress += increment
	if !row.IsCompleted && row.Progress >= target {
		row.IsCompleted = true
		completed := now
		row.CompletedAt = &completed
	}
	row.UpdatedAt = now

	cp := *row
	return &cp, nil
}

func (f *FakeRepository) ClaimReward(ctx context.Context, userID string, questID int, epoch string, reward domain.CurrencyDelta) (*domain.Profile, error) {
	f.mu.Lock()
	row, ok := f.rows[userQuestKey{userID, questID, epoch}]
	if !ok || !row.IsCompleted {
		f.mu.Unlock()
		return nil, domain.ErrNothingToClaim
	}
	if row.RewardClaimed {
		f.mu.Unlock()
		return nil, domain.ErrAlreadyClaimed
	}
	row.RewardClaimed = true
	f.mu.Unlock()

	p, err := f.Profiles.ApplyDelta(ctx, userID, reward)
	if err != nil {
		return nil, err
	}
	// Mirror the SQL transaction's quests_completed bump.
	f.Profiles.Mutate(userID, func(p *domain.Profile) { p.QuestsCompleted++ })
	p.QuestsCompleted++
	return p, nil
}
