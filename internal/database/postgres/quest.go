package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pettycoon/backend/internal/database"
	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/repository"
)

const questColumns = `quest_id, quest_key, name_en, name_ru, description, epoch_kind,
	requirement_type, requirement_value, reward_crystals, reward_diamonds, reward_stones,
	reward_xp, is_active`

const userQuestColumns = `user_id, quest_id, epoch, progress, is_completed, reward_claimed,
	completed_at, updated_at`

// QuestRepository implements the quest repository for PostgreSQL
type QuestRepository struct {
	db *pgxpool.Pool
}

// NewQuestRepository creates a new QuestRepository
func NewQuestRepository(db *pgxpool.Pool) repository.Quest {
	return &QuestRepository{db: db}
}

func scanQuest(row pgx.Row) (*domain.Quest, error) {
	var q domain.Quest
	err := row.Scan(&q.ID, &q.Key, &q.NameEN, &q.NameRU, &q.Description, &q.EpochKind,
		&q.RequirementType, &q.RequirementValue, &q.Reward.Crystals, &q.Reward.Diamonds,
		&q.Reward.Stones, &q.Reward.XP, &q.IsActive)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func scanUserQuest(row pgx.Row) (*domain.UserQuest, error) {
	var uq domain.UserQuest
	err := row.Scan(&uq.UserID, &uq.QuestID, &uq.Epoch, &uq.Progress, &uq.IsCompleted,
		&uq.RewardClaimed, &uq.CompletedAt, &uq.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &uq, nil
}

// GetActiveQuests retrieves all quests currently offered
func (r *QuestRepository) GetActiveQuests(ctx context.Context) ([]domain.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE is_active ORDER BY quest_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active quests: %w", err)
	}
	defer rows.Close()

	var quests []domain.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quest: %w", err)
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}

// GetQuest retrieves one quest by ID
func (r *QuestRepository) GetQuest(ctx context.Context, questID int) (*domain.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE quest_id = $1`

	quest, err := scanQuest(r.db.QueryRow(ctx, query, questID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestNotFound
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	return quest, nil
}

// GetUserQuests fetches the user's rows for the given (quest, epoch) pairs
func (r *QuestRepository) GetUserQuests(ctx context.Context, userID string, refs []domain.QuestEpochRef) ([]domain.UserQuest, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	questIDs := make([]int, len(refs))
	epochs := make([]string, len(refs))
	for i, ref := range refs {
		questIDs[i] = ref.QuestID
		epochs[i] = ref.Epoch
	}

	query := `
		SELECT ` + userQuestColumns + `
		FROM user_quests
		WHERE user_id = $1
			AND (quest_id, epoch) IN (SELECT * FROM unnest($2::int[], $3::text[]))`

	rows, err := r.db.Query(ctx, query, userID, questIDs, epochs)
	if err != nil {
		return nil, fmt.Errorf("failed to query user quests: %w", err)
	}
	defer rows.Close()

	var userQuests []domain.UserQuest
	for rows.Next() {
		uq, err := scanUserQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user quest: %w", err)
		}
		userQuests = append(userQuests, *uq)
	}
	return userQuests, rows.Err()
}

// UpsertProgress adds increment to the epoch row, creating it on first
// progress. Completion latches at target and the raw counter keeps growing
// past it.
func (r *QuestRepository) UpsertProgress(ctx context.Context, userID string, questID int, epoch string, increment, target int64, now time.Time) (*domain.UserQuest, error) {
	query := `
		INSERT INTO user_quests (user_id, quest_id, epoch, progress, is_completed, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $4 >= $5, CASE WHEN $4 >= $5 THEN $6::timestamptz END, $6)
		ON CONFLICT (user_id, quest_id, epoch) DO UPDATE SET
			progress = user_quests.progress + $4,
			is_completed = user_quests.is_completed OR user_quests.progress + $4 >= $5,
			completed_at = COALESCE(user_quests.completed_at,
				CASE WHEN user_quests.progress + $4 >= $5 THEN $6::timestamptz END),
			updated_at = $6
		RETURNING ` + userQuestColumns

	uq, err := scanUserQuest(r.db.QueryRow(ctx, query, userID, questID, epoch, increment, target, now))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert quest progress: %w", err)
	}
	return uq, nil
}

// ClaimReward flips reward_claimed on a completed row, credits the reward
// and bumps quests_completed in one transaction.
func (r *QuestRepository) ClaimReward(ctx context.Context, userID string, questID int, epoch string, reward domain.CurrencyDelta) (*domain.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE user_quests
		SET reward_claimed = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND quest_id = $2 AND epoch = $3
			AND is_completed = TRUE AND reward_claimed = FALSE`,
		userID, questID, epoch)
	if err != nil {
		return nil, fmt.Errorf("failed to mark quest reward claimed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var claimed bool
		err := tx.QueryRow(ctx, `
			SELECT reward_claimed FROM user_quests
			WHERE user_id = $1 AND quest_id = $2 AND epoch = $3 AND is_completed = TRUE`,
			userID, questID, epoch).Scan(&claimed)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNothingToClaim
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check quest claim state: %w", err)
		}
		return nil, domain.ErrAlreadyClaimed
	}

	profile, err := applyDelta(ctx, tx, userID, reward)
	if err != nil {
		return nil, fmt.Errorf("failed to credit quest reward: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE profiles SET quests_completed = quests_completed + 1 WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to bump quests completed: %w", err)
	}
	profile.QuestsCompleted++

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quest claim: %w", err)
	}
	return profile, nil
}
