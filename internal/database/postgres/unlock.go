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

const catalogColumns = `item_id, item_type, item_key, name_en, name_ru, description, icon,
	requirement_type, requirement_value, reward_crystals, reward_diamonds, reward_stones,
	reward_xp, auto_claim, COALESCE(pet_type, '')`

// UnlockRepository implements the unlock ledger for PostgreSQL
type UnlockRepository struct {
	db *pgxpool.Pool
}

// NewUnlockRepository creates a new UnlockRepository
func NewUnlockRepository(db *pgxpool.Pool) repository.Unlock {
	return &UnlockRepository{db: db}
}

func scanCatalogItem(row pgx.Row) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := row.Scan(&item.ID, &item.Type, &item.Key, &item.NameEN, &item.NameRU,
		&item.Description, &item.Icon, &item.Requirement.Type, &item.Requirement.Threshold,
		&item.Reward.Crystals, &item.Reward.Diamonds, &item.Reward.Stones, &item.Reward.XP,
		&item.AutoClaim, &item.PetType)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCatalogItems retrieves the full unlockable catalog
func (r *UnlockRepository) GetCatalogItems(ctx context.Context) ([]domain.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items ORDER BY item_type, item_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetCatalogItem retrieves a single catalog entry
func (r *UnlockRepository) GetCatalogItem(ctx context.Context, itemType domain.UnlockableType, itemID int) (*domain.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE item_type = $1 AND item_id = $2`

	item, err := scanCatalogItem(r.db.QueryRow(ctx, query, itemType, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}
	return item, nil
}

// GetUserUnlocks retrieves the user's full unlock ledger
func (r *UnlockRepository) GetUserUnlocks(ctx context.Context, userID string) ([]domain.UserUnlock, error) {
	query := `
		SELECT user_id, item_id, item_type, unlocked_at, reward_claimed, is_equipped
		FROM user_unlocks
		WHERE user_id = $1
		ORDER BY unlocked_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []domain.UserUnlock
	for rows.Next() {
		var u domain.UserUnlock
		if err := rows.Scan(&u.UserID, &u.ItemID, &u.ItemType, &u.UnlockedAt, &u.RewardClaimed, &u.IsEquipped); err != nil {
			return nil, fmt.Errorf("failed to scan user unlock: %w", err)
		}
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

// InsertUnlock records an unlock exactly once. The unique constraint makes a
// concurrent duplicate a no-op, not an error. Auto-claim items arrive with
// reward_claimed already set and the reward credited in the same transaction.
func (r *UnlockRepository) InsertUnlock(ctx context.Context, userID string, item domain.CatalogItem, unlockedAt time.Time) (bool, error) {
	autoClaim := item.AutoClaim && !item.Reward.IsZero()

	insert := `
		INSERT INTO user_unlocks (user_id, item_id, item_type, unlocked_at, reward_claimed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, item_id) DO NOTHING`

	if !autoClaim {
		tag, err := r.db.Exec(ctx, insert, userID, item.ID, item.Type, unlockedAt, item.AutoClaim)
		if err != nil {
			return false, fmt.Errorf("failed to insert unlock: %w", err)
		}
		return tag.RowsAffected() > 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx, insert, userID, item.ID, item.Type, unlockedAt, true)
	if err != nil {
		return false, fmt.Errorf("failed to insert unlock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := applyDelta(ctx, tx, userID, item.Reward); err != nil {
		return false, fmt.Errorf("failed to credit auto-claim reward: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit unlock: %w", err)
	}
	return true, nil
}

// ClaimReward flips reward_claimed exactly once and credits the reward. The
// conditional update is the idempotency point: the second claimer matches no
// rows and gets domain.ErrAlreadyClaimed.
func (r *UnlockRepository) ClaimReward(ctx context.Context, userID string, item domain.CatalogItem) (*domain.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE user_unlocks
		SET reward_claimed = TRUE
		WHERE user_id = $1 AND item_id = $2 AND reward_claimed = FALSE`,
		userID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark reward claimed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM user_unlocks WHERE user_id = $1 AND item_id = $2)`,
			userID, item.ID).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("failed to check unlock existence: %w", checkErr)
		}
		if !exists {
			return nil, domain.ErrNotUnlocked
		}
		return nil, domain.ErrAlreadyClaimed
	}

	profile, err := applyDelta(ctx, tx, userID, item.Reward)
	if err != nil {
		return nil, fmt.Errorf("failed to credit unlock reward: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reward claim: %w", err)
	}
	return profile, nil
}

// EquipTitle swaps the equipped title in one transaction so at most one row
// per user ever carries is_equipped.
func (r *UnlockRepository) EquipTitle(ctx context.Context, userID string, titleID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	var owned bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_unlocks
			WHERE user_id = $1 AND item_id = $2 AND item_type = $3)`,
		userID, titleID, domain.UnlockableTitle).Scan(&owned)
	if err != nil {
		return fmt.Errorf("failed to check title ownership: %w", err)
	}
	if !owned {
		return domain.ErrNotUnlocked
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_unlocks SET is_equipped = FALSE
		WHERE user_id = $1 AND item_type = $2 AND is_equipped = TRUE`,
		userID, domain.UnlockableTitle)
	if err != nil {
		return fmt.Errorf("failed to unequip current title: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_unlocks SET is_equipped = TRUE
		WHERE user_id = $1 AND item_id = $2`,
		userID, titleID)
	if err != nil {
		return fmt.Errorf("failed to equip title: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit title equip: %w", err)
	}
	return nil
}
