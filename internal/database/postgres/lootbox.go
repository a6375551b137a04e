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

const lootboxColumns = `lootbox_id, lootbox_key, name_en, name_ru, rarity, price, drop_table_id`

// LootboxRepository implements the lootbox repository for PostgreSQL
type LootboxRepository struct {
	db *pgxpool.Pool
}

// NewLootboxRepository creates a new LootboxRepository
func NewLootboxRepository(db *pgxpool.Pool) repository.Lootbox {
	return &LootboxRepository{db: db}
}

func scanLootbox(row pgx.Row) (*domain.Lootbox, error) {
	var lb domain.Lootbox
	err := row.Scan(&lb.ID, &lb.Key, &lb.NameEN, &lb.NameRU, &lb.Rarity, &lb.Price, &lb.DropTableID)
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

// GetLootboxes retrieves the purchasable lootbox catalog
func (r *LootboxRepository) GetLootboxes(ctx context.Context) ([]domain.Lootbox, error) {
	query := `SELECT ` + lootboxColumns + ` FROM lootboxes ORDER BY price`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lootboxes: %w", err)
	}
	defer rows.Close()

	var boxes []domain.Lootbox
	for rows.Next() {
		lb, err := scanLootbox(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lootbox: %w", err)
		}
		boxes = append(boxes, *lb)
	}
	return boxes, rows.Err()
}

// GetLootbox retrieves one lootbox by ID
func (r *LootboxRepository) GetLootbox(ctx context.Context, lootboxID int) (*domain.Lootbox, error) {
	query := `SELECT ` + lootboxColumns + ` FROM lootboxes WHERE lootbox_id = $1`

	lb, err := scanLootbox(r.db.QueryRow(ctx, query, lootboxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLootboxNotFound
		}
		return nil, fmt.Errorf("failed to get lootbox: %w", err)
	}
	return lb, nil
}

// GetUserLootboxes retrieves the user's unopened boxes
func (r *LootboxRepository) GetUserLootboxes(ctx context.Context, userID string) ([]domain.UserLootbox, error) {
	query := `SELECT user_id, lootbox_id, quantity FROM user_lootboxes WHERE user_id = $1 ORDER BY lootbox_id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user lootboxes: %w", err)
	}
	defer rows.Close()

	var owned []domain.UserLootbox
	for rows.Next() {
		var ul domain.UserLootbox
		if err := rows.Scan(&ul.UserID, &ul.LootboxID, &ul.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan user lootbox: %w", err)
		}
		owned = append(owned, ul)
	}
	return owned, rows.Err()
}

// Purchase deducts the price and adds the boxes in one transaction. The
// balance guard inside applyDelta rejects overdrafts.
func (r *LootboxRepository) Purchase(ctx context.Context, userID string, lootboxID, quantity int, totalPrice int64) (*domain.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	profile, err := applyDelta(ctx, tx, userID, domain.CurrencyDelta{Crystals: -totalPrice})
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_lootboxes (user_id, lootbox_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, lootbox_id) DO UPDATE SET
			quantity = user_lootboxes.quantity + $3`,
		userID, lootboxID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add lootboxes to inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit lootbox purchase: %w", err)
	}
	return profile, nil
}

// Open consumes one box, writes the audit row and credits any currency
// reward atomically. The quantity guard stops concurrent double-opens.
func (r *LootboxRepository) Open(ctx context.Context, userID string, lootboxID int, reward domain.Reward, openedAt time.Time) (*domain.LootboxOpening, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE user_lootboxes SET quantity = quantity - 1
		WHERE user_id = $1 AND lootbox_id = $2 AND quantity >= 1`,
		userID, lootboxID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume lootbox: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNoLootboxToOpen
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM user_lootboxes
		WHERE user_id = $1 AND lootbox_id = $2 AND quantity = 0`,
		userID, lootboxID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear empty inventory row: %w", err)
	}

	opening := &domain.LootboxOpening{
		UserID:    userID,
		LootboxID: lootboxID,
		Reward:    reward,
		OpenedAt:  openedAt,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO lootbox_openings (user_id, lootbox_id, reward_category, reward_rarity, reward_amount, accessory_id, opened_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING opening_id`,
		userID, lootboxID, reward.Category, reward.Rarity, reward.Amount, reward.AccessoryID, openedAt).Scan(&opening.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record lootbox opening: %w", err)
	}

	if delta := reward.Delta(); !delta.IsZero() {
		if _, err := applyDelta(ctx, tx, userID, delta); err != nil {
			return nil, fmt.Errorf("failed to credit lootbox reward: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit lootbox open: %w", err)
	}
	return opening, nil
}

// ListOpenings returns the most recent audit rows, newest first
func (r *LootboxRepository) ListOpenings(ctx context.Context, userID string, limit int) ([]domain.LootboxOpening, error) {
	query := `
		SELECT opening_id, user_id, lootbox_id, reward_category, reward_rarity, reward_amount,
			COALESCE(accessory_id, ''), opened_at
		FROM lootbox_openings
		WHERE user_id = $1
		ORDER BY opened_at DESC, opening_id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lootbox openings: %w", err)
	}
	defer rows.Close()

	var openings []domain.LootboxOpening
	for rows.Next() {
		var o domain.LootboxOpening
		if err := rows.Scan(&o.ID, &o.UserID, &o.LootboxID, &o.Reward.Category, &o.Reward.Rarity,
			&o.Reward.Amount, &o.Reward.AccessoryID, &o.OpenedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lootbox opening: %w", err)
		}
		openings = append(openings, o)
	}
	return openings, rows.Err()
}
