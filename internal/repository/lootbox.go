package repository

import (
	"context"
	"time"

	"github.com/pettycoon/backend/internal/domain"
)

// Lootbox defines the interface for lootbox content, inventory and the
// opening audit trail.
type Lootbox interface {
	GetLootboxes(ctx context.Context) ([]domain.Lootbox, error)
	GetLootbox(ctx context.Context, lootboxID int) (*domain.Lootbox, error)
	GetUserLootboxes(ctx context.Context, userID string) ([]domain.UserLootbox, error)

	// Purchase deducts the price and adds quantity to the user's inventory
	// in one transaction. Short balance: domain.ErrInsufficientFunds.
	Purchase(ctx context.Context, userID string, lootboxID, quantity int, totalPrice int64) (*domain.Profile, error)

	// Open consumes one box, appends the audit row and credits any currency
	// reward in one transaction. Empty inventory: domain.ErrNoLootboxToOpen.
	Open(ctx context.Context, userID string, lootboxID int, reward domain.Reward, openedAt time.Time) (*domain.LootboxOpening, error)

	ListOpenings(ctx context.Context, userID string, limit int) ([]domain.LootboxOpening, error)
}
