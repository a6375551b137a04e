package repository

import (
	"context"
	"time"

	"github.com/pettycoon/backend/internal/domain"
)

// Profile defines the interface for profile persistence.
//
// Every method is atomic: methods that touch more than one row run inside a
// single transaction in the implementation. Conditional writes report lost
// races through domain sentinel errors rather than silent no-ops.
type Profile interface {
	CreateProfile(ctx context.Context, userID, username string) (*domain.Profile, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	GetSnapshot(ctx context.Context, userID string) (*domain.PlayerSnapshot, error)

	// ApplyDelta adjusts balances atomically. Deductions that would drive a
	// balance below zero fail with domain.ErrInsufficientFunds and leave the
	// row untouched.
	ApplyDelta(ctx context.Context, userID string, delta domain.CurrencyDelta) (*domain.Profile, error)

	// SetLevel stores a recomputed level. Levels only ever grow, so the
	// update is guarded with level < $new.
	SetLevel(ctx context.Context, userID string, level int) error

	// RecordTap credits one tap's earnings and persists the new combo state
	// in a single update.
	RecordTap(ctx context.Context, userID string, crystals, xp int64, state domain.ComboState) (*domain.Profile, error)

	// RecordCatch credits a catch and updates both the combo state and the
	// caught-pets aggregate.
	RecordCatch(ctx context.Context, userID string, crystals, xp int64, state domain.ComboState, legendary bool) (*domain.Profile, error)

	ChangePet(ctx context.Context, userID, petType string) (*domain.Profile, error)

	// ClaimDailyChest credits the chest reward and advances the streak,
	// guarded by last_chest_claim < dayStart. A lost race returns
	// domain.ErrAlreadyClaimedToday.
	ClaimDailyChest(ctx context.Context, userID string, claimedAt, dayStart time.Time, reward domain.CurrencyDelta, streakDays int) (*domain.Profile, error)

	// ClaimPassive credits accrued income, guarded by last_passive_claim
	// still matching prevClaim. A lost race returns
	// domain.ErrConcurrencyConflict so the caller can recompute.
	ClaimPassive(ctx context.Context, userID string, prevClaim *time.Time, claimedAt time.Time, earned, xpPenalty int64) (*domain.Profile, error)
}
