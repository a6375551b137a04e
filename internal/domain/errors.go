package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Profile errors
	ErrMsgProfileNotFound = "profile not found"
	ErrMsgProfileBanned   = "profile is banned"

	// Currency errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Claim errors
	ErrMsgAlreadyClaimed      = "reward already claimed"
	ErrMsgAlreadyClaimedToday = "already claimed today"
	ErrMsgNothingToClaim      = "nothing to claim"
	ErrMsgNotUnlocked         = "item is not unlocked"

	// Catalog errors
	ErrMsgItemNotFound       = "catalog item not found"
	ErrMsgUnknownRequirement = "unknown requirement type"

	// Lootbox errors
	ErrMsgLootboxNotFound  = "lootbox not found"
	ErrMsgNoLootboxToOpen  = "no lootbox to open"
	ErrMsgInvalidDropTable = "invalid drop table"

	// Quest errors
	ErrMsgQuestNotFound = "quest not found"

	// Concurrency errors
	ErrMsgConcurrencyConflict = "concurrent update conflict"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Profile errors
	ErrProfileNotFound = errors.New(ErrMsgProfileNotFound)
	ErrProfileBanned   = errors.New(ErrMsgProfileBanned)

	// Currency errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Claim errors
	ErrAlreadyClaimed      = errors.New(ErrMsgAlreadyClaimed)
	ErrAlreadyClaimedToday = errors.New(ErrMsgAlreadyClaimedToday)
	ErrNothingToClaim      = errors.New(ErrMsgNothingToClaim)
	ErrNotUnlocked         = errors.New(ErrMsgNotUnlocked)

	// Catalog errors
	ErrItemNotFound       = errors.New(ErrMsgItemNotFound)
	ErrUnknownRequirement = errors.New(ErrMsgUnknownRequirement)

	// Lootbox errors
	ErrLootboxNotFound  = errors.New(ErrMsgLootboxNotFound)
	ErrNoLootboxToOpen  = errors.New(ErrMsgNoLootboxToOpen)
	ErrInvalidDropTable = errors.New(ErrMsgInvalidDropTable)

	// Quest errors
	ErrQuestNotFound = errors.New(ErrMsgQuestNotFound)

	// Concurrency errors
	ErrConcurrencyConflict = errors.New(ErrMsgConcurrencyConflict)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
