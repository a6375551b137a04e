package handler

import (
	"errors"
	"net/http"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/logger"
)

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
)

// User-facing error messages for service errors
// These messages are derived from domain errors and provide helpful guidance to users
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	// Profile messages
	ErrMsgProfileNotFoundError = "Profile not found. Register first."
	ErrMsgProfileBannedError   = "This account is suspended"

	// Currency messages
	ErrMsgNotEnoughCrystalsError = "Not enough currency"

	// Claim messages
	ErrMsgAlreadyClaimedError      = "That reward was already claimed"
	ErrMsgAlreadyClaimedTodayError = "Already claimed today. Come back tomorrow!"
	ErrMsgNothingToClaimError      = "Nothing to claim yet"
	ErrMsgNotUnlockedError         = "That item is not unlocked yet"

	// Catalog messages
	ErrMsgItemNotFoundError = "Item not found"

	// Lootbox messages
	ErrMsgLootboxNotFoundError = "Lootbox not found"
	ErrMsgNoLootboxToOpenError = "You don't own that lootbox"

	// Quest messages
	ErrMsgQuestNotFoundError = "Quest not found"

	// Concurrency messages
	ErrMsgConflictError = "Your progress changed, please retry"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// This function converts internal service errors to appropriate HTTP status codes
// and messages that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, ErrMsgProfileNotFoundError
	case errors.Is(err, domain.ErrProfileBanned):
		return http.StatusForbidden, ErrMsgProfileBannedError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughCrystalsError
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return http.StatusConflict, ErrMsgAlreadyClaimedError
	case errors.Is(err, domain.ErrAlreadyClaimedToday):
		return http.StatusConflict, ErrMsgAlreadyClaimedTodayError
	case errors.Is(err, domain.ErrNothingToClaim):
		return http.StatusConflict, ErrMsgNothingToClaimError
	case errors.Is(err, domain.ErrNotUnlocked):
		return http.StatusConflict, ErrMsgNotUnlockedError
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrLootboxNotFound):
		return http.StatusNotFound, ErrMsgLootboxNotFoundError
	case errors.Is(err, domain.ErrNoLootboxToOpen):
		return http.StatusConflict, ErrMsgNoLootboxToOpenError
	case errors.Is(err, domain.ErrQuestNotFound):
		return http.StatusNotFound, ErrMsgQuestNotFoundError
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict, ErrMsgConflictError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	}

	// Wrapped errors with a domain error further down the chain
	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return mapServiceErrorToUserMessage(unwrapped)
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs a failed service call and writes the mapped
// user-facing error response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())
	log.Error(opName+" failed", "error", err)

	status, userMsg := mapServiceErrorToUserMessage(err)
	respondError(w, status, userMsg)
}
