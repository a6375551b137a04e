package handler

import (
	"net/http"
	"strconv"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/lootbox"
	"github.com/pettycoon/backend/internal/progression"
)

// PurchaseLootboxRequest buys one or more lootboxes with crystals
type PurchaseLootboxRequest struct {
	UserID    string `json:"user_id" validate:"required,max=64"`
	LootboxID int    `json:"lootbox_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=50"`
}

// OpenLootboxRequest opens one owned lootbox
type OpenLootboxRequest struct {
	UserID    string `json:"user_id" validate:"required,max=64"`
	LootboxID int    `json:"lootbox_id" validate:"required,gt=0"`
}

// OpenLootboxResponse carries the rolled reward plus anything it unlocked
type OpenLootboxResponse struct {
	Opening    *domain.LootboxOpening `json:"opening"`
	NewUnlocks []domain.UnlockedItem  `json:"new_unlocks,omitempty"`
}

// LootboxHandler handles lootbox HTTP requests
type LootboxHandler struct {
	lootboxSvc     lootbox.Service
	progressionSvc progression.Service
}

// NewLootboxHandler creates a new lootbox handler
func NewLootboxHandler(lootboxSvc lootbox.Service, progressionSvc progression.Service) *LootboxHandler {
	return &LootboxHandler{
		lootboxSvc:     lootboxSvc,
		progressionSvc: progressionSvc,
	}
}

// Catalog returns every purchasable lootbox
func (h *LootboxHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.lootboxSvc.ListCatalog(r.Context())
	if err != nil {
		respondServiceError(w, r, "Lootbox catalog", err)
		return
	}

	locale := NegotiateLocale(w, r)
	respondJSON(w, http.StatusOK, DataResponse{Locale: locale, Data: boxes})
}

// Owned returns the user's unopened lootboxes
func (h *LootboxHandler) Owned(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	owned, err := h.lootboxSvc.ListOwned(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "Owned lootboxes", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: owned})
}

// Purchase buys lootboxes with crystals
func (h *LootboxHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req PurchaseLootboxRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Purchase lootbox"); err != nil {
		return
	}

	profile, err := h.progressionSvc.PurchaseLootbox(r.Context(), req.UserID, req.LootboxID, req.Quantity)
	if err != nil {
		respondServiceError(w, r, "Purchase lootbox", err)
		return
	}

	log.Info("Lootbox purchased",
		"user_id", req.UserID,
		"lootbox_id", req.LootboxID,
		"quantity", req.Quantity)

	respondJSON(w, http.StatusOK, DataResponse{Message: "Purchase complete", Data: profile})
}

// Open consumes one owned lootbox and rolls its reward
func (h *LootboxHandler) Open(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req OpenLootboxRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Open lootbox"); err != nil {
		return
	}

	opening, unlocks, err := h.progressionSvc.OpenLootbox(r.Context(), req.UserID, req.LootboxID)
	if err != nil {
		respondServiceError(w, r, "Open lootbox", err)
		return
	}

	log.Info("Lootbox opened",
		"user_id", req.UserID,
		"lootbox_id", req.LootboxID,
		"rarity", opening.Reward.Rarity)

	respondJSON(w, http.StatusOK, OpenLootboxResponse{
		Opening:    opening,
		NewUnlocks: unlocks,
	})
}

// History returns the user's most recent openings
func (h *LootboxHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	limitStr := GetOptionalQueryParam(r, "limit", "0")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
		return
	}

	openings, err := h.lootboxSvc.History(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, "Lootbox history", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: openings})
}
