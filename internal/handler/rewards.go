package handler

import (
	"net/http"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/progression"
)

// ClaimRewardRequest asks for an unlocked catalog item's reward
type ClaimRewardRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	ItemType string `json:"item_type" validate:"required,oneof=achievement title rank pet_milestone"`
	ItemID   int    `json:"item_id" validate:"required,gt=0"`
}

// EquipTitleRequest switches the displayed title
type EquipTitleRequest struct {
	UserID  string `json:"user_id" validate:"required,max=64"`
	TitleID int    `json:"title_id" validate:"required,gt=0"`
}

// RewardsHandler handles unlock catalog and reward claim HTTP requests
type RewardsHandler struct {
	progressionSvc progression.Service
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(progressionSvc progression.Service) *RewardsHandler {
	return &RewardsHandler{
		progressionSvc: progressionSvc,
	}
}

// ClaimReward handles claiming an unlocked item's one-time reward
func (h *RewardsHandler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ClaimRewardRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim reward"); err != nil {
		return
	}

	result, err := h.progressionSvc.ClaimUnlockReward(r.Context(), req.UserID, domain.UnlockableType(req.ItemType), req.ItemID)
	if err != nil {
		respondServiceError(w, r, "Claim reward", err)
		return
	}

	log.Info("Reward claimed",
		"user_id", req.UserID,
		"item_type", req.ItemType,
		"item_id", req.ItemID)

	respondJSON(w, http.StatusOK, result)
}

// EquipTitle handles switching the equipped title
func (h *RewardsHandler) EquipTitle(w http.ResponseWriter, r *http.Request) {
	var req EquipTitleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Equip title"); err != nil {
		return
	}

	if err := h.progressionSvc.EquipTitle(r.Context(), req.UserID, req.TitleID); err != nil {
		respondServiceError(w, r, "Equip title", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Title equipped"})
}

// ListAchievements returns the achievement catalog with per-user states
func (h *RewardsHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	h.listCatalog(w, r, domain.UnlockableAchievement)
}

// ListTitles returns the title catalog with per-user states
func (h *RewardsHandler) ListTitles(w http.ResponseWriter, r *http.Request) {
	h.listCatalog(w, r, domain.UnlockableTitle)
}

// ListRanks returns the rank ladder with per-user states
func (h *RewardsHandler) ListRanks(w http.ResponseWriter, r *http.Request) {
	h.listCatalog(w, r, domain.UnlockableRank)
}

// ListPetMilestones returns the active pet's milestones with per-user states
func (h *RewardsHandler) ListPetMilestones(w http.ResponseWriter, r *http.Request) {
	h.listCatalog(w, r, domain.UnlockablePetMilestone)
}

func (h *RewardsHandler) listCatalog(w http.ResponseWriter, r *http.Request, itemType domain.UnlockableType) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	items, err := h.progressionSvc.ListCatalog(r.Context(), userID, itemType)
	if err != nil {
		respondServiceError(w, r, "List "+string(itemType), err)
		return
	}

	locale := NegotiateLocale(w, r)
	respondJSON(w, http.StatusOK, DataResponse{Locale: locale, Data: items})
}
