package handler

import (
	"net/http"

	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/progression"
)

// ClaimQuestRequest asks for a completed quest's reward
type ClaimQuestRequest struct {
	UserID  string `json:"user_id" validate:"required,max=64"`
	QuestID int    `json:"quest_id" validate:"required,gt=0"`
}

// QuestHandler handles quest HTTP requests
type QuestHandler struct {
	progressionSvc progression.Service
}

// NewQuestHandler creates a new quest handler
func NewQuestHandler(progressionSvc progression.Service) *QuestHandler {
	return &QuestHandler{
		progressionSvc: progressionSvc,
	}
}

// List returns active quests with the user's current-epoch progress
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	quests, err := h.progressionSvc.ListQuests(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "List quests", err)
		return
	}

	locale := NegotiateLocale(w, r)
	respondJSON(w, http.StatusOK, DataResponse{Locale: locale, Data: quests})
}

// Claim grants a completed quest's reward once per epoch
func (h *QuestHandler) Claim(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ClaimQuestRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim quest"); err != nil {
		return
	}

	result, err := h.progressionSvc.ClaimQuestReward(r.Context(), req.UserID, req.QuestID)
	if err != nil {
		respondServiceError(w, r, "Claim quest", err)
		return
	}

	log.Info("Quest reward claimed", "user_id", req.UserID, "quest_id", req.QuestID)

	respondJSON(w, http.StatusOK, result)
}
