package handler

import (
	"net/http"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/progression"
)

// ClickRequest represents a single tap on the active pet
type ClickRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// CatchRequest represents a completed catch of a wandering pet
type CatchRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Rarity string `json:"rarity" validate:"required,rarity"`
}

// ClaimChestRequest represents a daily chest claim
type ClaimChestRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// ClaimPassiveRequest represents a passive income claim
type ClaimPassiveRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// GameHandler handles the core game-loop HTTP requests
type GameHandler struct {
	progressionSvc progression.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(progressionSvc progression.Service) *GameHandler {
	return &GameHandler{
		progressionSvc: progressionSvc,
	}
}

// Click handles one tap: credits currency, advances the combo and feeds
// quest progress.
func (h *GameHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Click"); err != nil {
		return
	}

	result, err := h.progressionSvc.Tap(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "Click", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Catch handles a pet catch event
func (h *GameHandler) Catch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req CatchRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Catch"); err != nil {
		return
	}

	result, err := h.progressionSvc.Catch(r.Context(), req.UserID, domain.Rarity(req.Rarity))
	if err != nil {
		respondServiceError(w, r, "Catch", err)
		return
	}

	log.Info("Catch processed",
		"user_id", req.UserID,
		"rarity", result.Rarity,
		"crystals", result.CrystalsEarned,
		"streak", result.LegendaryStreak)

	respondJSON(w, http.StatusOK, result)
}

// ClaimChest handles the once-per-UTC-day chest claim
func (h *GameHandler) ClaimChest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ClaimChestRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim chest"); err != nil {
		return
	}

	result, err := h.progressionSvc.ClaimChest(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "Claim chest", err)
		return
	}

	log.Info("Daily chest claimed",
		"user_id", req.UserID,
		"streak_days", result.StreakDays,
		"crystals", result.Reward.Crystals)

	respondJSON(w, http.StatusOK, result)
}

// ClaimPassive handles collecting accrued offline income
func (h *GameHandler) ClaimPassive(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ClaimPassiveRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim passive"); err != nil {
		return
	}

	result, err := h.progressionSvc.ClaimPassive(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "Claim passive", err)
		return
	}

	log.Info("Passive income claimed",
		"user_id", req.UserID,
		"earned", result.Earned,
		"hours_counted", result.HoursCounted,
		"penalty_applied", result.PenaltyApplied)

	respondJSON(w, http.StatusOK, result)
}
