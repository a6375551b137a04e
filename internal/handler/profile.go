package handler

import (
	"net/http"

	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/profile"
	"github.com/pettycoon/backend/internal/progression"
)

// RegisterRequest creates or refreshes a profile
type RegisterRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Username string `json:"username" validate:"required,max=100"`
}

// ChangePetRequest switches the active pet
type ChangePetRequest struct {
	UserID  string `json:"user_id" validate:"required,max=64"`
	PetType string `json:"pet_type" validate:"required,pet_type"`
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	profileSvc     profile.Service
	progressionSvc progression.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileSvc profile.Service, progressionSvc progression.Service) *ProfileHandler {
	return &ProfileHandler{
		profileSvc:     profileSvc,
		progressionSvc: progressionSvc,
	}
}

// Register creates the profile on first launch. Calling it again with the
// same user id refreshes the username and returns the existing profile.
func (h *ProfileHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegisterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register"); err != nil {
		return
	}

	prof, err := h.profileSvc.Register(r.Context(), req.UserID, req.Username)
	if err != nil {
		respondServiceError(w, r, "Register", err)
		return
	}

	log.Info("Profile registered", "user_id", req.UserID, "username", req.Username)

	respondJSON(w, http.StatusOK, prof)
}

// Get returns the profile by user id
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	prof, err := h.profileSvc.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "Get profile", err)
		return
	}

	respondJSON(w, http.StatusOK, prof)
}

// ChangePet switches the active pet and re-evaluates pet milestones
func (h *ProfileHandler) ChangePet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req ChangePetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Change pet"); err != nil {
		return
	}

	result, err := h.progressionSvc.ChangePet(r.Context(), req.UserID, req.PetType)
	if err != nil {
		respondServiceError(w, r, "Change pet", err)
		return
	}

	log.Info("Pet changed", "user_id", req.UserID, "pet_type", req.PetType)

	respondJSON(w, http.StatusOK, result)
}
