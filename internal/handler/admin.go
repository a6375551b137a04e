package handler

import (
	"net/http"

	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/profile"
)

// InvalidateCacheRequest drops one user's cached profile
type InvalidateCacheRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// AdminHandler handles operational endpoints used by dashboards and scripts
type AdminHandler struct {
	profileSvc profile.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(profileSvc profile.Service) *AdminHandler {
	return &AdminHandler{
		profileSvc: profileSvc,
	}
}

// CacheStats returns profile cache hit/miss counters
func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.profileSvc.GetCacheStats()})
}

// InvalidateCache drops one user's cached profile after a manual database fix
func (h *AdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req InvalidateCacheRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Invalidate cache"); err != nil {
		return
	}

	h.profileSvc.InvalidateCache(req.UserID)
	log.Info("Profile cache invalidated", "user_id", req.UserID)

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Cache invalidated"})
}
