package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/handler"
	"github.com/pettycoon/backend/internal/progression"
)

func TestProfileHandler_Register(t *testing.T) {
	handler.InitValidator()

	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(ctx context.Context, userID, username string) (*domain.Profile, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: handler.RegisterRequest{UserID: "tg-1001", Username: "ann"},
			registerFn: func(ctx context.Context, userID, username string) (*domain.Profile, error) {
				return &domain.Profile{ID: userID, Username: username, Level: 1, PetType: "cat"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing username",
			body:           handler.RegisterRequest{UserID: "tg-1001"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing user id",
			body:           handler.RegisterRequest{Username: "ann"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileSvc := &stubProfileService{registerFn: tt.registerFn}
			h := handler.NewProfileHandler(profileSvc, &stubProgressionService{})

			rec := postJSON(t, h.Register, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var prof domain.Profile
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prof))
				assert.Equal(t, "tg-1001", prof.ID)
				assert.Equal(t, "cat", prof.PetType)
			}
		})
	}
}

func TestProfileHandler_Get(t *testing.T) {
	handler.InitValidator()

	profileSvc := &stubProfileService{
		getProfileFn: func(ctx context.Context, userID string) (*domain.Profile, error) {
			if userID != "tg-1001" {
				return nil, domain.ErrProfileNotFound
			}
			return &domain.Profile{ID: userID, Username: "ann", Crystals: 400}, nil
		},
	}
	h := handler.NewProfileHandler(profileSvc, &stubProgressionService{})

	req := httptest.NewRequest(http.MethodGet, "/profile?user_id=tg-1001", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var prof domain.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prof))
	assert.Equal(t, int64(400), prof.Crystals)

	req = httptest.NewRequest(http.MethodGet, "/profile?user_id=ghost", nil)
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileHandler_ChangePet(t *testing.T) {
	handler.InitValidator()

	tests := []struct {
		name           string
		body           interface{}
		changePetFn    func(ctx context.Context, userID, petType string) (*progression.PetChangeResult, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: handler.ChangePetRequest{UserID: "tg-1001", PetType: "axolotl"},
			changePetFn: func(ctx context.Context, userID, petType string) (*progression.PetChangeResult, error) {
				return &progression.PetChangeResult{
					Profile: &domain.Profile{ID: userID, PetType: petType, PetChanges: 2},
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown pet type",
			body:           handler.ChangePetRequest{UserID: "tg-1001", PetType: "dragon"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewProfileHandler(&stubProfileService{}, &stubProgressionService{changePetFn: tt.changePetFn})

			rec := postJSON(t, h.ChangePet, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var result progression.PetChangeResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.Equal(t, "axolotl", result.Profile.PetType)
			}
		})
	}
}

func TestAdminHandler_InvalidateCache(t *testing.T) {
	handler.InitValidator()

	profileSvc := &stubProfileService{}
	h := handler.NewAdminHandler(profileSvc)

	rec := postJSON(t, h.InvalidateCache, handler.InvalidateCacheRequest{UserID: "tg-1001"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tg-1001"}, profileSvc.invalidated)
}
