package handler_test

import (
	"bytes"
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

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGameHandler_Click(t *testing.T) {
	handler.InitValidator()

	tests := []struct {
		name           string
		body           interface{}
		tapFn          func(ctx context.Context, userID string) (*progression.TapResult, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			body: handler.ClickRequest{UserID: "user-1"},
			tapFn: func(ctx context.Context, userID string) (*progression.TapResult, error) {
				return &progression.TapResult{
					Profile:         &domain.Profile{ID: userID, Crystals: 101},
					CrystalsEarned:  1,
					XPEarned:        1,
					TapCombo:        3,
					ComboMultiplier: 1.0,
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing user id",
			body:           handler.ClickRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "banned profile",
			body: handler.ClickRequest{UserID: "user-2"},
			tapFn: func(ctx context.Context, userID string) (*progression.TapResult, error) {
				return nil, domain.ErrProfileBanned
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "unknown profile",
			body: handler.ClickRequest{UserID: "user-3"},
			tapFn: func(ctx context.Context, userID string) (*progression.TapResult, error) {
				return nil, domain.ErrProfileNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubProgressionService{tapFn: tt.tapFn}
			h := handler.NewGameHandler(svc)

			rec := postJSON(t, h.Click, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var result progression.TapResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.Equal(t, int64(1), result.CrystalsEarned)
				assert.Equal(t, 3, result.TapCombo)
			}
		})
	}
}

func TestGameHandler_Catch(t *testing.T) {
	handler.InitValidator()

	svc := &stubProgressionService{
		catchFn: func(ctx context.Context, userID string, rarity domain.Rarity) (*progression.CatchResult, error) {
			assert.Equal(t, domain.RarityLegendary, rarity)
			return &progression.CatchResult{
				Profile:          &domain.Profile{ID: userID},
				Rarity:           rarity,
				CrystalsEarned:   200,
				XPEarned:         100,
				LegendaryStreak:  2,
				StreakMultiplier: 2,
			}, nil
		},
	}
	h := handler.NewGameHandler(svc)

	rec := postJSON(t, h.Catch, handler.CatchRequest{UserID: "user-1", Rarity: "legendary"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result progression.CatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(200), result.CrystalsEarned)
	assert.Equal(t, 2, result.LegendaryStreak)
}

func TestGameHandler_Catch_UnknownRarity(t *testing.T) {
	handler.InitValidator()

	h := handler.NewGameHandler(&stubProgressionService{})

	rec := postJSON(t, h.Catch, handler.CatchRequest{UserID: "user-1", Rarity: "mythic"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rarity")
}

func TestGameHandler_ClaimChest(t *testing.T) {
	handler.InitValidator()

	tests := []struct {
		name           string
		claimFn        func(ctx context.Context, userID string) (*progression.ChestResult, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			claimFn: func(ctx context.Context, userID string) (*progression.ChestResult, error) {
				return &progression.ChestResult{
					Profile:    &domain.Profile{ID: userID, StreakDays: 4},
					Reward:     domain.CurrencyDelta{Crystals: 650, Stones: 10},
					StreakDays: 4,
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "second claim same day",
			claimFn: func(ctx context.Context, userID string) (*progression.ChestResult, error) {
				return nil, domain.ErrAlreadyClaimedToday
			},
			expectedStatus: http.StatusConflict,
			expectedError:  handler.ErrMsgAlreadyClaimedTodayError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubProgressionService{claimChestFn: tt.claimFn}
			h := handler.NewGameHandler(svc)

			rec := postJSON(t, h.ClaimChest, handler.ClaimChestRequest{UserID: "user-1"})

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestGameHandler_ClaimPassive(t *testing.T) {
	handler.InitValidator()

	tests := []struct {
		name           string
		claimFn        func(ctx context.Context, userID string) (*progression.PassiveResult, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success with penalty",
			claimFn: func(ctx context.Context, userID string) (*progression.PassiveResult, error) {
				return &progression.PassiveResult{
					Profile:        &domain.Profile{ID: userID},
					Earned:         240,
					HoursCounted:   24,
					ElapsedHours:   30,
					XPPenalty:      30,
					PenaltyApplied: true,
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "nothing accrued",
			claimFn: func(ctx context.Context, userID string) (*progression.PassiveResult, error) {
				return nil, domain.ErrNothingToClaim
			},
			expectedStatus: http.StatusConflict,
			expectedError:  handler.ErrMsgNothingToClaimError,
		},
		{
			name: "lost the write race twice",
			claimFn: func(ctx context.Context, userID string) (*progression.PassiveResult, error) {
				return nil, domain.ErrConcurrencyConflict
			},
			expectedStatus: http.StatusConflict,
			expectedError:  handler.ErrMsgConflictError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubProgressionService{claimPassiveFn: tt.claimFn}
			h := handler.NewGameHandler(svc)

			rec := postJSON(t, h.ClaimPassive, handler.ClaimPassiveRequest{UserID: "user-1"})

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedError)
			}
			if tt.expectedStatus == http.StatusOK {
				var result progression.PassiveResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.Equal(t, int64(240), result.Earned)
				assert.True(t, result.PenaltyApplied)
			}
		})
	}
}
