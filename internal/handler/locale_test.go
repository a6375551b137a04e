package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiateLocale(t *testing.T) {
	tests := []struct {
		name           string
		acceptLanguage string
		expected       string
	}{
		{"russian", "ru-RU,ru;q=0.9", "ru"},
		{"english", "en-US,en;q=0.9", "en"},
		{"unsupported falls back to english", "de-DE,de;q=0.9", "en"},
		{"missing header falls back to english", "", "en"},
		{"russian preferred over english", "ru,en;q=0.8", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/quests?user_id=u1", nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			rec := httptest.NewRecorder()

			locale := NegotiateLocale(rec, req)

			assert.Equal(t, tt.expected, locale)
			assert.Equal(t, tt.expected, rec.Header().Get("Content-Language"))
		})
	}
}
