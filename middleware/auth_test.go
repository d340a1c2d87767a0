package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAuth(t *testing.T) {
	const token = "test-token"

	handler := Auth(token)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"health is public", "/health", "", http.StatusOK, "ok"},
		{"websocket authenticates itself", "/ws", "", http.StatusOK, "ok"},
		{"no credentials", "/api/export", "", http.StatusUnauthorized, "Unauthorized"},
		{"basic scheme", "/api/export", "Basic " + token, http.StatusUnauthorized, "Invalid authorization header"},
		{"empty bearer", "/api/export", "Bearer ", http.StatusUnauthorized, "Invalid authorization header"},
		{"wrong bearer", "/api/export", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"bearer", "/api/history", "Bearer " + token, http.StatusOK, "ok"},
		{"query token", "/api/export?token=" + token, "", http.StatusOK, "ok"},
		{"wrong query token", "/api/export?token=nope", "", http.StatusUnauthorized, "Invalid token"},
		{"header beats query", "/api/export?token=" + token, "Bearer nope", http.StatusUnauthorized, "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("got status %d, want %d", rec.Code, tt.status)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.body {
				t.Errorf("got body %q, want %q", got, tt.body)
			}
		})
	}
}
