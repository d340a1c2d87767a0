// Package middleware holds HTTP middleware for the local bridge.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// ProtectedPrefix is the path prefix that requires the bridge token.
const ProtectedPrefix = "/api/"

// Auth requires the bridge token on every path under ProtectedPrefix. The
// token comes from a Bearer header or, for plain download links, the token
// query parameter. Other paths pass through: /health is public and /ws
// authenticates in its first RPC.
func Auth(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, ProtectedPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			got, reason := requestToken(r)
			if reason != "" {
				http.Error(w, reason, http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				slog.Warn("rejected bridge request", "path", r.URL.Path, "remote", r.RemoteAddr)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestToken extracts the presented token, or a rejection reason. An
// Authorization header takes precedence over the query parameter.
func requestToken(r *http.Request) (token, reason string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			return "", "Unauthorized"
		}
		return token, ""
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", "Invalid authorization header"
	}
	return token, ""
}
