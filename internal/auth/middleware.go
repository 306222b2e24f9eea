package auth

import (
	"context"
	"net/http"

	"github.com/arusops/arus/internal/models"
	pkghttp "github.com/arusops/arus/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

// SessionContextKey is the key for storing session claims in context
const SessionContextKey contextKey = "session"

// RequireSession validates the session cookie and injects the claims into
// the request context. Requests with a missing, expired or tampered token
// are rejected identically with 401.
func RequireSession(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := GetSessionCookie(r)
			if err != nil || token == "" {
				pkghttp.WriteUnauthorized(w, "Unauthorized")
				return
			}

			claims, err := tm.Verify(token)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts session claims from the request context
func SessionFromContext(r *http.Request) *models.SessionClaims {
	claims, ok := r.Context().Value(SessionContextKey).(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// SessionFromRequest reads and verifies the session cookie directly, for
// handlers that are not behind RequireSession. Returns nil when there is
// no usable session.
func SessionFromRequest(r *http.Request, tm *TokenManager) *models.SessionClaims {
	token, err := GetSessionCookie(r)
	if err != nil || token == "" {
		return nil
	}

	claims, err := tm.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}
