// Spot-a-Lyst - Spotify Listening Analytics and AI Recommendations
// Copyright 2026 nixvy-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nixvy-13/Spot-a-Lyst

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/nixvy-13/Spot-a-Lyst/internal/logging"
	"github.com/nixvy-13/Spot-a-Lyst/internal/models"
)

// SessionCookieName is the cookie checked when no Authorization header
// is present.
const SessionCookieName = "session"

// Identity is the authenticated caller extracted from a session token.
type Identity struct {
	UserID       string
	SpotifyToken string
}

type contextKey string

const identityKey contextKey = "auth_identity"

// ContextWithIdentity stores the authenticated identity in the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the authenticated identity, if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Middleware validates the session token on every request and injects
// the caller's Identity into the request context. Requests without a
// valid session get a 401 with a machine-readable error code.
func Middleware(manager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				unauthorized(w, "Missing session token")
				return
			}

			claims, err := manager.ValidateToken(tokenString)
			if err != nil {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("Session token rejected")
				unauthorized(w, "Invalid or expired session token")
				return
			}

			id := Identity{
				UserID:       claims.Subject,
				SpotifyToken: claims.SpotifyToken,
			}
			ctx := ContextWithIdentity(r.Context(), id)
			ctx = logging.ContextWithUserID(ctx, id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the session token from the Authorization header or
// the session cookie, in that order.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: message,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
