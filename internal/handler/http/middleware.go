package handler

import (
	"context"
	"net/http"

	"github.com/campusbites/checkout/internal/models"
)

type contextKey string

const (
	authPayloadKey contextKey = "auth_payload"
)

// TokenVerifier validates the auth cookie. Authentication itself is an
// external capability; the token only supplies the caller identity.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}

// AuthMiddleware gets the token from the cookie and passes its payload to
// the context
func AuthMiddleware(tv TokenVerifier) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				http.Error(w, "can not get cookie", http.StatusUnauthorized)
				return
			}

			payload, err := tv.VerifyToken(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getAuthPayload extracts authorization token payload from context
func getAuthPayload(ctx context.Context, key contextKey) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(key).(*models.TokenPayload)
	return payload, ok
}
