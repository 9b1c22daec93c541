// Package middleware authenticates API requests with bearer tokens.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const ownerIDKey contextKey = "ownerID"

// ErrNoOwner is returned by GetUserID when the request was not authenticated.
var ErrNoOwner = errors.New("owner id not found in request context")

// TokenValidator validates bearer tokens. The server's JWT service satisfies it
// through an adapter, which keeps this package free of the jwt import.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

// UserIDGetter exposes the owner id carried by validated claims.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token's owner id in the request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}
			owner := claims.GetUserID()
			if owner == uuid.Nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), owner)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="resume-builder"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
}

// WithUserID returns ctx carrying the authenticated owner id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerIDKey, id)
}

// GetUserID returns the authenticated owner id for r.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(ownerIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoOwner
	}
	return id, nil
}
