package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClaims uuid.UUID

func (c stubClaims) GetUserID() uuid.UUID { return uuid.UUID(c) }

type stubValidator map[string]uuid.UUID

func (v stubValidator) ValidateToken(token string) (UserIDGetter, error) {
	id, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return stubClaims(id), nil
}

func TestAuthMiddleware(t *testing.T) {
	owner := uuid.New()
	tokens := stubValidator{"good": owner, "nil-owner": uuid.Nil}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"extra parts", "Bearer good extra", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"token without owner", "Bearer nil-owner", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID
			handler := AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, err := GetUserID(r)
				require.NoError(t, err)
				got = id
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, owner, got)
			} else {
				assert.Equal(t, uuid.Nil, got)
				assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetUserID(req)
	assert.ErrorIs(t, err, ErrNoOwner)

	id := uuid.New()
	req = req.WithContext(WithUserID(req.Context(), id))
	got, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Bearer  abc ")
	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}
