package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func newTestJWTService(now func() time.Time) *JWTService {
	s := NewJWTService(&config.JWTConfig{Secret: testSecret, ExpirationHours: 24})
	if now != nil {
		s.now = now
	}
	return s
}

func TestJWTService_RoundTrip(t *testing.T) {
	s := newTestJWTService(nil)
	userID := uuid.New()

	token, err := s.GenerateToken(userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	got, err := s.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.GetUserID())
}

func TestJWTService_Expiry(t *testing.T) {
	issued := time.Now().Add(-48 * time.Hour)
	s := newTestJWTService(func() time.Time { return issued })

	token, err := s.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = newTestJWTService(nil).ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Contains(t, err.Error(), "token expired")
}

func TestJWTService_Rejects(t *testing.T) {
	s := newTestJWTService(nil)
	userID := uuid.New()

	other := NewJWTService(&config.JWTConfig{Secret: "another-secret-that-is-long-enough-to-sign", ExpirationHours: 1})
	foreign, err := other.GenerateToken(userID)
	require.NoError(t, err)

	now := time.Now()
	wrongIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	wrongIssuerToken, err := wrongIssuer.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	noUserToken, err := noUser.SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	hs512Token, err := hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"foreign signature", foreign},
		{"wrong issuer", wrongIssuerToken},
		{"no user id", noUserToken},
		{"unexpected algorithm", hs512Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := s.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
