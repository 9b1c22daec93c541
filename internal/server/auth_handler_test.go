package server

import (
	"net/http"
	"testing"

	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t, nil)

	token, user := env.register(t, "Ada@Example.com")
	assert.NotEmpty(t, token)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.PasswordSet)

	assert.Equal(t, []events.Type{events.UserRegistered}, env.published.types())
	assert.Equal(t, user.ID, env.published.last().OwnerID)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"duplicate email", types.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}, http.StatusConflict, "email already registered"},
		{"malformed json", `{"name":`, http.StatusBadRequest, "validation error: body"},
		{"unknown field", `{"name":"Ada","email":"x@example.com","password":"correct-horse","admin":true}`, http.StatusBadRequest, "validation error: body"},
		{"short password", types.CreateUserRequest{Name: "Ada", Email: "new@example.com", Password: "short"}, http.StatusBadRequest, "validation error: Password - min"},
		{"bad email", types.CreateUserRequest{Name: "Ada", Email: "nope", Password: "correct-horse"}, http.StatusBadRequest, "validation error: Email - email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeBody[types.ErrorResponse](t, w)
			assert.Contains(t, resp.Error, tt.wantError)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	_, user := env.register(t, "ada@example.com")

	w := env.do(t, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "ADA@example.com", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[types.LoginResponse](t, w)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	for name, body := range map[string]types.LoginRequest{
		"wrong password": {Email: "ada@example.com", Password: "wrong-horse"},
		"unknown email":  {Email: "bob@example.com", Password: "correct-horse"},
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/auth/login", "", body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "invalid email or password", decodeBody[types.ErrorResponse](t, w).Error)
		})
	}
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t, nil)
	token, _ := env.register(t, "ada@example.com")

	w := env.do(t, http.MethodPut, "/auth/password", "", types.UpdatePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "battery-staple"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPut, "/auth/password", token, types.UpdatePasswordRequest{CurrentPassword: "wrong-horse", NewPassword: "battery-staple"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "current password is incorrect", decodeBody[types.ErrorResponse](t, w).Error)

	w = env.do(t, http.MethodPut, "/auth/password", token, types.UpdatePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "battery-staple"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(t, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "ada@example.com", Password: "battery-staple"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t, nil)
	token, user := env.register(t, "ada@example.com")

	w := env.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody[types.User](t, w)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "Ada Lovelace", me.Name)
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = env.do(t, http.MethodGet, "/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_DeletedUser(t *testing.T) {
	env := newTestEnv(t, nil)
	token, user := env.register(t, "ada@example.com")

	env.users.mu.Lock()
	delete(env.users.byID, user.ID)
	env.users.mu.Unlock()

	w := env.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
