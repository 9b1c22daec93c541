package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves the account endpoints.
type AuthHandler struct {
	responder
	users  *UserService
	tokens *JWTService
	events events.Publisher
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *UserService, tokens *JWTService, publisher events.Publisher, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		responder: responder{log: log},
		users:     users,
		tokens:    tokens,
		events:    publisher,
	}
}

// Register creates an account and returns it with a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, validationError(err))
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.events.Publish(r.Context(), events.New(events.UserRegistered, user.ID, uuid.Nil)); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Warn("failed to publish event")
	}
	h.jsonResponse(w, http.StatusCreated, types.LoginResponse{User: user, Token: token})
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, validationError(err))
		return
	}

	user, err := h.users.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, types.LoginResponse{User: user, Token: token})
}

// UpdatePassword changes the authenticated caller's password.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req types.UpdatePasswordRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, validationError(err))
		return
	}

	if err := h.users.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// Me returns the authenticated caller's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, user)
}
