// Package server provides the HTTP REST API for resume editing and export.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/store"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps an error, possibly wrapped, to a response status.
func HTTPStatus(err error) int {
	var (
		emailTaken   *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		noUser       *ErrUserNotFound
		invalid      *ErrValidation
		noResume     *store.NotFoundError
		noSection    *document.UnknownSectionError
		noEntry      *document.EntryNotFoundError
		schemaErr    *schemas.ValidationError
		decodeErr    *document.DecodeError
		duplicateID  *document.DuplicateIDError
		unknownField *document.UnknownFieldError
		immutableID  *document.ImmutableIDError
		skillErr     *document.SkillError
		badFormat    *export.UnsupportedFormatError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailTaken):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch), errors.Is(err, middleware.ErrNoOwner):
		return http.StatusUnauthorized
	case errors.As(err, &noUser), errors.As(err, &noResume),
		errors.As(err, &noSection), errors.As(err, &noEntry):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &schemaErr), errors.As(err, &decodeErr),
		errors.As(err, &duplicateID), errors.As(err, &unknownField), errors.As(err, &immutableID),
		errors.As(err, &skillErr), errors.As(err, &badFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
