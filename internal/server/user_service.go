package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

// UserStore is the account storage the service needs. *db.DB and *MemoryUsers
// implement it. Lookups return nil, nil for absent users.
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// UserService implements registration, login and password changes.
type UserService struct {
	db             UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a UserService.
func NewUserService(users UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{db: users, passwordConfig: passwordConfig}
}

func toAPIUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		PasswordSet: u.PasswordSet,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and sets its password.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := normalizeEmail(req.Email)
	exists, err := s.db.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.db.CreateUser(ctx, strings.TrimSpace(req.Name), email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, id, hash); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	u, err := s.db.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return toAPIUser(u), nil
}

// Login checks credentials. Unknown emails and wrong passwords return the
// same *ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	u, err := s.db.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if u == nil || !u.PasswordSet || !s.passwordConfig.VerifyPassword(req.Password, u.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return toAPIUser(u), nil
}

// Get returns the account for id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := s.db.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return toAPIUser(u), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	u, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return &ErrUserNotFound{UserID: userID}
	}
	if !s.passwordConfig.VerifyPassword(currentPassword, u.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
