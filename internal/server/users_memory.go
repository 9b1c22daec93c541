package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
)

// MemoryUsers is a UserStore held in process memory, used by `serve --memory`
// and tests.
type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]db.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryUsers returns an empty store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[uuid.UUID]db.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

// CheckEmailExists implements UserStore.
func (m *MemoryUsers) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byEmail[normalizeEmail(email)]
	return ok, nil
}

// CreateUser implements UserStore. A taken email returns *ErrEmailAlreadyExists.
func (m *MemoryUsers) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = normalizeEmail(email)
	if _, ok := m.byEmail[email]; ok {
		return uuid.Nil, &ErrEmailAlreadyExists{Email: email}
	}
	now := m.now()
	u := db.User{ID: uuid.New(), Name: name, Email: email, Phone: phone, CreatedAt: now, UpdatedAt: now}
	m.byID[u.ID] = u
	m.byEmail[email] = u.ID
	return u.ID, nil
}

// GetUser implements UserStore.
func (m *MemoryUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByEmail implements UserStore.
func (m *MemoryUsers) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	u := m.byID[id]
	return &u, nil
}

// UpdatePassword implements UserStore.
func (m *MemoryUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return &ErrUserNotFound{UserID: id}
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = m.now()
	m.byID[id] = u
	return nil
}
