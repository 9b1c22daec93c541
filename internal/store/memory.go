package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/document"
)

// Memory is a Store held in process memory. It backs `serve --memory` and
// tests.
type Memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[uuid.UUID]Record), now: time.Now}
}

// List returns the owner's records, most recently updated first.
func (m *Memory) List(_ context.Context, ownerID uuid.UUID) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Record{}
	for _, r := range m.records {
		if r.OwnerID == ownerID {
			r.Content = r.Content.Clone()
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Create inserts a draft record with an empty document.
func (m *Memory) Create(_ context.Context, ownerID uuid.UUID, title, template string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	r := Record{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Template:  template,
		Content:   document.New(),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.records[r.ID] = r
	return &r, nil
}

// Get returns the record with id.
func (m *Memory) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	r.Content = r.Content.Clone()
	return &r, nil
}

// Update merges u into the record and refreshes UpdatedAt.
func (m *Memory) Update(_ context.Context, id uuid.UUID, u Update) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	r = u.Apply(r)
	r.UpdatedAt = m.now()
	m.records[id] = r
	r.Content = r.Content.Clone()
	return &r, nil
}

// Delete removes the record.
func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(m.records, id)
	return nil
}

// IncrementDownloads adds one to the download counter.
func (m *Memory) IncrementDownloads(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	r.Downloads++
	m.records[id] = r
	return nil
}
