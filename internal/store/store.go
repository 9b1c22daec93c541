// Package store defines the resume store contract shared by the PostgreSQL
// implementation, the HTTP client and the editing session.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/document"
)

// Defaults for new resumes.
const (
	DefaultTitle    = "Untitled Resume"
	DefaultTemplate = "Modern Professional"
)

// Status is the user-set lifecycle label of a resume.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusCompleted
}

// Record is a stored resume row.
type Record struct {
	ID        uuid.UUID         `json:"id"`
	OwnerID   uuid.UUID         `json:"owner_id"`
	Title     string            `json:"title"`
	Template  string            `json:"template"`
	Content   document.Document `json:"content"`
	Status    Status            `json:"status"`
	Downloads int               `json:"downloads"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Update is a partial record. Nil fields are left untouched; Content is
// always written whole.
type Update struct {
	Title    *string            `json:"title,omitempty"`
	Template *string            `json:"template,omitempty"`
	Status   *Status            `json:"status,omitempty"`
	Content  *document.Document `json:"content,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Title == nil && u.Template == nil && u.Status == nil && u.Content == nil
}

// Apply merges u into r. UpdatedAt is left to the caller.
func (u Update) Apply(r Record) Record {
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Template != nil {
		r.Template = *u.Template
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Content != nil {
		r.Content = u.Content.Clone()
	}
	return r
}

// Store is the multi-tenant resume collection. Implementations return
// *NotFoundError for absent ids and *PersistenceError for other failures.
type Store interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]Record, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, template string) (*Record, error)
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, id uuid.UUID, u Update) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementDownloads(ctx context.Context, id uuid.UUID) error
}

// Stats summarizes a resume list for the dashboard.
type Stats struct {
	Total      int `json:"total"`
	Downloads  int `json:"downloads"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
}

// ComputeStats totals downloads and counts records by status.
func ComputeStats(records []Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		s.Downloads += r.Downloads
		switch r.Status {
		case StatusCompleted:
			s.Completed++
		case StatusDraft:
			s.InProgress++
		}
	}
	return s
}
