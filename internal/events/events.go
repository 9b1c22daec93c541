// Package events publishes resume lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Type names a lifecycle event. It doubles as the AMQP routing key.
type Type string

const (
	ResumeCreated  Type = "resume.created"
	ResumeUpdated  Type = "resume.updated"
	ResumeDeleted  Type = "resume.deleted"
	ResumeExported Type = "resume.exported"
	UserRegistered Type = "user.registered"
)

// Event is the message body.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Type     Type      `json:"type"`
	OwnerID  uuid.UUID `json:"owner_id"`
	ResumeID uuid.UUID `json:"resume_id,omitempty"`
	Format   string    `json:"format,omitempty"`
	At       time.Time `json:"at"`
}

// New stamps an event with a fresh id and the current time.
func New(t Type, ownerID, resumeID uuid.UUID) Event {
	return Event{ID: uuid.New(), Type: t, OwnerID: ownerID, ResumeID: resumeID, At: time.Now().UTC()}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to a logger. It is used when no broker is configured.
type LogPublisher struct {
	Logger logrus.FieldLogger
}

// Publish implements Publisher.
func (p LogPublisher) Publish(_ context.Context, e Event) error {
	entry := p.Logger.WithFields(logrus.Fields{
		"event":    e.Type,
		"owner_id": e.OwnerID,
	})
	if e.ResumeID != uuid.Nil {
		entry = entry.WithField("resume_id", e.ResumeID)
	}
	if e.Format != "" {
		entry = entry.WithField("format", e.Format)
	}
	entry.Debug("event")
	return nil
}

// Close implements Publisher.
func (LogPublisher) Close() error { return nil }
