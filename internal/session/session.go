// Package session carries the authenticated identity and the notification
// capability that editing components receive at construction.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session identifies the signed-in owner.
type Session struct {
	OwnerID uuid.UUID
	Token   string
}

// Valid reports whether the session names an owner.
func (s Session) Valid() bool {
	return s.OwnerID != uuid.Nil
}

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a transient, dismissible message for the user.
type Notification struct {
	Level       Level
	Title       string
	Description string
}

// Sink receives notifications.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

// Notify implements Sink.
func (f SinkFunc) Notify(n Notification) { f(n) }

// Info builds an informational notification.
func Info(title, description string) Notification {
	return Notification{Level: LevelInfo, Title: title, Description: description}
}

// Error builds an error notification.
func Error(title, description string) Notification {
	return Notification{Level: LevelError, Title: title, Description: description}
}

// LogSink writes notifications to a logger.
type LogSink struct {
	Logger logrus.FieldLogger
}

// Notify implements Sink.
func (s LogSink) Notify(n Notification) {
	entry := s.Logger.WithFields(logrus.Fields{"title": n.Title})
	if n.Level == LevelError {
		entry.Warn(n.Description)
		return
	}
	entry.Info(n.Description)
}

// Recorder keeps every notification it receives. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify implements Sink.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}
