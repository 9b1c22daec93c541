package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/session"
)

// Listing is the owner's in-memory resume list kept in step with a Store.
// Every failure is reported to the sink and returned; none is fatal.
type Listing struct {
	store   Store
	session session.Session
	notify  session.Sink

	mu      sync.Mutex
	records []Record
}

// NewListing creates an empty listing for the session owner.
func NewListing(s Store, sess session.Session, sink session.Sink) *Listing {
	return &Listing{store: s, session: sess, notify: sink}
}

// Records returns a copy of the current list, most recently updated first.
func (l *Listing) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record(nil), l.records...)
}

// Stats summarizes the current list.
func (l *Listing) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ComputeStats(l.records)
}

// Refresh reloads the list from the store.
func (l *Listing) Refresh(ctx context.Context) error {
	records, err := l.store.List(ctx, l.session.OwnerID)
	if err != nil {
		l.notify.Notify(session.Error("Error", "Failed to load resumes"))
		return err
	}
	l.mu.Lock()
	l.records = records
	l.mu.Unlock()
	return nil
}

// Create adds a new draft resume and puts it at the head of the list. An
// empty template falls back to DefaultTemplate.
func (l *Listing) Create(ctx context.Context, title, template string) (*Record, error) {
	if template == "" {
		template = DefaultTemplate
	}
	rec, err := l.store.Create(ctx, l.session.OwnerID, title, template)
	if err != nil {
		l.notify.Notify(session.Error("Error", "Failed to create resume"))
		return nil, err
	}
	l.mu.Lock()
	l.records = append([]Record{*rec}, l.records...)
	l.mu.Unlock()
	l.notify.Notify(session.Info("Success", "Resume created successfully"))
	return rec, nil
}

// Update applies u remotely and merges the returned record into the list.
func (l *Listing) Update(ctx context.Context, id uuid.UUID, u Update) (*Record, error) {
	rec, err := l.store.Update(ctx, id, u)
	if err != nil {
		l.notify.Notify(session.Error("Error", "Failed to update resume"))
		return nil, err
	}
	l.mu.Lock()
	for i := range l.records {
		if l.records[i].ID == id {
			l.records[i] = *rec
		}
	}
	l.mu.Unlock()
	return rec, nil
}

// Delete removes the record from the list at once, then from the store. A
// failed remote delete is reported but the local removal stands.
func (l *Listing) Delete(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	kept := l.records[:0:0]
	for _, r := range l.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	l.records = kept
	l.mu.Unlock()

	if err := l.store.Delete(ctx, id); err != nil {
		l.notify.Notify(session.Error("Error", "Failed to delete resume"))
		return err
	}
	l.notify.Notify(session.Info("Success", "Resume deleted successfully"))
	return nil
}

// IncrementDownloads bumps the download counter remotely, then locally.
func (l *Listing) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	if err := l.store.IncrementDownloads(ctx, id); err != nil {
		l.notify.Notify(session.Error("Error", "Failed to update resume"))
		return err
	}
	l.mu.Lock()
	for i := range l.records {
		if l.records[i].ID == id {
			l.records[i].Downloads++
		}
	}
	l.mu.Unlock()
	return nil
}
