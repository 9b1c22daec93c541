// Package autosave buffers document edits and writes the whole document to
// the store after a quiet period.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/sirupsen/logrus"
)

// DefaultQuietPeriod is the debounce window between the last edit and a flush.
const DefaultQuietPeriod = time.Second

// State is the persistence state of the installed document.
type State int

const (
	// Clean means the store holds the latest local document.
	Clean State = iota
	// Dirty means local edits are waiting for the quiet period to elapse.
	Dirty
	// Saving means a flush is in flight.
	Saving
	// SaveFailed means the last flush errored. Local edits are kept.
	SaveFailed
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	case SaveFailed:
		return "save failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Backend is the part of store.Store the controller writes through.
type Backend interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, template string) (*store.Record, error)
	Update(ctx context.Context, id uuid.UUID, u store.Update) (*store.Record, error)
}

// OrphanedError is returned once the backing record has disappeared from the
// store. Only SaveAsNew writes again.
type OrphanedError struct {
	ID uuid.UUID
}

func (e *OrphanedError) Error() string {
	return fmt.Sprintf("resume %s no longer exists; save it as a new resume", e.ID)
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	QuietPeriod   time.Duration
	Clock         Clock
	Logger        logrus.FieldLogger
	OnStateChange func(State)
	// Title and Template are used when a record has to be created.
	Title    string
	Template string
}

// Controller owns one editing session's document and keeps the store in step
// with it. At most one flush is in flight; flushes requested meanwhile are
// collapsed into one that carries the latest document.
type Controller struct {
	backend  Backend
	session  session.Session
	notify   session.Sink
	clock    Clock
	quiet    time.Duration
	log      logrus.FieldLogger
	onState  func(State)
	title    string
	template string

	mu           sync.Mutex
	recordID     uuid.UUID
	doc          document.Document
	version      uint64
	savedVersion uint64
	state        State
	timer        Timer
	inFlight     bool
	pending      bool
	orphaned     bool
	closed       bool
	epoch        uint64
	lastErr      error
	lastSaved    time.Time
	idle         chan struct{}
	changes      []State
}

// New creates a controller with an empty, unsaved document installed.
func New(backend Backend, sess session.Session, sink session.Sink, opts Options) *Controller {
	c := &Controller{
		backend:  backend,
		session:  sess,
		notify:   sink,
		clock:    opts.Clock,
		quiet:    opts.QuietPeriod,
		log:      opts.Logger,
		onState:  opts.OnStateChange,
		title:    opts.Title,
		template: opts.Template,
		doc:      document.New(),
	}
	if c.clock == nil {
		c.clock = RealClock{}
	}
	if c.quiet <= 0 {
		c.quiet = DefaultQuietPeriod
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.notify == nil {
		c.notify = session.SinkFunc(func(session.Notification) {})
	}
	if c.title == "" {
		c.title = store.DefaultTitle
	}
	if c.template == "" {
		c.template = store.DefaultTemplate
	}
	return c
}

// Install replaces the document being edited. recordID is uuid.Nil for a
// resume that has never been saved. The controller starts Clean.
func (c *Controller) Install(recordID uuid.UUID, doc document.Document) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Cancel()
	}
	c.epoch++
	c.recordID = recordID
	c.doc = doc.Normalize().Clone()
	c.version = 0
	c.savedVersion = 0
	c.pending = false
	c.orphaned = false
	c.closed = false
	c.lastErr = nil
	c.setStateLocked(Clean)
	c.unlockAndEmit()
}

// Edit records a new local document and restarts the quiet period.
func (c *Controller) Edit(doc document.Document) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.doc = doc.Clone()
	c.version++
	if c.orphaned {
		c.setStateLocked(SaveFailed)
		c.unlockAndEmit()
		return
	}
	if c.state != Saving {
		c.setStateLocked(Dirty)
	}
	if c.timer == nil {
		c.timer = c.clock.AfterFunc(c.quiet, c.onTimer)
	} else {
		c.timer.Reset(c.quiet)
	}
	c.unlockAndEmit()
}

// SaveNow flushes immediately, bypassing the quiet period. If a flush is
// already in flight it waits for that flush and one more carrying the latest
// document. A resume without a record gets one created first.
func (c *Controller) SaveNow(ctx context.Context) error {
	c.mu.Lock()
	if c.orphaned {
		err := &OrphanedError{ID: c.recordID}
		c.mu.Unlock()
		return err
	}
	if c.timer != nil {
		c.timer.Cancel()
	}
	claimed, idle := c.claimLocked()
	c.mu.Unlock()

	var err error
	if claimed {
		err = c.run(ctx)
	} else {
		err = c.wait(ctx, idle)
	}
	if err == nil {
		c.notify.Notify(session.Info("Resume Saved", "Your resume has been saved successfully."))
	}
	return err
}

// SaveAsNew creates a fresh record for the current document and flushes to
// it. This is how an orphaned session recovers.
func (c *Controller) SaveAsNew(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		idle := c.idle
		c.mu.Unlock()
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
	}
	if c.timer != nil {
		c.timer.Cancel()
	}
	c.recordID = uuid.Nil
	c.orphaned = false
	claimed, idle := c.claimLocked()
	c.mu.Unlock()

	var err error
	if claimed {
		err = c.run(ctx)
	} else {
		err = c.wait(ctx, idle)
	}
	if err == nil {
		c.notify.Notify(session.Info("Resume Saved", "Your resume has been saved as a new resume."))
	}
	return err
}

// Close stops the quiet-period timer, waits for any in-flight flush and
// writes unsaved edits. Later edits are ignored until the next Install.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Cancel()
	}
	if c.inFlight {
		idle := c.idle
		c.mu.Unlock()
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
	}
	if c.version == c.savedVersion {
		c.mu.Unlock()
		return nil
	}
	if c.orphaned {
		err := &OrphanedError{ID: c.recordID}
		c.mu.Unlock()
		return err
	}
	claimed, idle := c.claimLocked()
	c.mu.Unlock()
	if claimed {
		return c.run(ctx)
	}
	return c.wait(ctx, idle)
}

// State returns the current persistence state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RecordID returns the backing record id, or uuid.Nil before the first save.
func (c *Controller) RecordID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordID
}

// Document returns a copy of the local document.
func (c *Controller) Document() document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Orphaned reports whether the backing record was found missing.
func (c *Controller) Orphaned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orphaned
}

// LastError returns the error of the most recent flush, if it failed.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// LastSaved returns when the last successful flush finished.
func (c *Controller) LastSaved() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

func (c *Controller) onTimer() {
	c.mu.Lock()
	if c.closed || c.orphaned || c.state == Clean {
		c.mu.Unlock()
		return
	}
	claimed, _ := c.claimLocked()
	c.mu.Unlock()
	if claimed {
		_ = c.run(context.Background())
	}
}

// claimLocked takes the in-flight slot, or marks a pending flush for the
// current holder. The returned channel closes when the slot is released.
func (c *Controller) claimLocked() (bool, <-chan struct{}) {
	if c.inFlight {
		c.pending = true
		return false, c.idle
	}
	c.inFlight = true
	c.idle = make(chan struct{})
	return true, c.idle
}

func (c *Controller) wait(ctx context.Context, idle <-chan struct{}) error {
	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// run performs flushes until no pending request remains, then releases the
// in-flight slot. The caller must hold the slot.
func (c *Controller) run(ctx context.Context) error {
	for {
		c.mu.Lock()
		c.pending = false
		snapshot := c.doc.Clone()
		version := c.version
		id := c.recordID
		epoch := c.epoch
		if c.timer != nil {
			c.timer.Cancel()
		}
		c.setStateLocked(Saving)
		c.unlockAndEmit()

		newID, err := c.write(ctx, epoch, id, snapshot)

		c.mu.Lock()
		if epoch != c.epoch {
			// The written document was replaced by Install. Flushes requested
			// for the installed one are still owed.
			if c.pending && !c.orphaned {
				c.unlockAndEmit()
				continue
			}
			c.releaseLocked()
			c.unlockAndEmit()
			return err
		}
		if err == nil {
			c.recordID = newID
			c.savedVersion = version
			c.lastErr = nil
			c.lastSaved = c.clock.Now()
			if c.version > version {
				c.setStateLocked(Dirty)
			} else {
				c.setStateLocked(Clean)
			}
		} else {
			c.lastErr = err
			if store.IsNotFound(err) {
				c.orphaned = true
			}
			c.setStateLocked(SaveFailed)
		}
		again := c.pending && !c.orphaned && (err != nil || c.version > c.savedVersion)
		orphaned := c.orphaned
		if !again {
			c.releaseLocked()
		}
		c.unlockAndEmit()

		entry := c.log.WithField("resume_id", newID)
		switch {
		case err == nil:
			entry.WithField("version", version).Debug("resume saved")
		case orphaned:
			entry.WithError(err).Warn("resume missing from store")
			c.notify.Notify(session.Error("Resume not found",
				"This resume no longer exists. Save it as a new resume to keep your changes."))
		default:
			entry.WithError(err).Warn("failed to save resume")
			c.notify.Notify(session.Error("Error", "Failed to update resume"))
		}

		if !again {
			return err
		}
	}
}

// write creates the record if needed, then overwrites its content. The new
// id is kept even if the content write fails, so a retry does not create a
// second record.
func (c *Controller) write(ctx context.Context, epoch uint64, id uuid.UUID, doc document.Document) (uuid.UUID, error) {
	if id == uuid.Nil {
		rec, err := c.backend.Create(ctx, c.session.OwnerID, c.title, c.template)
		if err != nil {
			return uuid.Nil, err
		}
		id = rec.ID
		c.mu.Lock()
		if epoch == c.epoch {
			c.recordID = id
		}
		c.mu.Unlock()
	}
	if _, err := c.backend.Update(ctx, id, store.Update{Content: &doc}); err != nil {
		return id, err
	}
	return id, nil
}

func (c *Controller) releaseLocked() {
	c.inFlight = false
	close(c.idle)
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.changes = append(c.changes, s)
}

// unlockAndEmit releases mu and reports queued state changes to the observer.
func (c *Controller) unlockAndEmit() {
	changes := c.changes
	c.changes = nil
	c.mu.Unlock()
	if c.onState == nil {
		return
	}
	for _, s := range changes {
		c.onState(s)
	}
}
