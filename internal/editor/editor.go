// Package editor wires the per-section forms of one resume to the document
// model and the auto-save controller.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
)

// ErrNoExporter is returned by Export when no exporter is configured.
var ErrNoExporter = errors.New("export is not available")

// Exporter produces a download for a stored resume. *client.Client and
// LocalExporter implement it.
type Exporter interface {
	Export(ctx context.Context, id uuid.UUID, format export.Format) (*export.Artifact, error)
}

// SuggestFunc answers an AI suggestion request for a section entry. entryID
// is empty for section-wide requests.
type SuggestFunc func(section, entryID string) []string

// SampleSuggestions returns the canned summaries and tells the user they
// are available.
func SampleSuggestions(sink session.Sink) SuggestFunc {
	return func(string, string) []string {
		sink.Notify(session.Info("AI Suggestion Generated", "We've added some suggestions to improve your resume."))
		return append([]string{}, document.SampleSummaries...)
	}
}

// Options configures an Editor.
type Options struct {
	Exporter Exporter
	Suggest  SuggestFunc
	Logger   logrus.FieldLogger
}

// Editor is one open resume.
type Editor struct {
	ctrl     *autosave.Controller
	notify   session.Sink
	exporter Exporter
	suggest  SuggestFunc
	log      logrus.FieldLogger

	mu          sync.Mutex
	title       string
	template    string
	suggestions []string

	personal       *PersonalForm
	summary        *SummaryForm
	experience     *ExperienceForm
	education      *EducationForm
	skills         *SkillsForm
	certifications *CertificationsForm
}

// New returns an editor showing an empty, unsaved resume.
func New(ctrl *autosave.Controller, sink session.Sink, opts Options) *Editor {
	if sink == nil {
		sink = session.SinkFunc(func(session.Notification) {})
	}
	e := &Editor{
		ctrl:     ctrl,
		notify:   sink,
		exporter: opts.Exporter,
		suggest:  opts.Suggest,
		log:      opts.Logger,
	}
	if e.suggest == nil {
		e.suggest = SampleSuggestions(sink)
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	e.Start(document.New())
	return e
}

// Load installs a stored resume. The forms are rebuilt, so callers must not
// keep form pointers across a Load.
func (e *Editor) Load(rec *store.Record) {
	e.mu.Lock()
	e.title, e.template = rec.Title, rec.Template
	e.mu.Unlock()
	e.install(rec.ID, rec.Content)
}

// Start installs a new resume that has no record yet. The first save
// creates one.
func (e *Editor) Start(doc document.Document) {
	e.mu.Lock()
	e.title, e.template = store.DefaultTitle, store.DefaultTemplate
	e.mu.Unlock()
	e.install(uuid.Nil, doc)
}

func (e *Editor) install(id uuid.UUID, doc document.Document) {
	doc = doc.Normalize()
	e.ctrl.Install(id, doc)

	personal := NewPersonalForm(doc.Personal)
	personal.OnUpdate = func(f document.PersonalField) { e.apply(f) }
	personal.OnAISuggestion = e.suggestFor(document.SectionPersonal)

	summary := NewSummaryForm(doc.Summary)
	summary.OnUpdate = func(text string) { e.apply(document.SummaryUpdate{Text: text}) }
	summary.OnAISuggestion = e.suggestFor(document.SectionSummary)

	experience := NewExperienceForm(doc.Experience)
	experience.OnUpdate = func(l document.List[document.Experience]) { e.apply(document.ExperienceUpdate{Entries: l}) }
	experience.OnAISuggestion = e.suggestFor(document.SectionExperience)

	education := NewEducationForm(doc.Education)
	education.OnUpdate = func(l document.List[document.Education]) { e.apply(document.EducationUpdate{Entries: l}) }
	education.OnAISuggestion = e.suggestFor(document.SectionEducation)

	skills := NewSkillsForm(doc.Skills)
	skills.OnUpdate = func(s document.Skills) { e.apply(document.SkillsUpdate{Skills: s}) }
	skills.OnAISuggestion = e.suggestFor(document.SectionSkills)

	certifications := NewCertificationsForm(doc.Certifications)
	certifications.OnUpdate = func(l document.List[document.Certification]) {
		e.apply(document.CertificationsUpdate{Entries: l})
	}
	certifications.OnAISuggestion = e.suggestFor(document.SectionCertifications)

	e.mu.Lock()
	e.personal, e.summary = personal, summary
	e.experience, e.education = experience, education
	e.skills, e.certifications = skills, certifications
	e.suggestions = nil
	e.mu.Unlock()
}

// apply folds one committed section change into the document and hands it
// to the controller.
func (e *Editor) apply(u document.SectionUpdate) {
	next, err := document.UpdateSection(e.ctrl.Document(), u)
	if err != nil {
		e.log.WithError(err).WithField("section", u.Section()).Warn("section update rejected")
		e.notify.Notify(session.Error("Edit Rejected", err.Error()))
		return
	}
	e.ctrl.Edit(next)
}

func (e *Editor) suggestFor(section string) func(string) {
	return func(entryID string) {
		got := e.suggest(section, entryID)
		e.mu.Lock()
		e.suggestions = got
		e.mu.Unlock()
	}
}

// Personal returns the personal info form.
func (e *Editor) Personal() *PersonalForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.personal
}

// Summary returns the summary form.
func (e *Editor) Summary() *SummaryForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary
}

// Experience returns the work history form.
func (e *Editor) Experience() *ExperienceForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.experience
}

// Education returns the education form.
func (e *Editor) Education() *EducationForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.education
}

// Skills returns the skills form.
func (e *Editor) Skills() *SkillsForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skills
}

// Certifications returns the certifications form.
func (e *Editor) Certifications() *CertificationsForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.certifications
}

// Suggestions returns the result of the last suggestion request.
func (e *Editor) Suggestions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.suggestions...)
}

// Title returns the resume title.
func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// Template returns the resume template label.
func (e *Editor) Template() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.template
}

// Document returns the document being edited.
func (e *Editor) Document() document.Document { return e.ctrl.Document() }

// State returns the persistence state.
func (e *Editor) State() autosave.State { return e.ctrl.State() }

// RecordID returns the backing record, uuid.Nil before the first save.
func (e *Editor) RecordID() uuid.UUID { return e.ctrl.RecordID() }

// Orphaned reports whether the backing record was deleted elsewhere.
func (e *Editor) Orphaned() bool { return e.ctrl.Orphaned() }

// Validate reports field problems. The result never blocks editing or saving.
func (e *Editor) Validate(mode document.Mode) document.ValidationErrors {
	return document.Validate(e.Document(), mode)
}

// Save writes the document now.
func (e *Editor) Save(ctx context.Context) error { return e.ctrl.SaveNow(ctx) }

// SaveAsNew writes the document to a fresh record.
func (e *Editor) SaveAsNew(ctx context.Context) error { return e.ctrl.SaveAsNew(ctx) }

// Close writes pending edits.
func (e *Editor) Close(ctx context.Context) error { return e.ctrl.Close(ctx) }

// Export saves the document, then renders it in format. Failures are also
// reported to the notification sink.
func (e *Editor) Export(ctx context.Context, format export.Format) (*export.Artifact, error) {
	if e.exporter == nil {
		return nil, ErrNoExporter
	}
	if err := e.ctrl.SaveNow(ctx); err != nil {
		return nil, fmt.Errorf("failed to save before export: %w", err)
	}
	artifact, err := e.exporter.Export(ctx, e.ctrl.RecordID(), format)
	if err != nil {
		e.notify.Notify(session.Error("Export Failed", err.Error()))
		return nil, fmt.Errorf("failed to export resume: %w", err)
	}
	e.notify.Notify(session.Info("Download Started",
		fmt.Sprintf("Downloading %q as %s", e.Title(), format.Label())))
	return artifact, nil
}

// LocalExporter exports straight from a store, counting the download the
// same way the API does.
type LocalExporter struct {
	Store    store.Store
	Renderer *export.Exporter
	OwnerID  uuid.UUID
}

// Export implements Exporter.
func (l LocalExporter) Export(ctx context.Context, id uuid.UUID, format export.Format) (*export.Artifact, error) {
	rec, err := l.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.Store.IncrementDownloads(ctx, id); err != nil {
		return nil, err
	}
	return l.Renderer.Export(ctx, export.Request{
		OwnerID:  l.OwnerID,
		ResumeID: id,
		Document: rec.Content,
		Format:   format,
	})
}
