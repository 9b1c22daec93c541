package editor

import (
	"github.com/jonathan/resume-builder/internal/document"
)

// ListForm edits an ordered section list. Each successful change commits the
// whole new list.
type ListForm[T document.Entry, P document.Patch[T]] struct {
	section  string
	prefix   string
	newEntry func(id string) T
	entries  document.List[T]

	OnUpdate       func(document.List[T])
	OnAISuggestion func(entryID string)
}

// ExperienceForm edits work history.
type ExperienceForm = ListForm[document.Experience, document.ExperiencePatch]

// EducationForm edits education entries.
type EducationForm = ListForm[document.Education, document.EducationPatch]

// CertificationsForm edits certifications.
type CertificationsForm = ListForm[document.Certification, document.CertificationPatch]

// NewExperienceForm returns a form showing entries.
func NewExperienceForm(entries document.List[document.Experience]) *ExperienceForm {
	return newListForm[document.Experience, document.ExperiencePatch](
		document.SectionExperience, document.ExperiencePrefix, document.NewExperience, entries)
}

// NewEducationForm returns a form showing entries.
func NewEducationForm(entries document.List[document.Education]) *EducationForm {
	return newListForm[document.Education, document.EducationPatch](
		document.SectionEducation, document.EducationPrefix, document.NewEducation, entries)
}

// NewCertificationsForm returns a form showing entries.
func NewCertificationsForm(entries document.List[document.Certification]) *CertificationsForm {
	return newListForm[document.Certification, document.CertificationPatch](
		document.SectionCertifications, document.CertificationPrefix, document.NewCertification, entries)
}

func newListForm[T document.Entry, P document.Patch[T]](section, prefix string, newEntry func(string) T, entries document.List[T]) *ListForm[T, P] {
	return &ListForm[T, P]{
		section:  section,
		prefix:   prefix,
		newEntry: newEntry,
		entries:  append(document.List[T]{}, entries...),
	}
}

// Section returns the section key the form edits.
func (f *ListForm[T, P]) Section() string { return f.section }

// Entries returns the entries in order.
func (f *ListForm[T, P]) Entries() document.List[T] {
	return append(document.List[T]{}, f.entries...)
}

// Len returns the number of entries.
func (f *ListForm[T, P]) Len() int { return len(f.entries) }

// Get returns the entry with id.
func (f *ListForm[T, P]) Get(id string) (T, bool) { return f.entries.Get(id) }

// Add appends an empty entry with a fresh id and returns it.
func (f *ListForm[T, P]) Add() T {
	next, entry := document.Append(f.entries, f.prefix, f.newEntry)
	f.commit(next)
	return entry
}

// Update merges patch into the entry with id.
func (f *ListForm[T, P]) Update(id string, patch P) error {
	next, err := document.UpdateAt[T](f.entries, id, patch)
	if err != nil {
		return err
	}
	f.commit(next)
	return nil
}

// Remove deletes the entry with id. Removing an absent id commits nothing.
func (f *ListForm[T, P]) Remove(id string) {
	next := document.RemoveByID(f.entries, id)
	if len(next) == len(f.entries) {
		return
	}
	f.commit(next)
}

// Move places the entry fromID at the position held by toID.
func (f *ListForm[T, P]) Move(fromID, toID string) error {
	if fromID == toID {
		if f.entries.IndexOf(fromID) < 0 {
			return &document.EntryNotFoundError{ID: fromID}
		}
		return nil
	}
	next, err := document.Reorder(f.entries, fromID, toID)
	if err != nil {
		return err
	}
	f.commit(next)
	return nil
}

// MoveBy shifts the entry with id by delta positions, clamped to the list
// bounds.
func (f *ListForm[T, P]) MoveBy(id string, delta int) error {
	i := f.entries.IndexOf(id)
	if i < 0 {
		return &document.EntryNotFoundError{ID: id}
	}
	j := min(max(i+delta, 0), len(f.entries)-1)
	return f.Move(id, f.entries[j].EntryID())
}

// RequestSuggestion forwards to OnAISuggestion for one entry.
func (f *ListForm[T, P]) RequestSuggestion(id string) {
	if f.OnAISuggestion != nil {
		f.OnAISuggestion(id)
	}
}

func (f *ListForm[T, P]) commit(next document.List[T]) {
	f.entries = next
	if f.OnUpdate != nil {
		f.OnUpdate(f.Entries())
	}
}
