package editor

import (
	"github.com/jonathan/resume-builder/internal/document"
)

// PersonalForm edits the contact record one field at a time.
type PersonalForm struct {
	value document.PersonalInfo

	// OnUpdate receives every committed field change.
	OnUpdate func(document.PersonalField)
	// OnAISuggestion is invoked when the user asks for help with the section.
	OnAISuggestion func(entryID string)
}

// NewPersonalForm returns a form showing value.
func NewPersonalForm(value document.PersonalInfo) *PersonalForm {
	return &PersonalForm{value: value}
}

// Value returns the record as currently shown.
func (f *PersonalForm) Value() document.PersonalInfo { return f.value }

// Field returns the value of the field named by its JSON key.
func (f *PersonalForm) Field(name string) string {
	switch name {
	case "firstName":
		return f.value.FirstName
	case "lastName":
		return f.value.LastName
	case "email":
		return f.value.Email
	case "phone":
		return f.value.Phone
	case "location":
		return f.value.Location
	case "website":
		return f.value.Website
	}
	return ""
}

// Set changes one field and commits it. Unknown names return
// *document.UnknownFieldError and change nothing.
func (f *PersonalForm) Set(field, value string) error {
	change := document.PersonalField{Field: field, Value: value}
	doc := document.New()
	doc.Personal = f.value
	next, err := document.UpdateSection(doc, change)
	if err != nil {
		return err
	}
	f.value = next.Personal
	if f.OnUpdate != nil {
		f.OnUpdate(change)
	}
	return nil
}

// RequestSuggestion forwards to OnAISuggestion.
func (f *PersonalForm) RequestSuggestion() {
	if f.OnAISuggestion != nil {
		f.OnAISuggestion("")
	}
}

// PersonalFields lists the personal field keys in form order.
var PersonalFields = []string{"firstName", "lastName", "email", "phone", "location", "website"}

// SummaryForm edits the professional summary.
type SummaryForm struct {
	text string

	OnUpdate       func(string)
	OnAISuggestion func(entryID string)
}

// NewSummaryForm returns a form showing text.
func NewSummaryForm(text string) *SummaryForm {
	return &SummaryForm{text: text}
}

// Value returns the summary text.
func (f *SummaryForm) Value() string { return f.text }

// Set replaces the summary and commits it.
func (f *SummaryForm) Set(text string) {
	f.text = text
	if f.OnUpdate != nil {
		f.OnUpdate(text)
	}
}

// Guidance describes the summary length.
func (f *SummaryForm) Guidance() document.Guidance {
	return document.SummaryGuidance(f.text)
}

// RequestSuggestion forwards to OnAISuggestion.
func (f *SummaryForm) RequestSuggestion() {
	if f.OnAISuggestion != nil {
		f.OnAISuggestion("")
	}
}

// SkillsForm edits the skill list. Skills cannot be reordered.
type SkillsForm struct {
	skills document.Skills

	OnUpdate       func(document.Skills)
	OnAISuggestion func(entryID string)
}

// NewSkillsForm returns a form showing skills.
func NewSkillsForm(skills document.Skills) *SkillsForm {
	return &SkillsForm{skills: append(document.Skills{}, skills...)}
}

// Value returns a copy of the skill list.
func (f *SkillsForm) Value() document.Skills {
	return append(document.Skills{}, f.skills...)
}

// Add appends a trimmed skill. Blank and duplicate skills return
// *document.SkillError.
func (f *SkillsForm) Add(skill string) error {
	next, err := f.skills.Add(skill)
	if err != nil {
		return err
	}
	f.commit(next)
	return nil
}

// Remove drops skill if present.
func (f *SkillsForm) Remove(skill string) {
	if !f.skills.Contains(skill) {
		return
	}
	f.commit(f.skills.Remove(skill))
}

// Suggestions searches the catalogue for skills not yet on the list. An empty
// query returns the popular skills instead.
func (f *SkillsForm) Suggestions(query string) []string {
	if query == "" {
		return document.PopularSkills(f.skills)
	}
	return document.SuggestSkills(query, f.skills)
}

// RequestSuggestion forwards to OnAISuggestion.
func (f *SkillsForm) RequestSuggestion() {
	if f.OnAISuggestion != nil {
		f.OnAISuggestion("")
	}
}

func (f *SkillsForm) commit(next document.Skills) {
	f.skills = next
	if f.OnUpdate != nil {
		f.OnUpdate(f.Value())
	}
}
