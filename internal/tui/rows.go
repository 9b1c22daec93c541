package tui

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/editor"
)

// sectionNames are the menu labels, in document order.
var sectionNames = map[string]string{
	document.SectionPersonal:       "Personal Info",
	document.SectionSummary:        "Professional Summary",
	document.SectionExperience:     "Work Experience",
	document.SectionEducation:      "Education",
	document.SectionSkills:         "Skills",
	document.SectionCertifications: "Certifications",
}

// row is one editable line of the detail panel.
type row struct {
	entryID string
	field   string
	label   string
	value   string
	// toggle rows flip a boolean instead of taking text.
	toggle bool
	on     bool
}

func (r row) String() string {
	if r.toggle {
		mark := " "
		if r.on {
			mark = "x"
		}
		return fmt.Sprintf("%s [%s]", r.label, mark)
	}
	return fmt.Sprintf("%s: %s", r.label, r.value)
}

var personalLabels = map[string]string{
	"firstName": "First name",
	"lastName":  "Last name",
	"email":     "Email",
	"phone":     "Phone",
	"location":  "Location",
	"website":   "Website",
}

// achievementSep joins achievements into one editable line.
const achievementSep = "; "

func splitAchievements(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// rowsFor lists the editable lines of a section.
func rowsFor(ed *editor.Editor, section string) []row {
	var rows []row
	switch section {
	case document.SectionPersonal:
		p := ed.Personal()
		for _, f := range editor.PersonalFields {
			rows = append(rows, row{field: f, label: personalLabels[f], value: p.Field(f)})
		}
	case document.SectionSummary:
		rows = append(rows, row{field: "summary", label: "Summary", value: ed.Summary().Value()})
	case document.SectionExperience:
		for i, e := range ed.Experience().Entries() {
			h := fmt.Sprintf("#%d ", i+1)
			rows = append(rows,
				row{entryID: e.ID, field: "title", label: h + "Title", value: e.Title},
				row{entryID: e.ID, field: "company", label: h + "Company", value: e.Company},
				row{entryID: e.ID, field: "location", label: h + "Location", value: e.Location},
				row{entryID: e.ID, field: "startDate", label: h + "Start", value: e.StartDate},
				row{entryID: e.ID, field: "endDate", label: h + "End", value: e.EndDate},
				row{entryID: e.ID, field: "current", label: h + "Current", toggle: true, on: e.Current},
				row{entryID: e.ID, field: "description", label: h + "Description", value: e.Description},
				row{entryID: e.ID, field: "achievements", label: h + "Achievements", value: strings.Join(e.Achievements, achievementSep)},
			)
		}
	case document.SectionEducation:
		for i, e := range ed.Education().Entries() {
			h := fmt.Sprintf("#%d ", i+1)
			rows = append(rows,
				row{entryID: e.ID, field: "degree", label: h + "Degree", value: e.Degree},
				row{entryID: e.ID, field: "institution", label: h + "Institution", value: e.Institution},
				row{entryID: e.ID, field: "location", label: h + "Location", value: e.Location},
				row{entryID: e.ID, field: "graduationDate", label: h + "Graduation", value: e.GraduationDate},
				row{entryID: e.ID, field: "current", label: h + "Current", toggle: true, on: e.Current},
				row{entryID: e.ID, field: "gpa", label: h + "GPA", value: e.GPA},
				row{entryID: e.ID, field: "description", label: h + "Description", value: e.Description},
			)
		}
	case document.SectionSkills:
		for _, s := range ed.Skills().Value() {
			rows = append(rows, row{entryID: s, field: "skill", label: "Skill", value: s})
		}
	case document.SectionCertifications:
		for i, c := range ed.Certifications().Entries() {
			h := fmt.Sprintf("#%d ", i+1)
			rows = append(rows,
				row{entryID: c.ID, field: "name", label: h + "Name", value: c.Name},
				row{entryID: c.ID, field: "issuer", label: h + "Issuer", value: c.Issuer},
				row{entryID: c.ID, field: "date", label: h + "Issued", value: c.Date},
				row{entryID: c.ID, field: "expiryDate", label: h + "Expires", value: c.ExpiryDate},
				row{entryID: c.ID, field: "neverExpires", label: h + "Never expires", toggle: true, on: c.NeverExpires},
				row{entryID: c.ID, field: "credentialId", label: h + "Credential ID", value: c.CredentialID},
				row{entryID: c.ID, field: "url", label: h + "URL", value: c.URL},
				row{entryID: c.ID, field: "description", label: h + "Description", value: c.Description},
			)
		}
	}
	return rows
}

// commitText writes a text value back through the section's form.
func commitText(ed *editor.Editor, section string, r row, value string) error {
	switch section {
	case document.SectionPersonal:
		return ed.Personal().Set(r.field, value)
	case document.SectionSummary:
		ed.Summary().Set(value)
		return nil
	case document.SectionExperience:
		p := document.ExperiencePatch{}
		switch r.field {
		case "title":
			p.Title = &value
		case "company":
			p.Company = &value
		case "location":
			p.Location = &value
		case "startDate":
			p.StartDate = &value
		case "endDate":
			p.EndDate = &value
		case "description":
			p.Description = &value
		case "achievements":
			p.Achievements = splitAchievements(value)
		default:
			return &document.UnknownFieldError{Field: r.field}
		}
		return ed.Experience().Update(r.entryID, p)
	case document.SectionEducation:
		p := document.EducationPatch{}
		switch r.field {
		case "degree":
			p.Degree = &value
		case "institution":
			p.Institution = &value
		case "location":
			p.Location = &value
		case "graduationDate":
			p.GraduationDate = &value
		case "gpa":
			p.GPA = &value
		case "description":
			p.Description = &value
		default:
			return &document.UnknownFieldError{Field: r.field}
		}
		return ed.Education().Update(r.entryID, p)
	case document.SectionCertifications:
		p := document.CertificationPatch{}
		switch r.field {
		case "name":
			p.Name = &value
		case "issuer":
			p.Issuer = &value
		case "date":
			p.Date = &value
		case "expiryDate":
			p.ExpiryDate = &value
		case "credentialId":
			p.CredentialID = &value
		case "url":
			p.URL = &value
		case "description":
			p.Description = &value
		default:
			return &document.UnknownFieldError{Field: r.field}
		}
		return ed.Certifications().Update(r.entryID, p)
	}
	return &document.UnknownSectionError{Section: section}
}

// toggleRow flips an ongoing flag. Turning it on clears the end date.
func toggleRow(ed *editor.Editor, section string, r row) error {
	on := !r.on
	switch section {
	case document.SectionExperience:
		return ed.Experience().Update(r.entryID, document.ExperiencePatch{Current: &on})
	case document.SectionEducation:
		return ed.Education().Update(r.entryID, document.EducationPatch{Current: &on})
	case document.SectionCertifications:
		return ed.Certifications().Update(r.entryID, document.CertificationPatch{NeverExpires: &on})
	}
	return nil
}

// addEntry appends an empty entry to a list section.
func addEntry(ed *editor.Editor, section string) bool {
	switch section {
	case document.SectionExperience:
		ed.Experience().Add()
	case document.SectionEducation:
		ed.Education().Add()
	case document.SectionCertifications:
		ed.Certifications().Add()
	default:
		return false
	}
	return true
}

// removeEntry deletes the entry a row belongs to.
func removeEntry(ed *editor.Editor, section string, r row) {
	switch section {
	case document.SectionExperience:
		ed.Experience().Remove(r.entryID)
	case document.SectionEducation:
		ed.Education().Remove(r.entryID)
	case document.SectionCertifications:
		ed.Certifications().Remove(r.entryID)
	case document.SectionSkills:
		ed.Skills().Remove(r.value)
	}
}

// moveEntry shifts the entry a row belongs to by delta.
func moveEntry(ed *editor.Editor, section string, r row, delta int) error {
	switch section {
	case document.SectionExperience:
		return ed.Experience().MoveBy(r.entryID, delta)
	case document.SectionEducation:
		return ed.Education().MoveBy(r.entryID, delta)
	case document.SectionCertifications:
		return ed.Certifications().MoveBy(r.entryID, delta)
	}
	return nil
}

// requestSuggestion asks for help with the row's section or entry.
func requestSuggestion(ed *editor.Editor, section string, r row) {
	switch section {
	case document.SectionPersonal:
		ed.Personal().RequestSuggestion()
	case document.SectionSummary:
		ed.Summary().RequestSuggestion()
	case document.SectionExperience:
		ed.Experience().RequestSuggestion(r.entryID)
	case document.SectionEducation:
		ed.Education().RequestSuggestion(r.entryID)
	case document.SectionSkills:
		ed.Skills().RequestSuggestion()
	case document.SectionCertifications:
		ed.Certifications().RequestSuggestion(r.entryID)
	}
}
