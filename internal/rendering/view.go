// Package rendering turns resume documents into an HTML preview, plain text and
// LaTeX.
package rendering

import (
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/document"
)

// Section headings shared by every output format.
const (
	HeadingSummary        = "Professional Summary"
	HeadingExperience     = "Professional Experience"
	HeadingSkills         = "Core Skills"
	HeadingEducation      = "Education"
	HeadingCertifications = "Certifications"

	EmptyExperienceHint = "Add your work experience to see it here"
)

// View is a format-neutral projection of a document.
type View struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Website  string
	Summary  string

	Experience     []ExperienceView
	Education      []EducationView
	Skills         []string
	Certifications []CertificationView

	// Placeholders is set when missing values were filled with sample text.
	Placeholders bool
}

// ExperienceView is one rendered experience entry.
type ExperienceView struct {
	Title        string
	Company      string
	Location     string
	StartDate    string
	EndDate      string
	Current      bool
	Dates        string
	Description  string
	Achievements []string
}

// EducationView is one rendered education entry.
type EducationView struct {
	Degree      string
	Institution string
	Location    string
	Date        string
	GPA         string
	Description string
}

// CertificationView is one rendered certification entry.
type CertificationView struct {
	Name         string
	Issuer       string
	Date         string
	ExpiryDate   string
	CredentialID string
	URL          string
	Expired      bool
}

type placeholders struct {
	name, email                string
	title, company, start, end string
	degree, institution, year  string
}

var previewPlaceholders = placeholders{
	name:        "Your Name",
	email:       "your.email@example.com",
	title:       "Job Title",
	company:     "Company Name",
	start:       "Start",
	end:         "End",
	degree:      "Degree",
	institution: "Institution",
	year:        "Year",
}

// PreviewView builds the live-preview projection: empty headline fields are
// replaced with sample text so the layout stays recognisable.
func PreviewView(doc document.Document, now time.Time) View {
	v := buildView(doc, now, previewPlaceholders)
	v.Placeholders = true
	return v
}

// ExportView builds the projection used for exported files, without sample text.
func ExportView(doc document.Document, now time.Time) View {
	return buildView(doc, now, placeholders{})
}

func buildView(doc document.Document, now time.Time, ph placeholders) View {
	p := doc.Personal
	v := View{
		Name:     or(strings.TrimSpace(p.FullName()), ph.name),
		Email:    or(p.Email, ph.email),
		Phone:    p.Phone,
		Location: p.Location,
		Website:  p.Website,
		Summary:  strings.TrimSpace(doc.Summary),
		Skills:   append([]string{}, doc.Skills...),
	}

	for _, e := range doc.Experience {
		v.Experience = append(v.Experience, ExperienceView{
			Title:        or(e.Title, ph.title),
			Company:      or(e.Company, ph.company),
			Location:     e.Location,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Current:      e.Current,
			Dates:        dateRange(e.StartDate, e.EndDate, e.Current, ph),
			Description:  e.Description,
			Achievements: nonEmpty(e.Achievements),
		})
	}

	for _, e := range doc.Education {
		date := e.GraduationDate
		if e.Current {
			date = "Present"
		}
		v.Education = append(v.Education, EducationView{
			Degree:      or(e.Degree, ph.degree),
			Institution: or(e.Institution, ph.institution),
			Location:    e.Location,
			Date:        or(date, ph.year),
			GPA:         e.GPA,
			Description: e.Description,
		})
	}

	for _, c := range doc.Certifications {
		v.Certifications = append(v.Certifications, CertificationView{
			Name:         c.Name,
			Issuer:       c.Issuer,
			Date:         c.Date,
			ExpiryDate:   c.ExpiryDate,
			CredentialID: c.CredentialID,
			URL:          c.URL,
			Expired:      c.Expired(now),
		})
	}
	return v
}

func dateRange(start, end string, current bool, ph placeholders) string {
	start = or(start, ph.start)
	switch {
	case current:
		end = "Present"
	default:
		end = or(end, ph.end)
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
