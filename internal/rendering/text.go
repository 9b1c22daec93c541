package rendering

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/document"
)

// RenderText renders doc as plain text. Empty sections are omitted.
func RenderText(doc document.Document, now time.Time) string {
	v := ExportView(doc, now)
	var b strings.Builder

	if v.Name != "" {
		b.WriteString(v.Name + "\n")
	}
	contact := joinNonEmpty(" | ", v.Email, v.Phone, v.Location, v.Website)
	if contact != "" {
		b.WriteString(contact + "\n")
	}

	if v.Summary != "" {
		heading(&b, HeadingSummary)
		b.WriteString(v.Summary + "\n")
	}

	if len(v.Experience) > 0 {
		heading(&b, HeadingExperience)
		for i, e := range v.Experience {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(joinNonEmpty(", ", e.Title, e.Company) + "\n")
			if meta := joinNonEmpty(" | ", e.Dates, e.Location); meta != "" {
				b.WriteString(meta + "\n")
			}
			if e.Description != "" {
				b.WriteString(e.Description + "\n")
			}
			for _, a := range e.Achievements {
				b.WriteString("  - " + a + "\n")
			}
		}
	}

	if len(v.Skills) > 0 {
		heading(&b, HeadingSkills)
		b.WriteString(strings.Join(v.Skills, ", ") + "\n")
	}

	if len(v.Education) > 0 {
		heading(&b, HeadingEducation)
		for _, e := range v.Education {
			b.WriteString(joinNonEmpty(", ", e.Degree, e.Institution))
			if e.Date != "" {
				b.WriteString(" (" + e.Date + ")")
			}
			b.WriteString("\n")
			if e.GPA != "" {
				b.WriteString("GPA: " + e.GPA + "\n")
			}
		}
	}

	if len(v.Certifications) > 0 {
		heading(&b, HeadingCertifications)
		for _, c := range v.Certifications {
			line := joinNonEmpty(", ", c.Name, c.Issuer)
			if c.Date != "" {
				line += " (" + c.Date + ")"
			}
			if c.Expired {
				line += " [expired]"
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

func heading(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n", strings.ToUpper(title), strings.Repeat("=", len(title)))
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
