package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/jonathan/resume-builder/internal/document"
)

//go:embed templates
var templateFS embed.FS

var previewTemplate = template.Must(template.ParseFS(templateFS, "templates/preview.html.tmpl"))

type headings struct {
	Summary, Experience, Skills, Education, Certifications, EmptyExperience string
}

type htmlData struct {
	View
	Headings headings
}

// RenderHTML renders the live preview of doc as a standalone HTML page.
func RenderHTML(doc document.Document, now time.Time) (string, error) {
	data := htmlData{
		View: PreviewView(doc, now),
		Headings: headings{
			Summary:         HeadingSummary,
			Experience:      HeadingExperience,
			Skills:          HeadingSkills,
			Education:       HeadingEducation,
			Certifications:  HeadingCertifications,
			EmptyExperience: EmptyExperienceHint,
		},
	}

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return "", &TemplateError{Message: "failed to execute preview template", Cause: err}
	}
	return buf.String(), nil
}
