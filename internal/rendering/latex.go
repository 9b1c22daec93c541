package rendering

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/resume-builder/internal/document"
)

// TemplateData is passed to LaTeX templates. Every string is already escaped.
type TemplateData struct {
	Name           string
	Contact        string
	Summary        string
	Companies      []CompanySection
	Skills         string
	Education      []EducationView
	Certifications []CertificationView
	Headings       headings
}

// CompanySection groups the roles held at one company.
type CompanySection struct {
	Company string
	Roles   []RoleSection
}

// RoleSection is a role at a company with its merged date ranges.
type RoleSection struct {
	Role       string
	DateRanges string // e.g. "2019-01 -- 2020-06, 2021-02 -- Present"
	Bullets    []string
}

type dateSpan struct {
	Start string
	End   string
}

// RenderLaTeX renders doc with the built-in LaTeX template.
func RenderLaTeX(doc document.Document, now time.Time) (string, error) {
	tmpl, err := parseTemplateFS("templates/resume.tex.tmpl")
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, doc, now)
}

// RenderLaTeXFile renders doc with the template at templatePath.
func RenderLaTeXFile(doc document.Document, templatePath string, now time.Time) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, doc, now)
}

func executeLaTeX(tmpl *template.Template, doc document.Document, now time.Time) (string, error) {
	data := buildTemplateData(ExportView(doc, now))
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

func latexFuncs() template.FuncMap {
	return template.FuncMap{"escape": EscapeLaTeX}
}

func parseTemplateFS(name string) (*template.Template, error) {
	content, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, &TemplateError{Message: fmt.Sprintf("built-in template missing: %s", name), Cause: err}
	}
	return parseTemplateContent(string(content))
}

func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Message: fmt.Sprintf("template file not found: %s", templatePath), Cause: err}
		}
		return nil, &TemplateError{Message: fmt.Sprintf("failed to read template file: %s", templatePath), Cause: err}
	}
	return parseTemplateContent(string(content))
}

func parseTemplateContent(content string) (*template.Template, error) {
	tmpl, err := template.New("resume").Funcs(latexFuncs()).Parse(content)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

func buildTemplateData(v View) *TemplateData {
	data := &TemplateData{
		Name:      EscapeLaTeX(v.Name),
		Contact:   EscapeLaTeX(joinNonEmpty(" | ", v.Email, v.Phone, v.Location, v.Website)),
		Summary:   EscapeLaTeX(v.Summary),
		Companies: groupByCompanyAndRole(v.Experience),
		Headings: headings{
			Summary:        HeadingSummary,
			Experience:     HeadingExperience,
			Skills:         HeadingSkills,
			Education:      HeadingEducation,
			Certifications: HeadingCertifications,
		},
	}

	skills := make([]string, len(v.Skills))
	for i, s := range v.Skills {
		skills[i] = EscapeLaTeX(s)
	}
	data.Skills = strings.Join(skills, ", ")

	for _, e := range v.Education {
		data.Education = append(data.Education, EducationView{
			Degree:      EscapeLaTeX(e.Degree),
			Institution: EscapeLaTeX(e.Institution),
			Date:        EscapeLaTeX(e.Date),
		})
	}
	for _, c := range v.Certifications {
		data.Certifications = append(data.Certifications, CertificationView{
			Name:   EscapeLaTeX(c.Name),
			Issuer: EscapeLaTeX(c.Issuer),
			Date:   EscapeLaTeX(c.Date),
		})
	}
	return data
}

type roleKey struct {
	Company string
	Role    string
}

type roleEntry struct {
	bullets []string
	spans   []dateSpan
}

// groupByCompanyAndRole merges entries that share a company and title, keeping
// first-appearance order, then orders companies by most recent end date with
// ongoing roles first.
func groupByCompanyAndRole(entries []ExperienceView) []CompanySection {
	if len(entries) == 0 {
		return nil
	}

	var companyOrder []string
	roleOrder := make(map[string][]string)
	roles := make(map[roleKey]*roleEntry)
	latestEnd := make(map[string]string)

	for _, e := range entries {
		key := roleKey{Company: e.Company, Role: e.Title}
		if _, ok := roleOrder[e.Company]; !ok {
			companyOrder = append(companyOrder, e.Company)
			roleOrder[e.Company] = nil
		}
		r, ok := roles[key]
		if !ok {
			r = &roleEntry{}
			roles[key] = r
			roleOrder[e.Company] = append(roleOrder[e.Company], e.Title)
		}

		end := e.EndDate
		if e.Current {
			end = "present"
		}
		r.spans = append(r.spans, dateSpan{Start: e.StartDate, End: end})
		if laterEnd(end, latestEnd[e.Company]) {
			latestEnd[e.Company] = end
		}

		if e.Description != "" {
			r.bullets = append(r.bullets, EscapeLaTeX(e.Description))
		}
		for _, a := range e.Achievements {
			r.bullets = append(r.bullets, EscapeLaTeX(a))
		}
	}

	companies := make([]CompanySection, 0, len(companyOrder))
	for _, company := range companyOrder {
		section := CompanySection{Company: EscapeLaTeX(company)}
		for _, title := range roleOrder[company] {
			r := roles[roleKey{Company: company, Role: title}]
			section.Roles = append(section.Roles, RoleSection{
				Role:       EscapeLaTeX(title),
				DateRanges: mergeDateRanges(r.spans),
				Bullets:    r.bullets,
			})
		}
		companies = append(companies, section)
	}

	order := make(map[string]int, len(companyOrder))
	for i, c := range companyOrder {
		order[EscapeLaTeX(c)] = i
	}
	ends := make(map[string]string, len(latestEnd))
	for c, end := range latestEnd {
		ends[EscapeLaTeX(c)] = end
	}
	sort.SliceStable(companies, func(i, j int) bool {
		ei, ej := ends[companies[i].Company], ends[companies[j].Company]
		if ei == ej {
			return order[companies[i].Company] < order[companies[j].Company]
		}
		return laterEnd(ei, ej)
	})
	return companies
}

// laterEnd reports whether end date a sorts before b. "present" is latest;
// YYYY-MM strings compare lexicographically; unknown dates sort last.
func laterEnd(a, b string) bool {
	switch {
	case a == b:
		return false
	case a == "present":
		return true
	case b == "present":
		return false
	case b == "":
		return a != ""
	case a == "":
		return false
	}
	return a > b
}

// mergeDateRanges drops duplicate spans, sorts by start and joins them.
func mergeDateRanges(spans []dateSpan) string {
	seen := make(map[dateSpan]bool)
	var unique []dateSpan
	for _, s := range spans {
		if s.Start == "" && s.End == "" {
			continue
		}
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}
	if len(unique) == 0 {
		return ""
	}

	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Start < unique[j].Start })

	parts := make([]string, len(unique))
	for i, s := range unique {
		end := EscapeLaTeX(s.End)
		if s.End == "present" {
			end = "Present"
		}
		parts[i] = EscapeLaTeX(s.Start) + " -- " + end
	}
	return strings.Join(parts, ", ")
}
