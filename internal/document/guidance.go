package document

import (
	"sort"
	"strings"
)

// Summary length band, in words.
const (
	SummaryMinWords = 20
	SummaryMaxWords = 80
)

// MaxSkillSuggestions caps SuggestSkills results.
const MaxSkillSuggestions = 10

// WordCount counts whitespace-separated runs in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Guidance is a non-blocking hint about summary length.
type Guidance struct {
	Words   int    `json:"words"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// SummaryGuidance reports where the summary falls relative to the 20-80 word band.
func SummaryGuidance(summary string) Guidance {
	n := WordCount(summary)
	switch {
	case n < SummaryMinWords:
		return Guidance{Words: n, Message: "Too short - add more details"}
	case n > SummaryMaxWords:
		return Guidance{Words: n, Message: "Consider making it more concise"}
	default:
		return Guidance{Words: n, OK: true, Message: "Perfect length"}
	}
}

// SampleSummaries are the canned summaries offered in place of generated ones.
var SampleSummaries = []string{
	"Experienced software engineer with 5+ years developing scalable web applications. Proven track record in React, Node.js, and cloud architecture. Passionate about clean code and user experience.",
	"Results-driven marketing professional with expertise in digital campaigns and brand strategy. Successfully increased customer engagement by 40% through data-driven marketing initiatives.",
	"Dedicated project manager with PMP certification and experience leading cross-functional teams. Skilled in Agile methodologies and stakeholder management, delivering projects on time and within budget.",
}

// skillCatalog is the suggestion pool searched by SuggestSkills.
var skillCatalog = []string{
	// technical
	"JavaScript", "TypeScript", "React", "Node.js", "Python", "Java", "C++", "HTML/CSS",
	"SQL", "MongoDB", "PostgreSQL", "Redis", "AWS", "Docker", "Kubernetes", "Git",
	"REST APIs", "GraphQL", "Microservices", "Machine Learning", "Data Analysis",
	// design
	"UI/UX Design", "Figma", "Adobe Creative Suite", "Sketch", "Prototyping", "Wireframing",
	"User Research", "Design Systems", "Responsive Design", "Accessibility",
	// soft
	"Leadership", "Project Management", "Team Management", "Communication", "Problem Solving",
	"Critical Thinking", "Adaptability", "Time Management", "Collaboration", "Mentoring",
	// industry
	"Agile/Scrum", "DevOps", "CI/CD", "Testing", "Quality Assurance", "Product Strategy",
	"Market Research", "Sales", "Customer Service", "Digital Marketing", "SEO/SEM",
}

// MaxPopularSkills caps PopularSkills results.
const MaxPopularSkills = 8

// PopularSkills returns the first catalogue skills not already in existing.
func PopularSkills(existing Skills) []string {
	out := []string{}
	for _, skill := range skillCatalog {
		if existing.Contains(skill) {
			continue
		}
		out = append(out, skill)
		if len(out) == MaxPopularSkills {
			break
		}
	}
	return out
}

// SkillCatalog returns a copy of the suggestion pool, sorted.
func SkillCatalog() []string {
	out := append([]string{}, skillCatalog...)
	sort.Strings(out)
	return out
}

// SuggestSkills returns catalogue skills containing query (case-insensitive)
// that are not already in existing, in catalogue order and capped at
// MaxSkillSuggestions. An empty query matches nothing.
func SuggestSkills(query string, existing Skills) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []string{}
	}
	out := []string{}
	for _, skill := range skillCatalog {
		if existing.Contains(skill) {
			continue
		}
		if strings.Contains(strings.ToLower(skill), q) {
			out = append(out, skill)
			if len(out) == MaxSkillSuggestions {
				break
			}
		}
	}
	return out
}
