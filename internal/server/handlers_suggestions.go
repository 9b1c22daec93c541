package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
)

// handleSkillSuggestions searches the skill catalogue. Repeated ?exclude=
// values are skills the resume already lists.
func (s *Server) handleSkillSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	existing := document.Skills(q["exclude"])
	s.jsonResponse(w, http.StatusOK, types.SkillSuggestionsResponse{
		Query:       q.Get("q"),
		Suggestions: document.SuggestSkills(q.Get("q"), existing),
		Popular:     document.PopularSkills(existing),
	})
}

func (s *Server) handleSummarySuggestions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.SummariesResponse{
		Summaries: append([]string{}, document.SampleSummaries...),
	})
}
