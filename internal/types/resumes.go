package types

import (
	"encoding/json"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/store"
)

// CreateResumeRequest creates an empty draft. Blank fields take defaults.
type CreateResumeRequest struct {
	Title    string `json:"title"`
	Template string `json:"template,omitempty"`
}

// UpdateResumeRequest is a partial record. Content is kept raw so the server
// can check it against the resume schema before decoding.
type UpdateResumeRequest struct {
	Title    *string         `json:"title,omitempty"`
	Template *string         `json:"template,omitempty"`
	Status   *store.Status   `json:"status,omitempty"`
	Content  json.RawMessage `json:"content,omitempty"`
}

// NewUpdateResumeRequest encodes a store.Update for the wire.
func NewUpdateResumeRequest(u store.Update) (UpdateResumeRequest, error) {
	req := UpdateResumeRequest{Title: u.Title, Template: u.Template, Status: u.Status}
	if u.Content != nil {
		raw, err := json.Marshal(u.Content.Normalize())
		if err != nil {
			return req, err
		}
		req.Content = raw
	}
	return req, nil
}

// ResumeListResponse is the dashboard payload.
type ResumeListResponse struct {
	Resumes []store.Record `json:"resumes"`
	Stats   store.Stats    `json:"stats"`
}

// ValidationResponse reports field problems and summary guidance. It never
// blocks a save.
type ValidationResponse struct {
	Valid    bool                      `json:"valid"`
	Errors   document.ValidationErrors `json:"errors"`
	Guidance document.Guidance         `json:"guidance"`
}

// SkillSuggestionsResponse answers GET /suggestions/skills.
type SkillSuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Popular     []string `json:"popular"`
}

// SummariesResponse answers GET /suggestions/summaries.
type SummariesResponse struct {
	Summaries []string `json:"summaries"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail names one rejected field of a request body.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
