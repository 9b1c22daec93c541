package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

var _ store.Store = (*Client)(nil)

// storeError maps an API failure onto the store error contract.
func storeError(op string, id uuid.UUID, err error) error {
	if StatusCode(err) == http.StatusNotFound {
		return &store.NotFoundError{ID: id}
	}
	return store.Wrap(op, err)
}

func resumePath(id uuid.UUID) string {
	return "/resumes/" + id.String()
}

// List returns the caller's resumes, most recently updated first. The API
// scopes the list to the token's owner; records of any other ownerID are
// dropped.
func (c *Client) List(ctx context.Context, ownerID uuid.UUID) ([]store.Record, error) {
	resp, err := c.ListWithStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]store.Record, 0, len(resp.Resumes))
	for _, r := range resp.Resumes {
		if ownerID == uuid.Nil || r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListWithStats returns the dashboard payload.
func (c *Client) ListWithStats(ctx context.Context) (*types.ResumeListResponse, error) {
	var resp types.ResumeListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/resumes", nil, nil, &resp); err != nil {
		return nil, store.Wrap("list", err)
	}
	return &resp, nil
}

// Create adds an empty draft. ownerID is implied by the token.
func (c *Client) Create(ctx context.Context, _ uuid.UUID, title, template string) (*store.Record, error) {
	var rec store.Record
	req := types.CreateResumeRequest{Title: title, Template: template}
	if err := c.doJSON(ctx, http.MethodPost, "/resumes", nil, req, &rec); err != nil {
		return nil, store.Wrap("create", err)
	}
	return &rec, nil
}

// Get loads one resume.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (*store.Record, error) {
	var rec store.Record
	if err := c.doJSON(ctx, http.MethodGet, resumePath(id), nil, nil, &rec); err != nil {
		return nil, storeError("get", id, err)
	}
	return &rec, nil
}

// Update sends a partial record. Content is written whole.
func (c *Client) Update(ctx context.Context, id uuid.UUID, u store.Update) (*store.Record, error) {
	req, err := types.NewUpdateResumeRequest(u)
	if err != nil {
		return nil, store.Wrap("update", fmt.Errorf("failed to encode content: %w", err))
	}
	var rec store.Record
	if err := c.doJSON(ctx, http.MethodPut, resumePath(id), nil, req, &rec); err != nil {
		return nil, storeError("update", id, err)
	}
	return &rec, nil
}

// Delete removes a resume.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.doJSON(ctx, http.MethodDelete, resumePath(id), nil, nil, nil); err != nil {
		return storeError("delete", id, err)
	}
	return nil
}

// IncrementDownloads bumps the download counter.
func (c *Client) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	if err := c.doJSON(ctx, http.MethodPost, resumePath(id)+"/downloads", nil, nil, nil); err != nil {
		return storeError("count download for", id, err)
	}
	return nil
}

// PatchSection applies one section update server-side and returns the
// stored record.
func (c *Client) PatchSection(ctx context.Context, id uuid.UUID, update document.SectionUpdate) (*store.Record, error) {
	payload, err := sectionPayload(update)
	if err != nil {
		return nil, err
	}
	var rec store.Record
	path := resumePath(id) + "/sections/" + update.Section()
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, payload, &rec); err != nil {
		return nil, storeError("update", id, err)
	}
	return &rec, nil
}

// sectionPayload is the inverse of document.ParseSectionUpdate.
func sectionPayload(update document.SectionUpdate) (any, error) {
	switch u := update.(type) {
	case document.PersonalField:
		return u, nil
	case document.SummaryUpdate:
		return u.Text, nil
	case document.ExperienceUpdate:
		return u.Entries, nil
	case document.EducationUpdate:
		return u.Entries, nil
	case document.SkillsUpdate:
		return u.Skills, nil
	case document.CertificationsUpdate:
		return u.Entries, nil
	default:
		return nil, fmt.Errorf("unsupported section update %T", update)
	}
}

// Export renders a resume server-side. The server counts the download.
func (c *Client) Export(ctx context.Context, id uuid.UUID, format export.Format) (*export.Artifact, error) {
	query := url.Values{"format": {string(format)}}
	resp, err := c.do(ctx, http.MethodPost, resumePath(id)+"/export", query, nil)
	if err != nil {
		return nil, storeError("export", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return &export.Artifact{
		Format:      format,
		Filename:    attachmentName(resp.Header.Get("Content-Disposition"), format),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
		Key:         resp.Header.Get("X-Archive-Key"),
	}, nil
}

func attachmentName(disposition string, format export.Format) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return format.Filename()
}

// Preview returns the rendered HTML of a resume.
func (c *Client) Preview(ctx context.Context, id uuid.UUID) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, resumePath(id)+"/preview", nil, nil)
	if err != nil {
		return "", storeError("preview", id, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read preview: %w", err)
	}
	return string(data), nil
}

// Validation reports field problems of a stored resume.
func (c *Client) Validation(ctx context.Context, id uuid.UUID, strict bool) (*types.ValidationResponse, error) {
	var query url.Values
	if strict {
		query = url.Values{"mode": {"strict"}}
	}
	var resp types.ValidationResponse
	if err := c.doJSON(ctx, http.MethodGet, resumePath(id)+"/validation", query, nil, &resp); err != nil {
		return nil, storeError("validate", id, err)
	}
	return &resp, nil
}

// SuggestSkills searches the skill catalogue, leaving out exclude.
func (c *Client) SuggestSkills(ctx context.Context, q string, exclude []string) (*types.SkillSuggestionsResponse, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	for _, s := range exclude {
		query.Add("exclude", s)
	}
	var resp types.SkillSuggestionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/suggestions/skills", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SampleSummaries returns the sample professional summaries.
func (c *Client) SampleSummaries(ctx context.Context) ([]string, error) {
	var resp types.SummariesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/suggestions/summaries", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Summaries, nil
}

// Dashboard is the signed-in user with their resume list.
type Dashboard struct {
	User    *types.User
	Resumes []store.Record
	Stats   store.Stats
}

// Dashboard fetches the account and the resume list concurrently.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		user *types.User
		list *types.ResumeListResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = c.Me(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = c.ListWithStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Dashboard{User: user, Resumes: list.Resumes, Stats: list.Stats}, nil
}
