package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/sirupsen/logrus"
)

// ownedResume loads the {id} path record and hides records of other owners
// behind *store.NotFoundError.
func (s *Server) ownedResume(r *http.Request) (uuid.UUID, *store.Record, error) {
	owner, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return owner, nil, &ErrValidation{Field: "id", Message: "invalid resume id"}
	}
	rec, err := s.resumes.Get(r.Context(), id)
	if err != nil {
		return owner, nil, err
	}
	if rec.OwnerID != owner {
		return owner, nil, &store.NotFoundError{ID: id}
	}
	return owner, rec, nil
}

func (s *Server) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":     e.Type,
			"resume_id": e.ResumeID,
		}).Warn("failed to publish event")
	}
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	owner, err := middleware.GetUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records, err := s.resumes.List(r.Context(), owner)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ResumeListResponse{
		Resumes: records,
		Stats:   store.ComputeStats(records),
	})
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	owner, err := middleware.GetUserID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.CreateResumeRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = store.DefaultTitle
	}
	template := strings.TrimSpace(req.Template)
	if template == "" {
		template = store.DefaultTemplate
	}

	rec, err := s.resumes.Create(r.Context(), owner, title, template)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.publish(r.Context(), events.New(events.ResumeCreated, owner, rec.ID))
	s.jsonResponse(w, http.StatusCreated, rec)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	_, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleUpdateResume applies a partial record. Content is checked against the
// resume schema and written whole.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	owner, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateResumeRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	update := store.Update{Title: req.Title, Template: req.Template, Status: req.Status}
	if req.Status != nil && !req.Status.Valid() {
		s.fail(w, r, &ErrValidation{Field: "status", Message: "must be draft or completed"})
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		s.fail(w, r, &ErrValidation{Field: "title", Message: "must not be blank"})
		return
	}
	if len(req.Content) > 0 && !bytes.Equal(bytes.TrimSpace(req.Content), []byte("null")) {
		doc, err := decodeContent(req.Content)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		update.Content = &doc
	}
	if update.Empty() {
		s.jsonResponse(w, http.StatusOK, rec)
		return
	}

	updated, err := s.resumes.Update(r.Context(), rec.ID, update)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.publish(r.Context(), events.New(events.ResumeUpdated, owner, rec.ID))
	s.jsonResponse(w, http.StatusOK, updated)
}

func decodeContent(raw []byte) (document.Document, error) {
	if err := schemas.ValidateResume(raw); err != nil {
		return document.Document{}, err
	}
	var doc document.Document
	if err := decodeStrict(raw, &doc); err != nil {
		return document.Document{}, &ErrValidation{Field: "content", Message: err.Error()}
	}
	if err := document.CheckIDs(doc); err != nil {
		return document.Document{}, err
	}
	return doc.Normalize(), nil
}

// handlePatchSection applies one section update server-side and stores the
// resulting document whole.
func (s *Server) handlePatchSection(w http.ResponseWriter, r *http.Request) {
	owner, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	update, err := document.ParseSectionUpdate(r.PathValue("section"), raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := document.UpdateSection(rec.Content, update)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.resumes.Update(r.Context(), rec.ID, store.Update{Content: &doc})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.publish(r.Context(), events.New(events.ResumeUpdated, owner, rec.ID))
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	owner, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.resumes.Delete(r.Context(), rec.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.publish(r.Context(), events.New(events.ResumeDeleted, owner, rec.ID))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIncrementDownloads(w http.ResponseWriter, r *http.Request) {
	_, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.resumes.IncrementDownloads(r.Context(), rec.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport counts a download, then renders the artifact in the requested
// format and returns it as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	owner, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.resumes.IncrementDownloads(r.Context(), rec.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	artifact, err := s.exporter.Export(r.Context(), export.Request{
		OwnerID:  owner,
		ResumeID: rec.ID,
		Document: rec.Content,
		Format:   format,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	e := events.New(events.ResumeExported, owner, rec.ID)
	e.Format = string(format)
	s.publish(r.Context(), e)

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	if artifact.Key != "" {
		w.Header().Set("X-Archive-Key", artifact.Key)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		s.log.WithError(err).Warn("failed to write export")
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	_, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	html, err := rendering.RenderHTML(rec.Content, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

// handleValidation reports field problems without blocking anything.
// ?mode=strict applies the editing-form rules.
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	_, rec, err := s.ownedResume(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mode := document.ModeBase
	if r.URL.Query().Get("mode") == "strict" {
		mode = document.ModeStrict
	}
	errs := document.Validate(rec.Content, mode)
	if errs == nil {
		errs = document.ValidationErrors{}
	}
	s.jsonResponse(w, http.StatusOK, types.ValidationResponse{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Guidance: document.SummaryGuidance(rec.Content.Summary),
	})
}
