package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/rendering"
)

// Artifact is a rendered export ready for download.
type Artifact struct {
	Format      Format
	Filename    string
	ContentType string
	Data        []byte
	// Key is the archive object key, empty when archiving is off or failed.
	Key string
}

// Request describes one export.
type Request struct {
	OwnerID  uuid.UUID
	ResumeID uuid.UUID
	Document document.Document
	Format   Format
}

// Archiver stores a copy of each artifact.
type Archiver interface {
	Archive(ctx context.Context, key string, a *Artifact) error
}

// Exporter renders artifacts. PDF and DOCX are placeholder bytes.
type Exporter struct {
	archiver Archiver
	log      logrus.FieldLogger
	now      func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithArchiver archives every artifact after rendering. Archive failures are
// logged and do not fail the export.
func WithArchiver(a Archiver) Option {
	return func(e *Exporter) { e.archiver = a }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Exporter) { e.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New returns an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{log: logrus.StandardLogger(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders req.Document in req.Format.
func (e *Exporter) Export(ctx context.Context, req Request) (*Artifact, error) {
	data, err := e.render(req.Document, req.Format)
	if err != nil {
		return nil, err
	}
	a := &Artifact{
		Format:      req.Format,
		Filename:    req.Format.Filename(),
		ContentType: req.Format.ContentType(),
		Data:        data,
	}

	if e.archiver != nil {
		key := ArchiveKey(req, e.now())
		if err := e.archiver.Archive(ctx, key, a); err != nil {
			e.log.WithError(err).WithField("key", key).Warn("failed to archive export")
		} else {
			a.Key = key
		}
	}
	return a, nil
}

func (e *Exporter) render(doc document.Document, f Format) ([]byte, error) {
	now := e.now()
	switch f {
	case FormatPDF, FormatDOCX:
		return placeholder(doc, f), nil
	case FormatTXT:
		return []byte(rendering.RenderText(doc, now)), nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc.Normalize(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode resume: %w", err)
		}
		return append(data, '\n'), nil
	case FormatTeX:
		out, err := rendering.RenderLaTeX(doc, now)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
	return nil, &UnsupportedFormatError{Format: string(f)}
}

func placeholder(doc document.Document, f Format) []byte {
	name := doc.Personal.FullName()
	if name == "" {
		name = "Untitled"
	}
	if f == FormatPDF {
		return []byte(fmt.Sprintf("%%PDF-1.4\n%% placeholder export for %s\n%%%%EOF\n", name))
	}
	return []byte(fmt.Sprintf("placeholder %s export for %s\n", f.Label(), name))
}

// ArchiveKey is exports/<owner>/<resume>/<unix>-<filename>.
func ArchiveKey(req Request, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s/%d-%s", req.OwnerID, req.ResumeID, at.Unix(), req.Format.Filename())
}
