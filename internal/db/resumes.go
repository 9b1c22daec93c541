package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/store"
)

// Resumes implements store.Store over the resumes table.
type Resumes struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Resumes)(nil)

// Resumes returns the resume store backed by this database.
func (db *DB) Resumes() *Resumes {
	return &Resumes{pool: db.pool}
}

const resumeColumns = `id, owner_id, title, template, content, status, downloads, created_at, updated_at`

func scanResume(row pgx.Row) (*store.Record, error) {
	var r store.Record
	var content []byte
	var status string
	if err := row.Scan(&r.ID, &r.OwnerID, &r.Title, &r.Template, &content, &status, &r.Downloads, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Status = store.Status(status)
	doc, err := decodeContent(content)
	if err != nil {
		return nil, err
	}
	r.Content = doc
	return &r, nil
}

func decodeContent(content []byte) (document.Document, error) {
	doc := document.New()
	if len(content) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return document.Document{}, fmt.Errorf("failed to decode resume content: %w", err)
	}
	return doc.Normalize(), nil
}

// List returns the owner's resumes, most recently updated first.
func (s *Resumes) List(ctx context.Context, ownerID uuid.UUID) ([]store.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, store.Wrap("list", err)
	}
	defer rows.Close()

	records := []store.Record{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, store.Wrap("scan", err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("list", err)
	}
	return records, nil
}

// Create inserts a draft resume with an empty document.
func (s *Resumes) Create(ctx context.Context, ownerID uuid.UUID, title, template string) (*store.Record, error) {
	content, err := json.Marshal(document.New())
	if err != nil {
		return nil, store.Wrap("create", err)
	}
	r, err := scanResume(s.pool.QueryRow(ctx,
		`INSERT INTO resumes (owner_id, title, template, content, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+resumeColumns,
		ownerID, title, template, content, string(store.StatusDraft),
	))
	if err != nil {
		return nil, store.Wrap("create", err)
	}
	return r, nil
}

// Get returns the resume with id.
func (s *Resumes) Get(ctx context.Context, id uuid.UUID) (*store.Record, error) {
	r, err := scanResume(s.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &store.NotFoundError{ID: id}
		}
		return nil, store.Wrap("get", err)
	}
	return r, nil
}

// Update writes the non-nil fields of u and refreshes updated_at.
func (s *Resumes) Update(ctx context.Context, id uuid.UUID, u store.Update) (*store.Record, error) {
	query, args, err := buildResumeUpdate(id, u)
	if err != nil {
		return nil, store.Wrap("update", err)
	}
	r, err := scanResume(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &store.NotFoundError{ID: id}
		}
		return nil, store.Wrap("update", err)
	}
	return r, nil
}

// buildResumeUpdate assembles the UPDATE statement for the fields set in u.
func buildResumeUpdate(id uuid.UUID, u store.Update) (string, []any, error) {
	sets := []string{}
	args := []any{}
	argNum := 1

	if u.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argNum))
		args = append(args, *u.Title)
		argNum++
	}
	if u.Template != nil {
		sets = append(sets, fmt.Sprintf("template = $%d", argNum))
		args = append(args, *u.Template)
		argNum++
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return "", nil, fmt.Errorf("invalid status %q", *u.Status)
		}
		sets = append(sets, fmt.Sprintf("status = $%d", argNum))
		args = append(args, string(*u.Status))
		argNum++
	}
	if u.Content != nil {
		content, err := json.Marshal(u.Content.Normalize())
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal content: %w", err)
		}
		sets = append(sets, fmt.Sprintf("content = $%d", argNum))
		args = append(args, content)
		argNum++
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE resumes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, resumeColumns)
	args = append(args, id)
	return query, args, nil
}

// Delete removes the resume.
func (s *Resumes) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return store.Wrap("delete", err)
	}
	if result.RowsAffected() == 0 {
		return &store.NotFoundError{ID: id}
	}
	return nil
}

// IncrementDownloads adds one to the download counter.
func (s *Resumes) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `UPDATE resumes SET downloads = downloads + 1 WHERE id = $1`, id)
	if err != nil {
		return store.Wrap("increment downloads for", err)
	}
	if result.RowsAffected() == 0 {
		return &store.NotFoundError{ID: id}
	}
	return nil
}
