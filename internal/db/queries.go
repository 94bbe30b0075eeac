package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/typeid"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Queries is the Postgres document.Store.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

var _ document.Store = (*Queries)(nil)

const listDocuments = `SELECT id, name, version, updated_at FROM documents ORDER BY updated_at DESC, id`

func (q *Queries) List(ctx context.Context) ([]document.Summary, error) {
	rows, err := q.db.Query(ctx, listDocuments)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []document.Summary{}
	for rows.Next() {
		var s document.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

const getDocument = `SELECT id, name, content, version, created_at, updated_at FROM documents WHERE id = $1`

func (q *Queries) Get(ctx context.Context, id string) (*document.Document, error) {
	d, err := scanDocument(q.db.QueryRow(ctx, getDocument, id))
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return d, nil
}

const createDocument = `INSERT INTO documents (id, name, content) VALUES ($1, $2, $3)
RETURNING id, name, content, version, created_at, updated_at`

func (q *Queries) Create(ctx context.Context, name, content string) (*document.Document, error) {
	if err := document.Validate(content); err != nil {
		return nil, err
	}
	d, err := scanDocument(q.db.QueryRow(ctx, createDocument, typeid.NewDocumentID(), name, content))
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return d, nil
}

// saveDocument bumps the version and archives the new content in one
// statement. A zero $3 skips the version check.
const saveDocument = `WITH updated AS (
    UPDATE documents
    SET content = $2, version = version + 1, updated_at = now()
    WHERE id = $1 AND ($3 = 0 OR version = $3)
    RETURNING id, name, content, version, created_at, updated_at
), archived AS (
    INSERT INTO document_versions (id, document_id, version, content)
    SELECT $4, id, version, content FROM updated
)
SELECT id, name, content, version, created_at, updated_at FROM updated`

const documentExists = `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`

func (q *Queries) Save(ctx context.Context, id, content string, baseVersion int) (*document.Document, error) {
	if err := document.Validate(content); err != nil {
		return nil, err
	}
	d, err := scanDocument(q.db.QueryRow(ctx, saveDocument, id, content, baseVersion, typeid.NewVersionID()))
	if errors.Is(err, document.ErrNotFound) && baseVersion > 0 {
		var exists bool
		if qerr := q.db.QueryRow(ctx, documentExists, id).Scan(&exists); qerr != nil {
			return nil, fmt.Errorf("check document %s: %w", id, qerr)
		}
		if exists {
			return nil, document.ErrVersionClash
		}
	}
	if err != nil {
		return nil, fmt.Errorf("save document %s: %w", id, err)
	}
	return d, nil
}

const deleteDocument = `DELETE FROM documents WHERE id = $1`

func (q *Queries) Delete(ctx context.Context, id string) error {
	tag, err := q.db.Exec(ctx, deleteDocument, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var d document.Document
	err := row.Scan(&d.ID, &d.Name, &d.Content, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
