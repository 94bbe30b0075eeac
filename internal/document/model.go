package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inamate/svgedit/internal/svgdom"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrInvalidContent = errors.New("invalid svg content")
	ErrVersionClash   = errors.New("document version changed")
)

// Document is a stored SVG document. Content is the serialized markup of its
// root svg element.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is a Document without its content, as returned by listings.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Document) Summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, Version: d.Version, UpdatedAt: d.UpdatedAt}
}

// Store persists documents. Save bumps Version; when baseVersion is
// positive and no longer current it fails with ErrVersionClash.
type Store interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (*Document, error)
	Create(ctx context.Context, name, content string) (*Document, error)
	Save(ctx context.Context, id, content string, baseVersion int) (*Document, error)
	Delete(ctx context.Context, id string) error
}

// Validate checks that content parses to an svg root.
func Validate(content string) error {
	if _, err := svgdom.Parse(content); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return nil
}
