package store

import (
	"context"
	"errors"

	"github.com/naeri/kokoto-httpd/internal/model"
)

var (
	// ErrDocumentNotFound is returned when no revision matches the lookup.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrTagNotFound is returned when no tag matches the lookup.
	ErrTagNotFound = errors.New("tag not found")
)

type Store interface {
	DocumentStore
	TagStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type DocumentStore interface {
	// CreateDocument persists a new revision row.
	CreateDocument(ctx context.Context, doc *model.Document) error
	// CreateDocumentTags attaches tags to a revision.
	CreateDocumentTags(ctx context.Context, docID string, tagIDs []string) error
	// GetDocument retrieves a revision by ID regardless of archived state.
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// GetActiveDocument retrieves the non-archived revision with the given ID,
	// locking the row when called inside a transaction.
	GetActiveDocument(ctx context.Context, id string) (*model.Document, error)
	// UpdateDocument updates a revision row.
	UpdateDocument(ctx context.Context, doc *model.Document) error
	// ListDocuments retrieves revisions with ID greater than the cursor.
	ListDocuments(ctx context.Context, cursor string, limit int) ([]*model.Document, error)
	// ListDocumentsByHistory retrieves the full chain for a history ID.
	ListDocumentsByHistory(ctx context.Context, historyID string) ([]*model.Document, error)
	// ListDocumentsByTag retrieves the live revisions attached to a tag.
	ListDocumentsByTag(ctx context.Context, tagID string) ([]*model.Document, error)
}

type TagStore interface {
	// CreateTag persists a new tag row.
	CreateTag(ctx context.Context, tag *model.Tag) error
	// GetTag retrieves a tag by ID, locking the row when called inside a
	// transaction.
	GetTag(ctx context.Context, id string) (*model.Tag, error)
	// GetTagByTitle retrieves a tag by its unique title, locking the row when
	// called inside a transaction.
	GetTagByTitle(ctx context.Context, title string) (*model.Tag, error)
	// UpdateTag updates a tag row.
	UpdateTag(ctx context.Context, tag *model.Tag) error
	// DeleteTag deletes a tag row by ID.
	DeleteTag(ctx context.Context, id string) error
}
