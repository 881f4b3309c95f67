package store

import (
	"context"
	"errors"

	"github.com/naeri/kokoto-httpd/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// forUpdate adds a row lock on dialects that support it. sqlite rejects
// FOR UPDATE and serializes writers on its own.
func (g *GormStore) forUpdate(tx *gorm.DB) *gorm.DB {
	if g.db.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (g *GormStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error
}

func (g *GormStore) CreateDocumentTags(ctx context.Context, docID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]*model.DocumentTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &model.DocumentTag{DocumentID: docID, TagID: tagID})
	}

	return g.db.WithContext(ctx).Create(rows).Error
}

func (g *GormStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (g *GormStore) GetActiveDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := g.forUpdate(g.db.WithContext(ctx)).
		Preload("Tags").
		Where("id = ? AND archived = ?", id, false).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (g *GormStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Save(doc).Error
}

func (g *GormStore) ListDocuments(ctx context.Context, cursor string, limit int) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).
		Preload("Tags").
		Where("id > ?", cursor).
		Order("updated_at desc").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}

func (g *GormStore) ListDocumentsByHistory(ctx context.Context, historyID string) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).
		Preload("Tags").
		Where("history_id = ?", historyID).
		Order("updated_at desc").
		Find(&docs).Error
	return docs, err
}

func (g *GormStore) ListDocumentsByTag(ctx context.Context, tagID string) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).
		Preload("Tags").
		Joins("JOIN document_tags ON document_tags.document_id = documents.id").
		Where("document_tags.tag_id = ? AND documents.archived = ?", tagID, false).
		Order("documents.updated_at desc").
		Find(&docs).Error
	return docs, err
}

func (g *GormStore) CreateTag(ctx context.Context, tag *model.Tag) error {
	return g.db.WithContext(ctx).Create(tag).Error
}

func (g *GormStore) GetTag(ctx context.Context, id string) (*model.Tag, error) {
	var tag model.Tag
	err := g.forUpdate(g.db.WithContext(ctx)).Where("id = ?", id).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

func (g *GormStore) GetTagByTitle(ctx context.Context, title string) (*model.Tag, error) {
	var tag model.Tag
	err := g.forUpdate(g.db.WithContext(ctx)).Where("title = ?", title).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

func (g *GormStore) UpdateTag(ctx context.Context, tag *model.Tag) error {
	return g.db.WithContext(ctx).Save(tag).Error
}

func (g *GormStore) DeleteTag(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Tag{}).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
