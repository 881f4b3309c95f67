package model

import (
	"time"
)

// Document is one immutable revision of a logical document. All revisions
// sharing a HistoryID form a single history chain; at most one of them is
// non-archived at any time, and that one is the chain's head.
type Document struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	HistoryID string `gorm:"uuid;not null;index"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null"`
	Archived  bool   `gorm:"not null;default:false;index"`
	AuthorID  string `gorm:"uuid;not null"`
	Tags      []*Tag `gorm:"many2many:document_tags;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentTag is the document/tag association row. Writes go through this
// model explicitly; the many2many mapping on Document is only used for
// preloading the tag set.
type DocumentTag struct {
	DocumentID string `gorm:"primaryKey;uuid;not null"`
	TagID      string `gorm:"primaryKey;uuid;not null;index"`
}

func (DocumentTag) TableName() string {
	return "document_tags"
}
