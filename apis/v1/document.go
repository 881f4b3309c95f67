package v1

import "time"

// Document is the materialized view of one revision, with tags resolved and
// content decoded.
type Document struct {
	Id        string    `json:"id"`
	HistoryId string    `json:"historyId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Archived  bool      `json:"archived"`
	AuthorId  string    `json:"authorId"`
	Tags      []*Tag    `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateDocumentRequest struct {
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	AuthorId string      `json:"authorId"`
	Tags     []*TagInput `json:"tags"`
}

type CreateDocumentResponse struct {
	Document *Document `json:"document"`
}

type UpdateDocumentRequest struct {
	DocumentId string      `json:"documentId"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	AuthorId   string      `json:"authorId"`
	Tags       []*TagInput `json:"tags"`
	// Revision is accepted from clients but carries no concurrency
	// semantics; it is neither persisted nor validated against.
	Revision int64 `json:"revision"`
}

type UpdateDocumentResponse struct {
	Document *Document `json:"document"`
}

type ArchiveDocumentRequest struct {
	DocumentId string `json:"documentId"`
}

type ArchiveDocumentResponse struct {
	DocumentId string `json:"documentId"`
}

type GetDocumentRequest struct {
	DocumentId string `json:"documentId"`
}

type GetDocumentResponse struct {
	Document *Document `json:"document"`
}

// ListDocumentsRequest selects one listing mode: HistoryId returns the full
// chain of one logical document, TagId returns the live revisions attached
// to a tag, and otherwise the date-ordered listing. In the date mode Cursor
// restricts the result to revisions created after the one it names and
// Limit caps the page size; no total count is computed.
type ListDocumentsRequest struct {
	Cursor    string `json:"cursor"`
	Limit     int32  `json:"limit"`
	HistoryId string `json:"historyId"`
	TagId     string `json:"tagId"`
}

type ListDocumentsResponse struct {
	Documents []*Document `json:"documents"`
	// NextCursor continues the date-ordered listing; empty in the history
	// and tag modes, which always return the full match set.
	NextCursor string `json:"nextCursor"`
}

type CompareDocumentsRequest struct {
	BaseId   string `json:"baseId"`
	TargetId string `json:"targetId"`
}

type CompareDocumentsResponse struct {
	Segments []*DiffSegment `json:"segments"`
}

// DiffSegment is one block of a revision comparison. Kind is one of
// "unchanged", "added" or "removed".
type DiffSegment struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}
