package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	v1 "github.com/naeri/kokoto-httpd/apis/v1"
	"github.com/naeri/kokoto-httpd/internal/cache"
	"github.com/naeri/kokoto-httpd/internal/compress"
	"github.com/naeri/kokoto-httpd/internal/diff"
	"github.com/naeri/kokoto-httpd/internal/ledger"
	"github.com/naeri/kokoto-httpd/internal/model"
	"github.com/naeri/kokoto-httpd/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	cacheTTL        = 5 * time.Minute
)

// NewDocumentService creates a new DocumentService. The cache may be nil,
// which disables read-through caching.
func NewDocumentService(compress compress.Compress, store store.Store, cache *cache.Redis) *DocumentService {
	return &DocumentService{
		compress: compress,
		store:    store,
		cache:    cache,
		ledger:   ledger.New(),
	}
}

// DocumentService owns the revision chains: creating the first revision of a
// logical document, superseding the head on update, archiving, lookups and
// comparisons. Every mutating call runs in a single store transaction
// together with the tag count adjustments it causes, so the chain never
// observes zero or two heads for one history.
type DocumentService struct {
	compress compress.Compress
	store    store.Store
	cache    *cache.Redis
	ledger   *ledger.Ledger
}

// CreateDocument creates the first revision of a new history chain.
func (d *DocumentService) CreateDocument(ctx context.Context, request *v1.CreateDocumentRequest) (*v1.CreateDocumentResponse, error) {
	content, err := d.compress.Encode([]byte(normalize(request.Content)))
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:        newID(),
		HistoryID: newID(),
		Title:     normalize(request.Title),
		Content:   string(content),
		AuthorID:  request.AuthorId,
	}

	err = d.store.Transaction(ctx, func(tx store.Store) error {
		return d.createRevision(ctx, tx, doc, request.Tags)
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("created document %s history %s", doc.ID, doc.HistoryID)

	proto, err := d.documentProto(doc)
	if err != nil {
		return nil, err
	}

	return &v1.CreateDocumentResponse{Document: proto}, nil
}

// UpdateDocument archives the head revision with the given ID and creates
// its replacement on the same history chain. It fails with
// store.ErrDocumentNotFound when the ID does not name a live head, e.g. when
// a concurrent update already archived it.
func (d *DocumentService) UpdateDocument(ctx context.Context, request *v1.UpdateDocumentRequest) (*v1.UpdateDocumentResponse, error) {
	content, err := d.compress.Encode([]byte(normalize(request.Content)))
	if err != nil {
		return nil, err
	}

	var next *model.Document
	err = d.store.Transaction(ctx, func(tx store.Store) error {
		head, err := d.archiveHead(ctx, tx, request.DocumentId)
		if err != nil {
			return err
		}

		next = &model.Document{
			ID:        newID(),
			HistoryID: head.HistoryID,
			Title:     normalize(request.Title),
			Content:   string(content),
			AuthorID:  request.AuthorId,
		}

		return d.createRevision(ctx, tx, next, request.Tags)
	})
	if err != nil {
		return nil, err
	}

	d.invalidate(ctx, request.DocumentId)
	logrus.Infof("updated document %s, new head %s", request.DocumentId, next.ID)

	proto, err := d.documentProto(next)
	if err != nil {
		return nil, err
	}

	return &v1.UpdateDocumentResponse{Document: proto}, nil
}

// ArchiveDocument archives the head revision without a replacement, closing
// the history chain. Closed chains stay queryable but cannot be reopened.
func (d *DocumentService) ArchiveDocument(ctx context.Context, request *v1.ArchiveDocumentRequest) (*v1.ArchiveDocumentResponse, error) {
	err := d.store.Transaction(ctx, func(tx store.Store) error {
		_, err := d.archiveHead(ctx, tx, request.DocumentId)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.invalidate(ctx, request.DocumentId)
	logrus.Infof("archived document %s", request.DocumentId)

	return &v1.ArchiveDocumentResponse{DocumentId: request.DocumentId}, nil
}

// GetDocument retrieves a revision by ID regardless of archived state.
func (d *DocumentService) GetDocument(ctx context.Context, request *v1.GetDocumentRequest) (*v1.GetDocumentResponse, error) {
	if d.cache != nil {
		var cached v1.Document
		if err := d.cache.GetDocument(ctx, request.DocumentId, &cached); err == nil {
			return &v1.GetDocumentResponse{Document: &cached}, nil
		}
	}

	doc, err := d.store.GetDocument(ctx, request.DocumentId)
	if err != nil {
		return nil, err
	}

	proto, err := d.documentProto(doc)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if err := d.cache.SetDocument(ctx, doc.ID, proto, cacheTTL); err != nil {
			logrus.Errorf("error caching document %s: %v", doc.ID, err)
		}
	}

	return &v1.GetDocumentResponse{Document: proto}, nil
}

// ListDocuments lists revisions. With a HistoryId it returns the full chain
// including archived revisions; with a TagId the live revisions attached to
// the tag; otherwise all revisions page by page. The history and tag modes
// fail with store.ErrDocumentNotFound when nothing matches.
func (d *DocumentService) ListDocuments(ctx context.Context, request *v1.ListDocumentsRequest) (*v1.ListDocumentsResponse, error) {
	switch {
	case request.HistoryId != "":
		docs, err := d.store.ListDocumentsByHistory(ctx, request.HistoryId)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, store.ErrDocumentNotFound
		}
		return d.listResponse(docs, "")

	case request.TagId != "":
		docs, err := d.store.ListDocumentsByTag(ctx, request.TagId)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, store.ErrDocumentNotFound
		}
		return d.listResponse(docs, "")

	default:
		docs, err := d.store.ListDocuments(ctx, request.Cursor, pageLimit(request.Limit))
		if err != nil {
			return nil, err
		}
		return d.listResponse(docs, nextCursor(docs))
	}
}

// CompareDocuments fetches two revisions, archived or not, and returns the
// block diff of their contents in document order.
func (d *DocumentService) CompareDocuments(ctx context.Context, request *v1.CompareDocumentsRequest) (*v1.CompareDocumentsResponse, error) {
	base, err := d.store.GetDocument(ctx, request.BaseId)
	if err != nil {
		return nil, err
	}

	target, err := d.store.GetDocument(ctx, request.TargetId)
	if err != nil {
		return nil, err
	}

	baseContent, err := d.compress.Decode([]byte(base.Content))
	if err != nil {
		return nil, err
	}

	targetContent, err := d.compress.Decode([]byte(target.Content))
	if err != nil {
		return nil, err
	}

	segments := diff.Blocks(string(baseContent), string(targetContent))
	proto := make([]*v1.DiffSegment, 0, len(segments))
	for _, segment := range segments {
		proto = append(proto, &v1.DiffSegment{
			Kind: string(segment.Kind),
			Text: segment.Text,
		})
	}

	return &v1.CompareDocumentsResponse{Segments: proto}, nil
}

// createRevision persists a revision and attaches its tags on the tx store.
func (d *DocumentService) createRevision(ctx context.Context, tx store.Store, doc *model.Document, inputs []*v1.TagInput) error {
	tags, err := d.ledger.AttachAll(ctx, tx, ledgerInputs(inputs))
	if err != nil {
		return err
	}
	doc.Tags = tags

	if err := tx.CreateDocument(ctx, doc); err != nil {
		return err
	}

	tagIDs := make([]string, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	return tx.CreateDocumentTags(ctx, doc.ID, tagIDs)
}

// archiveHead looks up the live revision with the given ID, detaches its
// tags from the ledger and marks it archived. The row stays locked until the
// surrounding transaction commits, so concurrent writers on the same chain
// serialize here.
func (d *DocumentService) archiveHead(ctx context.Context, tx store.Store, id string) (*model.Document, error) {
	head, err := tx.GetActiveDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, tag := range head.Tags {
		if err := d.ledger.Detach(ctx, tx, tag.ID); err != nil {
			return nil, err
		}
	}

	head.Archived = true
	if err := tx.UpdateDocument(ctx, head); err != nil {
		return nil, err
	}

	return head, nil
}

func (d *DocumentService) listResponse(docs []*model.Document, cursor string) (*v1.ListDocumentsResponse, error) {
	protos := make([]*v1.Document, 0, len(docs))
	for _, doc := range docs {
		proto, err := d.documentProto(doc)
		if err != nil {
			return nil, err
		}
		protos = append(protos, proto)
	}

	return &v1.ListDocumentsResponse{
		Documents:  protos,
		NextCursor: cursor,
	}, nil
}

// documentProto materializes a revision for callers, decoding the stored
// content and resolving the attached tags.
func (d *DocumentService) documentProto(doc *model.Document) (*v1.Document, error) {
	content, err := d.compress.Decode([]byte(doc.Content))
	if err != nil {
		return nil, err
	}

	tags := make([]*v1.Tag, 0, len(doc.Tags))
	for _, tag := range doc.Tags {
		tags = append(tags, tagProto(tag))
	}

	return &v1.Document{
		Id:        doc.ID,
		HistoryId: doc.HistoryID,
		Title:     doc.Title,
		Content:   string(content),
		Archived:  doc.Archived,
		AuthorId:  doc.AuthorID,
		Tags:      tags,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (d *DocumentService) invalidate(ctx context.Context, id string) {
	if d.cache == nil {
		return
	}
	if err := d.cache.DeleteDocument(ctx, id); err != nil {
		logrus.Errorf("error invalidating document %s: %v", id, err)
	}
}

// normalize maps blank or whitespace-only input to the empty string and
// leaves everything else untouched.
func normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}

func ledgerInputs(inputs []*v1.TagInput) []ledger.Input {
	out := make([]ledger.Input, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, ledger.Input{Title: in.Title, Color: in.Color})
	}
	return out
}

func pageLimit(limit int32) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return int(limit)
}

// newID returns a time-ordered (v7) uuid. Revision ids sort by creation
// time, which is what makes the listing cursor mean "revisions created
// after this one".
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// nextCursor returns the highest revision ID in the page; passing it back
// restricts a later listing to revisions created afterwards.
func nextCursor(docs []*model.Document) string {
	cursor := ""
	for _, doc := range docs {
		if doc.ID > cursor {
			cursor = doc.ID
		}
	}
	return cursor
}
