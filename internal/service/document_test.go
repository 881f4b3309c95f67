package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	v1 "github.com/naeri/kokoto-httpd/apis/v1"
	"github.com/naeri/kokoto-httpd/internal/compress"
	"github.com/naeri/kokoto-httpd/internal/store"
	"github.com/naeri/kokoto-httpd/internal/tester"
)

func newTestService() *DocumentService {
	return NewDocumentService(compress.NewNop(), store.NewGormStore(tester.TestDB()), nil)
}

func TestDocumentService_CreateDocument(t *testing.T) {
	tester.Setup()

	client := newTestService()
	authorID := uuid.New().String()

	tests := []struct {
		name    string
		title   string
		content string
		tags    []*v1.TagInput
	}{
		{
			name:    "plain document",
			title:   "Meeting notes",
			content: "first line\nsecond line",
		},
		{
			name:    "tagged document",
			title:   "Design doc",
			content: "content",
			tags: []*v1.TagInput{
				{Title: "design", Color: "ff0000"},
				{Title: "draft", Color: "0000ff"},
			},
		},
		{
			name:    "blank title and content normalize to empty",
			title:   "   \t",
			content: " \n ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
				Title:    tt.title,
				Content:  tt.content,
				AuthorId: authorID,
				Tags:     tt.tags,
			})
			assert.NoError(t, err)
			assert.NotNil(t, res)
			assert.NotEmpty(t, res.Document.Id)
			assert.NotEmpty(t, res.Document.HistoryId)
			assert.False(t, res.Document.Archived)
			assert.Equal(t, authorID, res.Document.AuthorId)
			assert.Len(t, res.Document.Tags, len(tt.tags))

			got, err := client.GetDocument(context.TODO(), &v1.GetDocumentRequest{
				DocumentId: res.Document.Id,
			})
			assert.NoError(t, err)
			assert.Equal(t, res.Document.Id, got.Document.Id)
			assert.Equal(t, res.Document.HistoryId, got.Document.HistoryId)
			assert.Equal(t, normalize(tt.title), got.Document.Title)
			assert.Equal(t, normalize(tt.content), got.Document.Content)
		})
	}
}

func TestDocumentService_UpdateDocument(t *testing.T) {
	tester.Setup()

	client := newTestService()
	authorID := uuid.New().String()

	created, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "v1",
		Content:  "one\ntwo",
		AuthorId: authorID,
		Tags:     []*v1.TagInput{{Title: "notes", Color: "ff0000"}},
	})
	assert.NoError(t, err)

	updated, err := client.UpdateDocument(context.TODO(), &v1.UpdateDocumentRequest{
		DocumentId: created.Document.Id,
		Title:      "v2",
		Content:    "one\nthree",
		AuthorId:   authorID,
		Tags:       []*v1.TagInput{{Title: "notes", Color: "00ff00"}},
	})
	assert.NoError(t, err)

	// the replacement continues the same history chain under a new id
	assert.NotEqual(t, created.Document.Id, updated.Document.Id)
	assert.Equal(t, created.Document.HistoryId, updated.Document.HistoryId)
	assert.False(t, updated.Document.Archived)
	assert.Equal(t, "v2", updated.Document.Title)

	// the old head is archived but still readable
	old, err := client.GetDocument(context.TODO(), &v1.GetDocumentRequest{
		DocumentId: created.Document.Id,
	})
	assert.NoError(t, err)
	assert.True(t, old.Document.Archived)

	// the chain lists both revisions
	chain, err := client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{
		HistoryId: created.Document.HistoryId,
	})
	assert.NoError(t, err)
	assert.Len(t, chain.Documents, 2)

	archived := 0
	for _, doc := range chain.Documents {
		assert.Equal(t, created.Document.HistoryId, doc.HistoryId)
		if doc.Archived {
			archived++
		}
	}
	assert.Equal(t, 1, archived)
}

func TestDocumentService_UpdateArchivedHead(t *testing.T) {
	tester.Setup()

	client := newTestService()
	authorID := uuid.New().String()

	created, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "doc",
		Content:  "content",
		AuthorId: authorID,
	})
	assert.NoError(t, err)

	_, err = client.UpdateDocument(context.TODO(), &v1.UpdateDocumentRequest{
		DocumentId: created.Document.Id,
		Title:      "doc",
		Content:    "changed",
		AuthorId:   authorID,
	})
	assert.NoError(t, err)

	// a second update against the superseded head loses the race
	_, err = client.UpdateDocument(context.TODO(), &v1.UpdateDocumentRequest{
		DocumentId: created.Document.Id,
		Title:      "doc",
		Content:    "changed again",
		AuthorId:   authorID,
	})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentService_ArchiveDocument(t *testing.T) {
	tester.Setup()

	client := newTestService()
	authorID := uuid.New().String()

	created, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "to archive",
		Content:  "content",
		AuthorId: authorID,
	})
	assert.NoError(t, err)

	_, err = client.ArchiveDocument(context.TODO(), &v1.ArchiveDocumentRequest{
		DocumentId: created.Document.Id,
	})
	assert.NoError(t, err)

	// the revision stays queryable, the chain is closed
	got, err := client.GetDocument(context.TODO(), &v1.GetDocumentRequest{
		DocumentId: created.Document.Id,
	})
	assert.NoError(t, err)
	assert.True(t, got.Document.Archived)

	_, err = client.ArchiveDocument(context.TODO(), &v1.ArchiveDocumentRequest{
		DocumentId: created.Document.Id,
	})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	_, err = client.UpdateDocument(context.TODO(), &v1.UpdateDocumentRequest{
		DocumentId: created.Document.Id,
		Title:      "reopen",
		Content:    "content",
		AuthorId:   authorID,
	})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentService_ListDocuments(t *testing.T) {
	tester.Setup()

	client := newTestService()
	authorID := uuid.New().String()

	for i := 0; i < 5; i++ {
		_, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
			Title:    "doc",
			Content:  "content",
			AuthorId: authorID,
		})
		assert.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	page, err := client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{Limit: 3})
	assert.NoError(t, err)
	assert.Len(t, page.Documents, 3)
	assert.NotEmpty(t, page.NextCursor)

	all, err := client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, all.Documents, 5)

	// the cursor restricts a listing to revisions created after it
	newer, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "newer doc",
		Content:  "content",
		AuthorId: authorID,
	})
	assert.NoError(t, err)

	since, err := client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{
		Cursor: all.NextCursor,
		Limit:  10,
	})
	assert.NoError(t, err)
	assert.Len(t, since.Documents, 1)
	assert.Equal(t, newer.Document.Id, since.Documents[0].Id)

	// unknown history fails instead of returning an empty chain
	_, err = client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{
		HistoryId: uuid.New().String(),
	})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	// unknown tag behaves the same
	_, err = client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{
		TagId: uuid.New().String(),
	})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentService_ListDocumentsByTag(t *testing.T) {
	tester.Setup()

	client := newTestService()
	tagClient := NewTagService(store.NewGormStore(tester.TestDB()))
	authorID := uuid.New().String()

	first, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "first",
		Content:  "content",
		AuthorId: authorID,
		Tags:     []*v1.TagInput{{Title: "shared", Color: "ff0000"}},
	})
	assert.NoError(t, err)

	second, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "second",
		Content:  "content",
		AuthorId: authorID,
		Tags:     []*v1.TagInput{{Title: "shared", Color: "ff0000"}},
	})
	assert.NoError(t, err)

	tag, err := tagClient.GetTag(context.TODO(), &v1.GetTagRequest{Title: "shared"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), tag.Tag.Count)

	listed, err := client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{
		TagId: tag.Tag.Id,
	})
	assert.NoError(t, err)
	assert.Len(t, listed.Documents, 2)

	// archiving one drops it from the tag listing
	_, err = client.ArchiveDocument(context.TODO(), &v1.ArchiveDocumentRequest{
		DocumentId: first.Document.Id,
	})
	assert.NoError(t, err)

	listed, err = client.ListDocuments(context.TODO(), &v1.ListDocumentsRequest{
		TagId: tag.Tag.Id,
	})
	assert.NoError(t, err)
	assert.Len(t, listed.Documents, 1)
	assert.Equal(t, second.Document.Id, listed.Documents[0].Id)
}

func TestDocumentService_GZipContent(t *testing.T) {
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	client := NewDocumentService(compress.NewGZip(), s, nil)
	authorID := uuid.New().String()

	content := "intro\nbody\noutro"
	created, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "doc",
		Content:  content,
		AuthorId: authorID,
	})
	assert.NoError(t, err)
	assert.Equal(t, content, created.Document.Content)

	// the stored row holds the encoded form, not the plaintext
	row, err := s.GetDocument(context.TODO(), created.Document.Id)
	assert.NoError(t, err)
	assert.NotEqual(t, content, row.Content)

	got, err := client.GetDocument(context.TODO(), &v1.GetDocumentRequest{
		DocumentId: created.Document.Id,
	})
	assert.NoError(t, err)
	assert.Equal(t, content, got.Document.Content)

	// comparisons decode both sides before diffing
	updated, err := client.UpdateDocument(context.TODO(), &v1.UpdateDocumentRequest{
		DocumentId: created.Document.Id,
		Title:      "doc",
		Content:    "intro\nrevised body\noutro",
		AuthorId:   authorID,
	})
	assert.NoError(t, err)

	res, err := client.CompareDocuments(context.TODO(), &v1.CompareDocumentsRequest{
		BaseId:   created.Document.Id,
		TargetId: updated.Document.Id,
	})
	assert.NoError(t, err)
	assert.Equal(t, []*v1.DiffSegment{
		{Kind: "unchanged", Text: "intro"},
		{Kind: "removed", Text: "body"},
		{Kind: "added", Text: "revised body"},
		{Kind: "unchanged", Text: "outro"},
	}, res.Segments)
}

func TestDocumentService_CompareDocuments(t *testing.T) {
	tester.Setup()

	client := newTestService()
	authorID := uuid.New().String()

	created, err := client.CreateDocument(context.TODO(), &v1.CreateDocumentRequest{
		Title:    "doc",
		Content:  "intro\nbody\noutro",
		AuthorId: authorID,
	})
	assert.NoError(t, err)

	updated, err := client.UpdateDocument(context.TODO(), &v1.UpdateDocumentRequest{
		DocumentId: created.Document.Id,
		Title:      "doc",
		Content:    "intro\nrevised body\noutro",
		AuthorId:   authorID,
	})
	assert.NoError(t, err)

	res, err := client.CompareDocuments(context.TODO(), &v1.CompareDocumentsRequest{
		BaseId:   created.Document.Id,
		TargetId: updated.Document.Id,
	})
	assert.NoError(t, err)

	assert.Equal(t, []*v1.DiffSegment{
		{Kind: "unchanged", Text: "intro"},
		{Kind: "removed", Text: "body"},
		{Kind: "added", Text: "revised body"},
		{Kind: "unchanged", Text: "outro"},
	}, res.Segments)

	// comparing a revision with itself yields only unchanged segments
	same, err := client.CompareDocuments(context.TODO(), &v1.CompareDocumentsRequest{
		BaseId:   created.Document.Id,
		TargetId: created.Document.Id,
	})
	assert.NoError(t, err)
	for _, segment := range same.Segments {
		assert.Equal(t, "unchanged", segment.Kind)
	}

	_, err = client.CompareDocuments(context.TODO(), &v1.CompareDocumentsRequest{
		BaseId:   created.Document.Id,
		TargetId: uuid.New().String(),
	})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}
