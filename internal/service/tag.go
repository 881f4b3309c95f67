package service

import (
	"context"

	"github.com/sirupsen/logrus"

	v1 "github.com/naeri/kokoto-httpd/apis/v1"
	"github.com/naeri/kokoto-httpd/internal/model"
	"github.com/naeri/kokoto-httpd/internal/store"
)

// NewTagService creates a new TagService.
func NewTagService(store store.Store) *TagService {
	return &TagService{
		store: store,
	}
}

// TagService exposes the administrative tag operations. These edit tag rows
// directly and bypass the usage-count mechanism; the counts themselves are
// owned by the ledger and only move through document writes.
type TagService struct {
	store store.Store
}

// GetTag retrieves a tag by ID, or by title when no ID is given.
func (t *TagService) GetTag(ctx context.Context, request *v1.GetTagRequest) (*v1.GetTagResponse, error) {
	var tag *model.Tag
	var err error

	if request.TagId != "" {
		tag, err = t.store.GetTag(ctx, request.TagId)
	} else {
		tag, err = t.store.GetTagByTitle(ctx, request.Title)
	}
	if err != nil {
		return nil, err
	}

	return &v1.GetTagResponse{Tag: tagProto(tag)}, nil
}

// SearchTags is reserved for full-text tag search.
func (t *TagService) SearchTags(ctx context.Context, request *v1.SearchTagsRequest) (*v1.SearchTagsResponse, error) {
	return nil, ErrNotImplemented
}

// UpdateTag overwrites the title and/or color of a tag.
func (t *TagService) UpdateTag(ctx context.Context, request *v1.UpdateTagRequest) (*v1.UpdateTagResponse, error) {
	tag, err := t.store.GetTag(ctx, request.TagId)
	if err != nil {
		return nil, err
	}

	if request.Title != "" {
		tag.Title = request.Title
	}
	if request.Color != "" {
		tag.Color = request.Color
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	if err := t.store.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}

	return &v1.UpdateTagResponse{Tag: tagProto(tag)}, nil
}

// DeleteTag removes a tag row regardless of its usage count.
func (t *TagService) DeleteTag(ctx context.Context, request *v1.DeleteTagRequest) (*v1.DeleteTagResponse, error) {
	tag, err := t.store.GetTag(ctx, request.TagId)
	if err != nil {
		return nil, err
	}

	if err := t.store.DeleteTag(ctx, tag.ID); err != nil {
		return nil, err
	}

	logrus.Infof("deleted tag %q with count %d", tag.Title, tag.Count)

	return &v1.DeleteTagResponse{TagId: tag.ID}, nil
}

func tagProto(tag *model.Tag) *v1.Tag {
	return &v1.Tag{
		Id:        tag.ID,
		Title:     tag.Title,
		Color:     tag.Color,
		Count:     tag.Count,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}
