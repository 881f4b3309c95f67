package v1

import "time"

type Tag struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TagInput names a tag to attach to a revision. Color is a 6-hex-digit code.
type TagInput struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

// GetTagRequest looks a tag up by ID, or by title when the ID is empty.
type GetTagRequest struct {
	TagId string `json:"tagId"`
	Title string `json:"title"`
}

type GetTagResponse struct {
	Tag *Tag `json:"tag"`
}

type SearchTagsRequest struct {
	Query string `json:"query"`
}

type SearchTagsResponse struct {
	Tags []*Tag `json:"tags"`
}

// UpdateTagRequest is the administrative override; it edits the tag row
// directly and deliberately bypasses the usage-count mechanism.
type UpdateTagRequest struct {
	TagId string `json:"tagId"`
	Title string `json:"title"`
	Color string `json:"color"`
}

type UpdateTagResponse struct {
	Tag *Tag `json:"tag"`
}

type DeleteTagRequest struct {
	TagId string `json:"tagId"`
}

type DeleteTagResponse struct {
	TagId string `json:"tagId"`
}
