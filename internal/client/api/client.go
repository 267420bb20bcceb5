// Package api is the typed HTTP client for the Daybook server.
package api

import (
	"context"

	"github.com/ddanilov/daybook/internal/client/models"
)

// ListOptions narrows a listing request.
type ListOptions struct {
	Query      string
	ImagesOnly bool
	Tags       []string
	Offset     int
	Limit      int
}

// CreateEntry is the payload for new entries.
type CreateEntry struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	ImageRef *string  `json:"image_ref,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// ImagePatch requests one of the three image operations: "keep", "clear"
// or "set".
type ImagePatch struct {
	Op  string `json:"op"`
	Ref string `json:"ref,omitempty"`
}

// EntryPatch is a partial update. Nil fields are left unchanged; a nil
// Image keeps the current reference.
type EntryPatch struct {
	Title   *string     `json:"title,omitempty"`
	Content *string     `json:"content,omitempty"`
	Tags    *[]string   `json:"tags,omitempty"`
	Image   *ImagePatch `json:"image,omitempty"`
}

// VerifyResult is the outcome of exchanging a magic-link token.
type VerifyResult struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

// UploadTicket is a presigned PUT slot for an image upload. Ref is the
// value to store on the entry.
type UploadTicket struct {
	Key string `json:"key"`
	URL string `json:"url"`
	Ref string `json:"ref"`
}

// Client is the API surface the client-side services depend on.
type Client interface {
	RequestLink(ctx context.Context, email string) error
	Verify(ctx context.Context, token string) (*VerifyResult, error)

	List(ctx context.Context, opts ListOptions) ([]models.Entry, error)
	Get(ctx context.Context, id string) (*models.Entry, error)
	Create(ctx context.Context, e CreateEntry) (*models.Entry, error)
	Update(ctx context.Context, id string, patch EntryPatch) (*models.Entry, error)
	Delete(ctx context.Context, id string) error

	SignURL(ctx context.Context, path, bucket string, expiresIn int) (string, error)
	UploadURL(ctx context.Context, ext string) (*UploadTicket, error)

	// SetAccessToken installs the bearer token attached to subsequent
	// requests.
	SetAccessToken(token string)
}
