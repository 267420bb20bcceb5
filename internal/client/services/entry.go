package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ddanilov/daybook/internal/client/api"
	"github.com/ddanilov/daybook/internal/client/models"
	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/netx"
	"github.com/ddanilov/daybook/internal/storagex"
	"github.com/ddanilov/daybook/internal/tagx"
)

type EntryService interface {
	List(ctx context.Context, opts api.ListOptions) ([]models.Entry, error)
	Get(ctx context.Context, id string) (*models.Entry, error)

	// Add creates an entry, uploading imagePath first when given.
	Add(ctx context.Context, title, content, tags, imagePath string) (*models.Entry, error)

	// Edit applies a partial update. The zero-value EditRequest changes
	// nothing.
	Edit(ctx context.Context, id string, req EditRequest) (*models.Entry, error)

	DeleteByID(ctx context.Context, id string) error

	// Hydrate resolves signed read URLs for entries whose image reference
	// is a bare object key. Individual failures are skipped; the result
	// maps entry id to URL.
	Hydrate(ctx context.Context, entries []models.Entry) map[string]string
}

// EditRequest collects the optional changes an edit can carry. Tags is a
// raw comma list; RemoveImage and ImagePath are mutually exclusive, with
// removal winning.
type EditRequest struct {
	Title       *string
	Content     *string
	Tags        *string
	ImagePath   string
	RemoveImage bool
}

type entryService struct {
	client api.Client
	http   *http.Client
}

func NewEntryService(client api.Client) EntryService {
	return &entryService{client: client, http: &http.Client{Timeout: 60 * time.Second}}
}

func (s *entryService) List(ctx context.Context, opts api.ListOptions) ([]models.Entry, error) {
	return s.client.List(ctx, opts)
}

func (s *entryService) Get(ctx context.Context, id string) (*models.Entry, error) {
	return s.client.Get(ctx, id)
}

// uploadImage puts the file into object storage and returns the reference
// to store on the entry.
func (s *entryService) uploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	ticket, err := s.client.UploadURL(ctx, ext)
	if err != nil {
		return "", fmt.Errorf("requesting upload slot: %w", err)
	}

	if err := netx.UploadPresigned(ctx, s.http, ticket.URL, data, contentTypeFor(ext)); err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return ticket.Ref, nil
}

func contentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func (s *entryService) Add(ctx context.Context, title, content, tags, imagePath string) (*models.Entry, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" && imagePath == "" {
		return nil, fmt.Errorf("%w: give the entry a title, some content, or an image", common.ErrValidation)
	}

	payload := api.CreateEntry{
		Title:   title,
		Content: content,
		Tags:    tagx.Normalize(tags),
	}

	if imagePath != "" {
		ref, err := s.uploadImage(ctx, imagePath)
		if err != nil {
			return nil, err
		}
		payload.ImageRef = &ref
	}

	e, err := s.client.Create(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	return e, nil
}

func (s *entryService) Edit(ctx context.Context, id string, req EditRequest) (*models.Entry, error) {
	patch := api.EntryPatch{
		Title:   req.Title,
		Content: req.Content,
	}
	if req.Tags != nil {
		normalized := tagx.Normalize(*req.Tags)
		patch.Tags = &normalized
	}

	switch {
	case req.RemoveImage:
		patch.Image = &api.ImagePatch{Op: "clear"}
	case req.ImagePath != "":
		ref, err := s.uploadImage(ctx, req.ImagePath)
		if err != nil {
			return nil, err
		}
		patch.Image = &api.ImagePatch{Op: "set", Ref: ref}
	}

	e, err := s.client.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("updating entry: %w", err)
	}
	return e, nil
}

func (s *entryService) DeleteByID(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

func (s *entryService) Hydrate(ctx context.Context, entries []models.Entry) map[string]string {
	urls := make(map[string]string)

	for _, e := range entries {
		if !e.HasImage() || storagex.IsAbsoluteURL(*e.ImageRef) {
			continue
		}
		url, err := s.client.SignURL(ctx, *e.ImageRef, "", 0)
		if err != nil {
			// the view simply renders without this image
			continue
		}
		urls[e.ID] = url
	}
	return urls
}
