// Package services contains the application services behind the HTTP API:
// entry CRUD with owner scoping, the deletion coordinator, and the
// passwordless auth flow.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/logging"
	"github.com/ddanilov/daybook/internal/server/models"
	"github.com/ddanilov/daybook/internal/server/repositories/entries"
	"github.com/ddanilov/daybook/internal/storagex"
	"github.com/ddanilov/daybook/internal/tagx"
)

// maxPageSize caps a single List range.
const maxPageSize = 100

// ObjectStore is the slice of the object-storage client the entry service
// needs. Nil-safe usage is handled through Configured.
type ObjectStore interface {
	Configured() bool
	Bucket() string
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	PresignPut(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

type EntryService struct {
	entries       entries.Repository
	objects       ObjectStore
	logger        logging.Logger
	privateBucket bool
}

func NewEntryService(repo entries.Repository, objects ObjectStore, logger logging.Logger, privateBucket bool) *EntryService {
	return &EntryService{
		entries:       repo,
		objects:       objects,
		logger:        logger.With("module", "entry_service"),
		privateBucket: privateBucket,
	}
}

// List returns one page of the owner's entries, newest first.
func (s *EntryService) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Entry, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	result, err := s.entries.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrStore, err)
	}
	return result, nil
}

// Get returns a single entry under the caller's scope.
func (s *EntryService) Get(ctx context.Context, userID, id string) (*models.Entry, error) {
	e, err := s.entries.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", common.ErrStore, err)
	}
	return e, nil
}

// Create persists a new entry for userID. Title and content are trimmed,
// tags normalized; a missing owner is a validation error. An entry must
// carry at least one of title, content, or image.
func (s *EntryService) Create(ctx context.Context, userID, title, content string, imageRef *string, tags []string) (*models.Entry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing owner", common.ErrValidation)
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" && content == "" && (imageRef == nil || *imageRef == "") {
		return nil, fmt.Errorf("%w: empty entry", common.ErrValidation)
	}

	e := &models.Entry{
		UserID:   userID,
		Title:    title,
		Content:  content,
		ImageRef: imageRef,
		Tags:     tagx.NormalizeList(tags),
	}

	if err := s.entries.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrStore, err)
	}
	return e, nil
}

// Update applies a partial update under the caller's scope. A supplied tag
// list is normalized; an effectively empty list clears tags to NULL. The
// image tri-state passes through untouched: omission keeps the current
// reference, which must stay distinguishable from an explicit clear.
func (s *EntryService) Update(ctx context.Context, userID, id string, patch models.EntryPatch) (*models.Entry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing owner", common.ErrValidation)
	}

	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if patch.Content != nil {
		c := strings.TrimSpace(*patch.Content)
		patch.Content = &c
	}
	if patch.Tags != nil {
		normalized := tagx.NormalizeList(*patch.Tags)
		patch.Tags = &normalized
	}

	e, err := s.entries.Update(ctx, id, userID, patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", common.ErrStore, err)
	}
	return e, nil
}

// Delete runs the server-side deletion flow: confirm the entry exists under
// the caller's scope and remove the row in one transaction, then best-effort
// remove the stored object. Cleanup failures are logged and swallowed on
// purpose: callers must not start treating object removal as a blocking
// dependency.
func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	var e *models.Entry
	err := s.entries.WithinTx(ctx, func(r entries.Repository) error {
		var err error
		e, err = r.GetByID(ctx, id, userID)
		if err != nil {
			return err
		}
		return r.DeleteByID(ctx, id, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %s", common.ErrStore, err)
	}

	if e.ImageRef != nil && s.objects != nil && s.objects.Configured() {
		key, ok := storagex.ResolveObjectKey(*e.ImageRef, s.objects.Bucket())
		if ok && key != "" {
			if err := s.objects.Remove(ctx, key); err != nil {
				s.logger.Warn(ctx, "object cleanup failed", "entry", id, "key", key, "error", err.Error())
			}
		}
	}

	return nil
}

// SignURL issues a time-limited read URL for a stored object.
func (s *EntryService) SignURL(ctx context.Context, path, bucket string, expires time.Duration) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: missing path", common.ErrValidation)
	}
	if s.objects == nil || !s.objects.Configured() {
		return "", fmt.Errorf("%w: object store not configured", common.ErrInternal)
	}

	url, err := s.objects.PresignGet(ctx, bucket, path, expires)
	if err != nil {
		return "", fmt.Errorf("%w: %s", common.ErrStore, err)
	}
	return url, nil
}

// NewUploadURL mints a fresh object key and a presigned PUT URL for it.
// The returned ref is what the entry should store: the bare key for
// private buckets, the public URL otherwise.
func (s *EntryService) NewUploadURL(ctx context.Context, userID, ext string) (key, url, ref string, err error) {
	if userID == "" {
		return "", "", "", fmt.Errorf("%w: missing owner", common.ErrValidation)
	}
	if s.objects == nil || !s.objects.Configured() {
		return "", "", "", fmt.Errorf("%w: object store not configured", common.ErrInternal)
	}

	key = storagex.NewObjectName(ext)

	url, err = s.objects.PresignPut(ctx, key)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %s", common.ErrStore, err)
	}

	ref = key
	if !s.privateBucket {
		ref = s.objects.PublicURL(key)
	}
	return key, url, ref, nil
}
