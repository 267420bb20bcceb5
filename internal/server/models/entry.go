// Package models defines server-side data models persisted in the database.
package models

import "time"

// Entry is one journal entry row.
//
// ImageRef is either an absolute URL (public-bucket deployments) or a bare
// object-storage key (private buckets); empty means no image. Tags is nil
// when the entry has none; the column stores NULL, never an empty array.
type Entry struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	Title     string
	Content   string
	ImageRef  *string
	Tags      []string
}

// ListFilter narrows an owner-scoped listing.
//
// Query is a free-text substring match against title OR content,
// case-insensitive. Tags requires containment of every listed tag.
type ListFilter struct {
	UserID     string
	Query      string
	ImagesOnly bool
	Tags       []string
}

// ImageOp distinguishes the three image states an update can request.
type ImageOp string

const (
	ImageKeep  ImageOp = "keep"
	ImageClear ImageOp = "clear"
	ImageSet   ImageOp = "set"
)

// ImagePatch is the tagged tri-state for image updates: leave unchanged,
// clear to NULL, or set to a new reference. The zero value means keep.
type ImagePatch struct {
	Op  ImageOp
	Ref string
}

func KeepImage() ImagePatch          { return ImagePatch{Op: ImageKeep} }
func ClearImage() ImagePatch         { return ImagePatch{Op: ImageClear} }
func SetImage(ref string) ImagePatch { return ImagePatch{Op: ImageSet, Ref: ref} }

// EntryPatch is a partial update. Nil pointer fields are left unchanged.
// Tags, when present, is replaced wholesale (nil slice clears to NULL).
type EntryPatch struct {
	Title   *string
	Content *string
	Tags    *[]string
	Image   ImagePatch
}

// Empty reports whether the patch would change nothing.
func (p EntryPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil &&
		(p.Image.Op == ImageKeep || p.Image.Op == "")
}
