// Package models defines client-side views of the API resources.
package models

import (
	"strings"
	"time"
)

// Entry mirrors one journal entry as returned by the API.
type Entry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageRef  *string   `json:"image_ref"`
	Tags      []string  `json:"tags"`
}

// HasImage reports whether the entry carries an image reference.
func (e *Entry) HasImage() bool {
	return e.ImageRef != nil && *e.ImageRef != ""
}

func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(e.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString("  ")
	b.WriteString(e.ID)
	b.WriteString("  ")
	b.WriteString(e.Title)
	if len(e.Tags) > 0 {
		b.WriteString("  [")
		b.WriteString(strings.Join(e.Tags, ", "))
		b.WriteString("]")
	}
	if e.HasImage() {
		b.WriteString("  *")
	}
	return b.String()
}
