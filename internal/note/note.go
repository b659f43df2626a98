// Package note defines the saved note entity.
package note

import (
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrEmptyContent is returned when a note would have no text.
var ErrEmptyContent = errors.New("empty note")

// Note is a saved note.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// New creates a note stamped with now. Content is stored exactly as given.
func New(content string, now time.Time) (Note, error) {
	if content == "" {
		return Note{}, ErrEmptyContent
	}

	return Note{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: now.UTC(),
	}, nil
}

// RelativeLabel describes createdAt relative to now, e.g. "2 days ago".
func RelativeLabel(createdAt, now time.Time) string {
	if d := now.Sub(createdAt); d < time.Minute && d > -time.Minute {
		return "now"
	}

	return humanize.RelTime(createdAt, now, "ago", "from now")
}
