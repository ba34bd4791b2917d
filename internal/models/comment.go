package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reader comment on an article. Comments are deleted with
// their owning article or author. Unlike the slug-keyed entities, comments
// are addressed externally by their serial ID.
type Comment struct {
	ID        int64     `json:"id"`
	ArticleID uuid.UUID `json:"-"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// AuthorUsername is populated by joined queries, not stored on the row.
	AuthorUsername string `json:"-"`
}
