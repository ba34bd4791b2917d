package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups articles. Categories form a tree through ParentID;
// deleting a parent nulls the children's parent reference, it never
// cascades, so subcategories survive as orphans.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
