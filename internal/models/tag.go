package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag labels articles through a many-to-many association. Titles are
// unique; duplicates are rejected at the validation layer so the error
// surfaces as client input, not a storage constraint.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
