// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publication state of an article.
// It is a plain attribute: any value may be set by an authorized update,
// there are no enforced transitions.
type ArticleStatus string

const (
	ArticleStatusOpen   ArticleStatus = "open"
	ArticleStatusClosed ArticleStatus = "closed"
	ArticleStatusDraft  ArticleStatus = "draft"
)

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleStatusOpen, ArticleStatusClosed, ArticleStatusDraft:
		return true
	}
	return false
}

// Article is the aggregate root for carousel images and comments.
// The slug is the external identity key: derived once on first save from
// the title plus a timestamp token, never recomputed on rename.
type Article struct {
	ID         uuid.UUID     `json:"id"`
	AuthorID   uuid.UUID     `json:"author_id"`
	CategoryID uuid.UUID     `json:"category_id"`
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Body       string        `json:"body"`
	Image      string        `json:"image"`
	Status     ArticleStatus `json:"status"`
	Views      int64         `json:"views"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// AuthorUsername is populated by joined queries, not stored on the row.
	AuthorUsername string `json:"-"`
}

// ArticleImage is one carousel image attached to an article. Images are
// deleted with their owning article.
type ArticleImage struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}
