// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package repr builds wire representations from stored records. Builders
// are pure: handlers fetch every input (comments, carousel images, tags)
// before calling in, and nothing here touches storage. Tag and Category
// serialize straight from their model types and need no builder.
package repr

import (
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ArticleList is the narrow listing variant: who wrote it, what it is
// called, its cover image and its address. Nothing else.
type ArticleList struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	Image  string `json:"image"`
	Slug   string `json:"slug"`
}

// ArticleListItem projects one article into the listing variant.
func ArticleListItem(a *models.Article) ArticleList {
	return ArticleList{
		Author: a.AuthorUsername,
		Title:  a.Title,
		Image:  a.Image,
		Slug:   a.Slug,
	}
}

// ArticleListItems projects a result set. The result is never nil so an
// empty page serializes as [].
func ArticleListItems(articles []models.Article) []ArticleList {
	out := make([]ArticleList, 0, len(articles))
	for i := range articles {
		out = append(out, ArticleListItem(&articles[i]))
	}
	return out
}

/// ArticleTop is the ranking variant: raw author key plus view count.
type ArticleTop struct {
	AuthorID uuid.UUID `json:"author_id"`
	Title    string    `json:"title"`
	Image    string    `json:"image"`
	Slug     string    `json:"slug"`
	Views    int64     `json:"views"`
}

// ArticleTopItems projects a ranked result set, preserving its order.
func ArticleTopItems(articles []models.Article) []ArticleTop {
	out := make([]ArticleTop, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		out = append(out, ArticleTop{
			AuthorID: a.AuthorID,
			Title:    a.Title,
			Image:    a.Image,
			Slug:     a.Slug,
			Views:    a.Views,
		})
	}
	return out
}

// HomepageItem is the views-aware minimal listing variant. It differs from
// ArticleTop in carrying the author's username instead of the raw key.
type HomepageItem struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	Image  string `json:"image"`
	Slug   string `json:"slug"`
	Views  int64  `json:"views"`
}

// HomepageItems projects a result set into the homepage variant.
func HomepageItems(articles []models.Article) []HomepageItem {
	out := make([]HomepageItem, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		out = append(out, HomepageItem{
			Author: a.AuthorUsername,
			Title:  a.Title,
			Image:  a.Image,
			Slug:   a.Slug,
			Views:  a.Views,
		})
	}
	return out
}

// Comment is the comment wire shape. The article back-reference never
// leaves the server; the author appears as a username.
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentItem projects one comment.
func CommentItem(c *models.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Author:    c.AuthorUsername,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// CommentItems projects a comment collection, never nil.
func CommentItems(comments []models.Comment) []Comment {
	out := make([]Comment, 0, len(comments))
	for i := range comments {
		out = append(out, CommentItem(&comments[i]))
	}
	return out
}

// TagItems passes tag rows through whole, guaranteeing an empty table
// serializes as [] rather than null.
func TagItems(tags []models.Tag) []models.Tag {
	if tags == nil {
		return []models.Tag{}
	}
	return tags
}

// CategoryItems is the category counterpart of TagItems.
func CategoryItems(categories []models.Category) []models.Category {
	if categories == nil {
		return []models.Category{}
	}
	return categories
}

// CarouselImage is one carousel entry on the article detail.
type CarouselImage struct {
	Image string `json:"image"`
}

// ArticleDetail is the full article variant: every stored field with the
// author's username substituted for the raw key, plus the joined comment,
// carousel and tag collections.
type ArticleDetail struct {
	ID         uuid.UUID            `json:"id"`
	Author     string               `json:"author"`
	CategoryID uuid.UUID            `json:"category_id"`
	Title      string               `json:"title"`
	Slug       string               `json:"slug"`
	Body       string               `json:"body"`
	Image      string               `json:"image"`
	Status     models.ArticleStatus `json:"status"`
	Views      int64                `json:"views"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
	Tags       []models.Tag         `json:"tags"`
	Comments   []Comment            `json:"comments"`
	Carousel   []CarouselImage      `json:"carousel"`
}

// ArticleDetailOf assembles the full variant from the article row and its
// pre-fetched collections.
func ArticleDetailOf(a *models.Article, tags []models.Tag, comments []models.Comment, images []models.ArticleImage) ArticleDetail {
	carousel := make([]CarouselImage, 0, len(images))
	for i := range images {
		carousel = append(carousel, CarouselImage{Image: images[i].Image})
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return ArticleDetail{
		ID:         a.ID,
		Author:     a.AuthorUsername,
		CategoryID: a.CategoryID,
		Title:      a.Title,
		Slug:       a.Slug,
		Body:       a.Body,
		Image:      a.Image,
		Status:     a.Status,
		Views:      a.Views,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Tags:       tags,
		Comments:   CommentItems(comments),
		Carousel:   carousel,
	}
}
