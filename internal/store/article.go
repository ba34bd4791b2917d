// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// ArticleStore handles all article-related database operations, including
// the composite create that attaches tags and carousel images atomically.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `a.id, a.author_id, a.category_id, a.title, a.slug, a.body,
	       a.image, a.status, a.views, a.created_at, a.updated_at, u.username`

func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	err := scanner.Scan(
		&a.ID, &a.AuthorID, &a.CategoryID, &a.Title, &a.Slug, &a.Body,
		&a.Image, &a.Status, &a.Views, &a.CreatedAt, &a.UpdatedAt,
		&a.AuthorUsername,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListFilter narrows and orders article listings. The zero value lists
// everything in creation order.
type ListFilter struct {
	// Search matches case-insensitively against the article title or the
	// author's username.
	Search string
	// TagSlug restricts results to articles carrying the tag.
	TagSlug string
	// Ordering is "created_at" (ascending, the default) or "-created_at".
	Ordering string
}

// List returns articles matching the filter, with author usernames joined in.
func (s *ArticleStore) List(f ListFilter) ([]models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		JOIN users u ON u.id = a.author_id`
	var args []any

	if f.TagSlug != "" {
		args = append(args, f.TagSlug)
		query += fmt.Sprintf(`
		JOIN article_tags at ON at.article_id = a.id
		JOIN tags t ON t.id = at.tag_id AND t.slug = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(`
		WHERE (a.title ILIKE $%d OR u.username ILIKE $%d)`, len(args), len(args))
	}

	switch f.Ordering {
	case "-created_at":
		query += `
		ORDER BY a.created_at DESC`
	default:
		query += `
		ORDER BY a.created_at ASC`
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindBySlug retrieves an article by its slug. Returns nil if not found.
func (s *ArticleStore) FindBySlug(slug string) (*models.Article, error) {
	row := s.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles a JOIN users u ON u.id = a.author_id
		WHERE a.slug = $1
	`, slug)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// IncrementViews bumps the view counter by one and returns the updated
// article. The increment happens in a single UPDATE so concurrent retrievals
// never lose counts. Returns nil if the slug is unknown.
func (s *ArticleStore) IncrementViews(slug string) (*models.Article, error) {
	row := s.db.QueryRow(`
		UPDATE articles a SET views = views + 1
		FROM users u
		WHERE a.slug = $1 AND u.id = a.author_id
		RETURNING `+articleColumns, slug)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	return a, nil
}

// CreateParams carries everything needed to create an article with its
// attachments. TagIDs and Images may be empty.
type CreateParams struct {
	AuthorID   uuid.UUID
	CategoryID uuid.UUID
	Title      string
	Slug       string
	Body       string
	Image      string
	Status     models.ArticleStatus
	TagIDs     []uuid.UUID
	Images     []string
}

// CreateWithAttachments inserts an article together with its tag
// associations and carousel image rows in one transaction. Any failure
// rolls back every step: no article exists without its declared tags and
// images.
//
// An empty slug is derived here, and only here, from the title plus a
// creation-time token so identical titles still get distinct slugs.
func (s *ArticleStore) CreateWithAttachments(p CreateParams) (*models.Article, error) {
	if p.Slug == "" {
		p.Slug = slug.WithToken(p.Title, time.Now())
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create article: begin: %w", err)
	}
	defer tx.Rollback()

	a := &models.Article{}
	err = tx.QueryRow(`
		INSERT INTO articles (author_id, category_id, title, slug, body, image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, author_id, category_id, title, slug, body, image, status,
		          views, created_at, updated_at
	`, p.AuthorID, p.CategoryID, p.Title, p.Slug, p.Body, p.Image, p.Status).Scan(
		&a.ID, &a.AuthorID, &a.CategoryID, &a.Title, &a.Slug, &a.Body,
		&a.Image, &a.Status, &a.Views, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	for _, tagID := range p.TagIDs {
		if _, err := tx.Exec(`
			INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
		`, a.ID, tagID); err != nil {
			return nil, fmt.Errorf("create article: associate tag: %w", err)
		}
	}

	for _, image := range p.Images {
		if _, err := tx.Exec(`
			INSERT INTO article_images (article_id, image) VALUES ($1, $2)
		`, a.ID, image); err != nil {
			return nil, fmt.Errorf("create article: attach image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create article: commit: %w", err)
	}
	return a, nil
}

// Update modifies an existing article's mutable fields. The slug is the
// identity key and is never rewritten, even when the title changes.
func (s *ArticleStore) Update(a *models.Article) error {
	_, err := s.db.Exec(`
		UPDATE articles SET
			title = $1, body = $2, image = $3, status = $4, category_id = $5,
			updated_at = NOW()
		WHERE id = $6
	`, a.Title, a.Body, a.Image, a.Status, a.CategoryID, a.ID)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes an article by ID. Carousel images and comments cascade.
func (s *ArticleStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// SetTags replaces an article's tag associations.
func (s *ArticleStore) SetTags(articleID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("set tags: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM article_tags WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("set tags: clear: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(`
			INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
		`, articleID, tagID); err != nil {
			return fmt.Errorf("set tags: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set tags: commit: %w", err)
	}
	return nil
}

// TopByViews returns the most-viewed articles, at most limit of them.
// Ties break by creation time ascending, so the earliest-created article
// wins a tie.
func (s *ArticleStore) TopByViews(limit int) ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT `+articleColumns+`
		FROM articles a JOIN users u ON u.id = a.author_id
		ORDER BY a.views DESC, a.created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// TagsFor returns the tags associated with an article.
func (s *ArticleStore) TagsFor(articleID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.title, t.slug, t.created_at
		FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
		ORDER BY t.title
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("article tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
