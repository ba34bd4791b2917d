// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ArticleImageStore reads carousel images. Rows are created inside the
// article creation transaction and deleted by cascade, so this store only
// queries.
type ArticleImageStore struct {
	db *sql.DB
}

// NewArticleImageStore returns a new ArticleImageStore.
func NewArticleImageStore(db *sql.DB) *ArticleImageStore {
	return &ArticleImageStore{db: db}
}

// ListByArticle returns an article's carousel images in insertion order.
func (s *ArticleImageStore) ListByArticle(articleID uuid.UUID) ([]models.ArticleImage, error) {
	rows, err := s.db.Query(`
		SELECT id, article_id, image, created_at
		FROM article_images
		WHERE article_id = $1
		ORDER BY created_at ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list article images: %w", err)
	}
	defer rows.Close()

	var items []models.ArticleImage
	for rows.Next() {
		var img models.ArticleImage
		if err := rows.Scan(&img.ID, &img.ArticleID, &img.Image, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article image: %w", err)
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

// CountByArticle returns the number of carousel images attached to an article.
func (s *ArticleImageStore) CountByArticle(articleID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM article_images WHERE article_id = $1
	`, articleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count article images: %w", err)
	}
	return count, nil
}
