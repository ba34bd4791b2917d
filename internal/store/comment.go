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

// CommentStore manages comments in the database.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `c.id, c.article_id, c.author_id, c.body, c.created_at, u.username`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	err := scanner.Scan(&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.AuthorUsername)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByArticle returns an article's comments oldest-first, with author
// usernames joined in.
func (s *CommentStore) ListByArticle(articleID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.article_id = $1
		ORDER BY c.created_at ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a comment by its serial ID. Returns nil if not found.
func (s *CommentStore) FindByID(id int64) (*models.Comment, error) {
	row := s.db.QueryRow(`
		SELECT `+commentColumns+`
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment bound to an article and author. The article
// reference comes from the handler's slug lookup, never from the client.
func (s *CommentStore) Create(articleID, authorID uuid.UUID, body string) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (article_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, article_id, author_id, body, created_at
	`, articleID, authorID, body).Scan(
		&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// Delete removes a comment by ID.
func (s *CommentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
