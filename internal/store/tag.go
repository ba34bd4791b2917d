// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, title, slug, created_at`

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	t := &models.Tag{}
	if err := scanner.Scan(&t.ID, &t.Title, &t.Slug, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all tags ordered by title.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT ` + tagColumns + ` FROM tags ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// FindBySlug retrieves a tag by its slug. Returns nil if not found.
func (s *TagStore) FindBySlug(slug string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE slug = $1`, slug)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// FindBySlugs resolves a list of tag slugs to tag records. Unknown slugs are
// simply absent from the result; the caller decides whether that is an error.
func (s *TagStore) FindBySlugs(slugs []string) ([]models.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	// Build a $1, $2, ... placeholder list.
	placeholders := ""
	args := make([]any, len(slugs))
	for i, slug := range slugs {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args[i] = slug
	}

	rows, err := s.db.Query(`SELECT `+tagColumns+` FROM tags WHERE slug IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("find tags by slugs: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// ExistsByTitle reports whether a tag with the given title already exists.
// Backs the validation-layer uniqueness check so duplicates surface as
// client input errors rather than storage-constraint violations.
func (s *TagStore) ExistsByTitle(title string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM tags WHERE title = $1)`, title).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("tag exists by title: %w", err)
	}
	return exists, nil
}

// Create inserts a new tag and returns it with the generated ID. An empty
// slug is derived from the title.
func (s *TagStore) Create(title, tagSlug string) (*models.Tag, error) {
	if tagSlug == "" {
		tagSlug = slug.Generate(title)
	}
	row := s.db.QueryRow(`
		INSERT INTO tags (title, slug) VALUES ($1, $2)
		RETURNING `+tagColumns, title, tagSlug)
	t, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

// Delete removes a tag by ID. Article associations cascade.
func (s *TagStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
