package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin and a default author account if no users
// exist yet, plus an initial "General" category so articles can be
// created immediately.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}
	authorHash, err := bcrypt.GenerateFromPassword([]byte("author"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, username, password_hash, role)
		VALUES ($1, $2, $3, 'admin'), ($4, $5, $6, 'author')
	`, "admin@inkwell.local", "admin", string(adminHash),
		"author@inkwell.local", "author", string(authorHash))
	if err != nil {
		return fmt.Errorf("seed insert users: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (title, slug) VALUES ('General', 'general')
		ON CONFLICT (slug) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	slog.Info("database seeded with default accounts",
		"admin", "admin@inkwell.local",
		"author", "author@inkwell.local",
	)

	return nil
}
