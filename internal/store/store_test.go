// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns a short random suffix so fixtures from concurrent test runs
// never collide on unique columns.
func uniq() string {
	return uuid.NewString()[:8]
}

// seedUser creates a user for tests and removes it (cascading articles and
// comments) on cleanup.
func seedUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	n := uniq()
	u, err := NewUserStore(db).Create("test-"+n+"@inkwell.test", "user-"+n, "password", role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// seedCategory creates a category for tests and removes it on cleanup.
func seedCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()

	n := uniq()
	c, err := NewCategoryStore(db).Create("Test Category "+n, "", nil)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// seedArticle creates a minimal article owned by the given user.
func seedArticle(t *testing.T, db *sql.DB, author *models.User, cat *models.Category, title string) *models.Article {
	t.Helper()

	a, err := NewArticleStore(db).CreateWithAttachments(CreateParams{
		AuthorID:   author.ID,
		CategoryID: cat.ID,
		Title:      title,
		Body:       "body of " + title,
		Status:     models.ArticleStatusOpen,
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM articles WHERE id = $1", a.ID)
	})
	return a
}
