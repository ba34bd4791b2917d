// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkey connects to the test Valkey instance on a scratch DB.
func testValkey(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// env wires real stores and handlers behind a chi mux mirroring the
// application's routes, with the actor injected per request instead of
// resolved from a session cookie.
type env struct {
	db         *sql.DB
	valkey     *redis.Client
	articles   *store.ArticleStore
	images     *store.ArticleImageStore
	comments   *store.CommentStore
	tags       *store.TagStore
	categories *store.CategoryStore
	users      *store.UserStore
	sessions   *session.Store
	mux        http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testDB(t)
	valkey := testValkey(t)
	policies := policy.New(policy.Options{})

	e := &env{
		db:         db,
		valkey:     valkey,
		articles:   store.NewArticleStore(db),
		images:     store.NewArticleImageStore(db),
		comments:   store.NewCommentStore(db),
		tags:       store.NewTagStore(db),
		categories: store.NewCategoryStore(db),
		users:      store.NewUserStore(db),
		sessions:   session.NewStore(valkey, false),
	}

	topCache := cache.NewTopArticles(valkey, cache.DefaultTopTTL)
	uploads := NewUploads(t.TempDir())

	articleHandlers := NewArticles(policies, e.articles, e.images, e.comments, e.tags, e.categories, topCache, uploads)
	commentHandlers := NewComments(policies, e.comments)
	tagHandlers := NewTags(policies, e.tags)
	categoryHandlers := NewCategories(policies, e.categories)
	homepageHandlers := NewHomepage(policies, e.articles, topCache)
	authHandlers := NewAuth(e.sessions, e.users)

	r := chi.NewRouter()
	r.Use(middleware.LoadSession(e.sessions))
	r.Route("/article", func(r chi.Router) {
		r.Get("/", articleHandlers.List)
		r.Post("/", articleHandlers.Create)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", articleHandlers.Retrieve)
			r.Put("/", articleHandlers.Update)
			r.Patch("/", articleHandlers.PartialUpdate)
			r.Delete("/", articleHandlers.Destroy)
			r.Post("/comment/", articleHandlers.Comment)
			r.Delete("/comment/", articleHandlers.Comment)
		})
	})
	r.Route("/tags", func(r chi.Router) {
		r.Get("/", tagHandlers.List)
		r.Post("/", tagHandlers.Create)
		r.Get("/{slug}/", tagHandlers.Retrieve)
		r.Delete("/{slug}/", tagHandlers.Destroy)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandlers.List)
		r.Post("/", categoryHandlers.Create)
		r.Get("/{slug}/", categoryHandlers.Retrieve)
		r.Put("/{slug}/", categoryHandlers.Update)
		r.Patch("/{slug}/", categoryHandlers.PartialUpdate)
		r.Delete("/{slug}/", categoryHandlers.Destroy)
	})
	r.Delete("/comment/{id}/", commentHandlers.Destroy)
	r.Get("/homepage/", homepageHandlers.List)
	r.Get("/homepage/test/", homepageHandlers.Top)
	r.Post("/auth/login", authHandlers.Login)
	r.Post("/auth/logout", authHandlers.Logout)
	r.Get("/auth/2fa/setup", authHandlers.TwoFASetup)
	r.Post("/auth/2fa/verify", authHandlers.TwoFAVerify)
	e.mux = r

	// Drop any cached ranking left over from a previous run.
	valkey.Del(context.Background(), "articles:top")

	return e
}

// actorFor builds the session payload the middleware would resolve for u.
func actorFor(u *models.User) *session.Data {
	return &session.Data{
		UserID:    u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		TwoFADone: true,
		CreatedAt: time.Now(),
	}
}

// do runs one request through the mux as the given actor (nil for
// anonymous) and returns the recorded response.
func (e *env) do(t *testing.T, method, target string, body io.Reader, contentType string, actor *session.Data) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), actor))
	}
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

// doJSON marshals body and runs the request.
func (e *env) doJSON(t *testing.T, method, target string, body any, actor *session.Data) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	return e.do(t, method, target, &buf, "application/json", actor)
}

// decodeBody unmarshals a recorded JSON response into v.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// pngStub is a minimal PNG signature, enough for content-type sniffing.
var pngStub = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 32)...)

// multipartBody assembles a multipart form from scalar fields and PNG file
// uploads, returning the body and its content type.
func multipartBody(t *testing.T, fields map[string][]string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	for key, names := range files {
		for _, name := range names {
			fw, err := mw.CreateFormFile(key, name)
			if err != nil {
				t.Fatalf("create form file: %v", err)
			}
			if _, err := fw.Write(pngStub); err != nil {
				t.Fatalf("write form file: %v", err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func uniq() string {
	return uuid.NewString()[:8]
}

func seedUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	n := uniq()
	u, err := store.NewUserStore(db).Create("test-"+n+"@inkwell.test", "user-"+n, "password", role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

func seedCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()

	n := uniq()
	c, err := store.NewCategoryStore(db).Create("Handler Category "+n, "", nil)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

func seedArticle(t *testing.T, db *sql.DB, author *models.User, cat *models.Category, title string) *models.Article {
	t.Helper()

	a, err := store.NewArticleStore(db).CreateWithAttachments(store.CreateParams{
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

func seedTag(t *testing.T, db *sql.DB) *models.Tag {
	t.Helper()

	n := uniq()
	tag, err := store.NewTagStore(db).Create("Handler Tag "+n, "")
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM tags WHERE id = $1", tag.ID)
	})
	return tag
}
