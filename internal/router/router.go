// Package router sets up the HTTP routes and middleware chain for the
// blog API. Authorization is not enforced here: every resource handler
// resolves its own policy decision, so the routing layer stays a plain map
// from method and path to handler.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/session"
)

// New creates the configured chi router with all middleware and routes
// wired up.
func New(
	sessionStore *session.Store,
	articles *handlers.Articles,
	comments *handlers.Comments,
	tags *handlers.Tags,
	categories *handlers.Categories,
	homepage *handlers.Homepage,
	auth *handlers.Auth,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	r.Get("/health", healthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/2fa/setup", auth.TwoFASetup)
		r.Post("/2fa/verify", auth.TwoFAVerify)
	})

	r.Route("/article", func(r chi.Router) {
		r.Get("/", articles.List)
		r.Post("/", articles.Create)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", articles.Retrieve)
			r.Put("/", articles.Update)
			r.Patch("/", articles.PartialUpdate)
			r.Delete("/", articles.Destroy)
			r.Post("/comment/", articles.Comment)
			r.Delete("/comment/", articles.Comment)
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", tags.List)
		r.Post("/", tags.Create)
		r.Get("/{slug}/", tags.Retrieve)
		r.Delete("/{slug}/", tags.Destroy)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Post("/", categories.Create)
		r.Get("/{slug}/", categories.Retrieve)
		r.Put("/{slug}/", categories.Update)
		r.Patch("/{slug}/", categories.PartialUpdate)
		r.Delete("/{slug}/", categories.Destroy)
	})

	r.Delete("/comment/{id}/", comments.Destroy)

	r.Get("/homepage/", homepage.List)
	r.Get("/homepage/test/", homepage.Top)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
