// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"inkwell/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// actorKey is the context key for the resolved actor's session data.
	actorKey contextKey = "actor"
)

// LoadSession retrieves the session from Valkey and stores the resolved
// actor in the request context. Downstream handlers access it via
// ActorFromCtx(). This middleware does NOT enforce authentication — the
// access policy decides per action whether an actor is required.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Log-free fall-through: treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			// A session pending 2FA verification does not resolve an
			// actor; the 2FA endpoints read it directly.
			if data != nil && data.TwoFADone {
				ctx := context.WithValue(r.Context(), actorKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithActor returns a copy of ctx carrying the given actor. Used by tests
// and by the login handler after establishing a session.
func WithActor(ctx context.Context, actor *session.Data) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the resolved actor from the request context.
// Returns nil if no session is loaded (the request is unauthenticated).
func ActorFromCtx(ctx context.Context) *session.Data {
	actor, _ := ctx.Value(actorKey).(*session.Data)
	return actor
}
