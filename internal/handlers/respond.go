// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP API. Every resource handler runs
// the same sequence: resolve the policy decision for the action, authorize,
// then act. No handler carries its own permission conditionals.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/policy"
)

// Validation limits for client-supplied fields.
const (
	maxTitleLen   = 300
	maxBodyLen    = 100_000
	maxCommentLen = 5_000
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON serializes v with the given status. Serialization failures are
// logged; headers are already flushed by then so nothing else can be done.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeRaw writes an already-serialized JSON payload, used on cache hits.
func writeRaw(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		slog.Error("response write failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeFieldErrors reports per-field validation failures as a 400.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    "validation",
		Message: "Request validation failed.",
		Fields:  fields,
	}})
}

func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not_found", "The requested resource does not exist.")
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal", "An unexpected error occurred.")
}

// authorize evaluates the decision's predicate against the current actor
// and writes the matching error response on failure. Returns true when the
// request may proceed. Authorization runs before any handler work, so a
// denial never leaves partial effects.
func authorize(w http.ResponseWriter, r *http.Request, d policy.Decision, ownerID uuid.UUID) bool {
	err := d.Authorize(policy.Request{
		Actor:   middleware.ActorFromCtx(r.Context()),
		OwnerID: ownerID,
	})
	switch {
	case err == nil:
		return true
	case errors.Is(err, policy.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required.")
	case errors.Is(err, policy.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "You do not have permission to perform this action.")
	default:
		slog.Error("authorization predicate failed", "error", err)
		writeInternal(w)
	}
	return false
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// validateTitle checks a required title field, returning an error message
// or the empty string.
func validateTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	return ""
}

func validateBody(body string) string {
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}
