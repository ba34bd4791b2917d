// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/policy"
	"inkwell/internal/repr"
	"inkwell/internal/store"
)

// Tags handles the tag resource. Tags have no update: they are created,
// listed, and removed.
type Tags struct {
	policies *policy.Table
	tags     *store.TagStore
}

// NewTags creates the tag handler group.
func NewTags(policies *policy.Table, tags *store.TagStore) *Tags {
	return &Tags{policies: policies, tags: tags}
}

// List returns every tag.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceTag, policy.ActionList, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	tags, err := h.tags.List()
	if err != nil {
		slog.Error("tag list failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, repr.TagItems(tags))
}

// Retrieve returns one tag by slug.
func (h *Tags) Retrieve(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceTag, policy.ActionRetrieve, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	tag, err := h.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("tag lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if tag == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Create adds a tag. Duplicate titles are rejected here, at validation
// time, so the client sees a field error rather than a storage constraint;
// the unique index still backstops a race between the check and the insert.
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceTag, policy.ActionCreate, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	var in struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
		return
	}

	in.Title = strings.TrimSpace(in.Title)
	if msg := validateTitle(in.Title); msg != "" {
		writeFieldErrors(w, map[string]string{"title": msg})
		return
	}

	exists, err := h.tags.ExistsByTitle(in.Title)
	if err != nil {
		slog.Error("tag uniqueness check failed", "error", err)
		writeInternal(w)
		return
	}
	if exists {
		writeFieldErrors(w, map[string]string{"title": "Tag with this name already exists"})
		return
	}

	tag, err := h.tags.Create(in.Title, "")
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "conflict", "Tag with this name already exists")
			return
		}
		slog.Error("tag create failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// Destroy removes a tag; its article associations go with it.
func (h *Tags) Destroy(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("tag lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if tag == nil {
		writeNotFound(w)
		return
	}

	d := h.policies.Resolve(policy.ResourceTag, policy.ActionDestroy, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	if err := h.tags.Delete(tag.ID); err != nil {
		slog.Error("tag delete failed", "error", err)
		writeInternal(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
