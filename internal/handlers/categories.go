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

// Categories handles the category resource. Categories form a tree by
// parent reference; deleting a parent orphans its children rather than
// cascading.
type Categories struct {
	policies   *policy.Table
	categories *store.CategoryStore
}

// NewCategories creates the category handler group.
func NewCategories(policies *policy.Table, categories *store.CategoryStore) *Categories {
	return &Categories{policies: policies, categories: categories}
}

// List returns every category.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceCategory, policy.ActionList, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	categories, err := h.categories.List()
	if err != nil {
		slog.Error("category list failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, repr.CategoryItems(categories))
}

// Retrieve returns one category by slug.
func (h *Categories) Retrieve(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceCategory, policy.ActionRetrieve, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	category, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if category == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// categoryInput is the JSON body for category writes.
type categoryInput struct {
	Title    *string `json:"title"`
	ParentID *string `json:"parent_id"`
}

// Create adds a category, optionally under a parent.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceCategory, policy.ActionCreate, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
		return
	}
	if in.Title == nil {
		writeFieldErrors(w, map[string]string{"title": "Title is required."})
		return
	}
	title := strings.TrimSpace(*in.Title)
	if msg := validateTitle(title); msg != "" {
		writeFieldErrors(w, map[string]string{"title": msg})
		return
	}

	parentID, ok := h.resolveParent(w, in.ParentID)
	if !ok {
		return
	}

	category, err := h.categories.Create(title, "", parentID)
	if err != nil {
		slog.Error("category create failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// Update replaces a category's fields. Like every slug-keyed resource,
// the slug is not recomputed on rename.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, policy.ActionUpdate, true)
}

// PartialUpdate applies only the fields present in the body.
func (h *Categories) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, policy.ActionPartialUpdate, false)
}

func (h *Categories) update(w http.ResponseWriter, r *http.Request, action policy.Action, full bool) {
	category, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if category == nil {
		writeNotFound(w)
		return
	}

	d := h.policies.Resolve(policy.ResourceCategory, action, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
		return
	}
	if full && in.Title == nil {
		writeFieldErrors(w, map[string]string{"title": "Title is required."})
		return
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if msg := validateTitle(title); msg != "" {
			writeFieldErrors(w, map[string]string{"title": msg})
			return
		}
		category.Title = title
	}
	if in.ParentID != nil || full {
		parentID, ok := h.resolveParent(w, in.ParentID)
		if !ok {
			return
		}
		category.ParentID = parentID
	}

	if err := h.categories.Update(category); err != nil {
		slog.Error("category update failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Destroy removes a category. Its articles are removed with it; its child
// categories survive with their parent reference cleared.
func (h *Categories) Destroy(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if category == nil {
		writeNotFound(w)
		return
	}

	d := h.policies.Resolve(policy.ResourceCategory, policy.ActionDestroy, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	if err := h.categories.Delete(category.ID); err != nil {
		slog.Error("category delete failed", "error", err)
		writeInternal(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveParent validates an optional parent reference. A nil or empty
// value means no parent. Returns ok=false after writing the error response.
func (h *Categories) resolveParent(w http.ResponseWriter, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		writeFieldErrors(w, map[string]string{"parent_id": "Parent must be a valid category ID."})
		return nil, false
	}
	parent, err := h.categories.FindByID(id)
	if err != nil {
		slog.Error("parent category lookup failed", "error", err)
		writeInternal(w)
		return nil, false
	}
	if parent == nil {
		writeFieldErrors(w, map[string]string{"parent_id": "Unknown parent category."})
		return nil, false
	}
	return &parent.ID, true
}
