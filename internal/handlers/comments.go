// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/policy"
	"inkwell/internal/store"
)

// Comments handles the standalone comment resource. Comments are addressed
// by their serial ID, unlike the slug-keyed resources.
type Comments struct {
	policies *policy.Table
	comments *store.CommentStore
}

// NewComments creates the comment handler group.
func NewComments(policies *policy.Table, comments *store.CommentStore) *Comments {
	return &Comments{policies: policies, comments: comments}
}

// Destroy deletes a comment by numeric ID, gated by ownership.
func (h *Comments) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeNotFound(w)
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		slog.Error("comment lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if comment == nil {
		writeNotFound(w)
		return
	}

	d := h.policies.Resolve(policy.ResourceComment, policy.ActionDestroy, r.Method)
	if !authorize(w, r, d, comment.AuthorID) {
		return
	}

	if err := h.comments.Delete(comment.ID); err != nil {
		slog.Error("comment delete failed", "error", err)
		writeInternal(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
