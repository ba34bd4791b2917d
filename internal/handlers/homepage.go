// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/policy"
	"inkwell/internal/store"
)

// topLimit caps the ranked homepage listing.
const topLimit = 10

// Homepage serves the public landing listings: a views-aware article feed
// and the most-viewed ranking.
type Homepage struct {
	policies *policy.Table
	articles *store.ArticleStore
	topCache *cache.TopArticles
}

// NewHomepage creates the homepage handler group.
func NewHomepage(policies *policy.Table, articles *store.ArticleStore, topCache *cache.TopArticles) *Homepage {
	return &Homepage{policies: policies, articles: articles, topCache: topCache}
}

// List returns the views-aware minimal listing, honoring the same filters
// as the article listing.
func (h *Homepage) List(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceHomepage, policy.ActionList, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	articles, err := h.articles.List(listFilterFrom(r))
	if err != nil {
		slog.Error("homepage list failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, projectArticles(d.Representation, articles))
}

// Top returns the ten most-viewed articles, views descending with older
// articles winning ties. The serialized response is cached for a short
// TTL; view counts may drift within it.
func (h *Homepage) Top(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceHomepage, policy.ActionTop, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	if payload, ok := h.topCache.Get(r.Context()); ok {
		writeRaw(w, http.StatusOK, payload)
		return
	}

	articles, err := h.articles.TopByViews(topLimit)
	if err != nil {
		slog.Error("top listing failed", "error", err)
		writeInternal(w)
		return
	}

	payload, err := json.Marshal(projectArticles(d.Representation, articles))
	if err != nil {
		slog.Error("top listing encode failed", "error", err)
		writeInternal(w)
		return
	}
	h.topCache.Set(r.Context(), payload)
	writeRaw(w, http.StatusOK, payload)
}
