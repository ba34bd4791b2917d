// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"inkwell/internal/models"
)

func TestTagCreateAndDuplicate(t *testing.T) {
	e := newEnv(t)
	author := seedUser(t, e.db, models.RoleAuthor)

	title := "Handler Tag " + uniq()
	in := map[string]any{"title": title}

	if rr := e.doJSON(t, http.MethodPost, "/tags/", in, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous tag create: got %d, want 401", rr.Code)
	}

	rr := e.doJSON(t, http.MethodPost, "/tags/", in, actorFor(author))
	if rr.Code != http.StatusCreated {
		t.Fatalf("tag create: got %d: %s", rr.Code, rr.Body.String())
	}
	var created models.Tag
	decodeBody(t, rr, &created)
	t.Cleanup(func() {
		e.db.Exec("DELETE FROM tags WHERE id = $1", created.ID)
	})
	if created.Slug == "" {
		t.Error("slug was not derived")
	}

	// The duplicate surfaces as a field error, not a storage failure.
	rr = e.doJSON(t, http.MethodPost, "/tags/", in, actorFor(author))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("duplicate tag: got %d, want 400: %s", rr.Code, rr.Body.String())
	}
	var resp errorBody
	decodeBody(t, rr, &resp)
	if resp.Error.Fields["title"] == "" {
		t.Errorf("expected a title field error, got %+v", resp.Error)
	}
}

func TestTagDestroyRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	author := seedUser(t, e.db, models.RoleAuthor)
	admin := seedUser(t, e.db, models.RoleAdmin)
	tag := seedTag(t, e.db)

	if rr := e.do(t, http.MethodDelete, "/tags/"+tag.Slug+"/", nil, "", actorFor(author)); rr.Code != http.StatusForbidden {
		t.Errorf("author tag destroy: got %d, want 403", rr.Code)
	}
	if rr := e.do(t, http.MethodDelete, "/tags/"+tag.Slug+"/", nil, "", actorFor(admin)); rr.Code != http.StatusNoContent {
		t.Errorf("admin tag destroy: got %d, want 204", rr.Code)
	}
	if rr := e.do(t, http.MethodGet, "/tags/"+tag.Slug+"/", nil, "", nil); rr.Code != http.StatusNotFound {
		t.Errorf("destroyed tag still retrievable: %d", rr.Code)
	}
}

func TestTagListIsPublic(t *testing.T) {
	e := newEnv(t)
	seedTag(t, e.db)

	rr := e.do(t, http.MethodGet, "/tags/", nil, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("tag list: got %d", rr.Code)
	}
	var tags []models.Tag
	decodeBody(t, rr, &tags)
	if len(tags) == 0 {
		t.Error("expected at least one tag")
	}
}

func TestCategoryLifecycle(t *testing.T) {
	e := newEnv(t)
	author := seedUser(t, e.db, models.RoleAuthor)

	in := map[string]any{"title": "Handler Lifecycle " + uniq()}
	if rr := e.doJSON(t, http.MethodPost, "/categories/", in, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous category create: got %d, want 401", rr.Code)
	}

	rr := e.doJSON(t, http.MethodPost, "/categories/", in, actorFor(author))
	if rr.Code != http.StatusCreated {
		t.Fatalf("category create: got %d: %s", rr.Code, rr.Body.String())
	}
	var created models.Category
	decodeBody(t, rr, &created)
	t.Cleanup(func() {
		e.db.Exec("DELETE FROM categories WHERE id = $1", created.ID)
	})

	if rr := e.do(t, http.MethodGet, "/categories/"+created.Slug+"/", nil, "", nil); rr.Code != http.StatusOK {
		t.Errorf("public retrieve: got %d", rr.Code)
	}

	rr = e.doJSON(t, http.MethodPatch, "/categories/"+created.Slug+"/", map[string]any{"title": "Renamed " + uniq()}, actorFor(author))
	if rr.Code != http.StatusOK {
		t.Fatalf("category patch: got %d: %s", rr.Code, rr.Body.String())
	}
	var updated models.Category
	decodeBody(t, rr, &updated)
	if updated.Slug != created.Slug {
		t.Errorf("slug changed on rename: %q -> %q", created.Slug, updated.Slug)
	}

	if rr := e.do(t, http.MethodDelete, "/categories/"+created.Slug+"/", nil, "", actorFor(author)); rr.Code != http.StatusNoContent {
		t.Errorf("category destroy: got %d, want 204", rr.Code)
	}
}

func TestCategoryCreateWithParent(t *testing.T) {
	e := newEnv(t)
	author := seedUser(t, e.db, models.RoleAuthor)
	parent := seedCategory(t, e.db)

	rr := e.doJSON(t, http.MethodPost, "/categories/", map[string]any{
		"title":     "Child " + uniq(),
		"parent_id": parent.ID.String(),
	}, actorFor(author))
	if rr.Code != http.StatusCreated {
		t.Fatalf("child create: got %d: %s", rr.Code, rr.Body.String())
	}
	var child models.Category
	decodeBody(t, rr, &child)
	t.Cleanup(func() {
		e.db.Exec("DELETE FROM categories WHERE id = $1", child.ID)
	})
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Errorf("parent: got %v, want %s", child.ParentID, parent.ID)
	}

	rr = e.doJSON(t, http.MethodPost, "/categories/", map[string]any{
		"title":     "Orphan " + uniq(),
		"parent_id": "not-a-uuid",
	}, actorFor(author))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad parent: got %d, want 400", rr.Code)
	}
}
