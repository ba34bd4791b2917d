// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repr"
)

func TestHomepageListCarriesViews(t *testing.T) {
	e := newEnv(t)
	author := seedUser(t, e.db, models.RoleAuthor)
	cat := seedCategory(t, e.db)
	seedArticle(t, e.db, author, cat, "Homepage "+uniq())

	rr := e.do(t, http.MethodGet, "/homepage/?search="+author.Username, nil, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("homepage list: got %d", rr.Code)
	}
	var items []map[string]any
	decodeBody(t, rr, &items)
	if len(items) == 0 {
		t.Fatal("expected at least one item")
	}
	if _, ok := items[0]["views"]; !ok {
		t.Error("homepage item missing views")
	}
	if _, ok := items[0]["body"]; ok {
		t.Error("homepage item leaked body")
	}
}

func TestTopTenByViews(t *testing.T) {
	e := newEnv(t)
	author := seedUser(t, e.db, models.RoleAuthor)
	cat := seedCategory(t, e.db)

	// Seed a dozen articles with distinct view counts so the truncation
	// and ordering are observable regardless of pre-existing data.
	for i := 0; i < 12; i++ {
		a := seedArticle(t, e.db, author, cat, "Ranked "+uniq())
		if _, err := e.db.Exec("UPDATE articles SET views = $1 WHERE id = $2", 1000+i, a.ID); err != nil {
			t.Fatalf("set views: %v", err)
		}
	}

	rr := e.do(t, http.MethodGet, "/homepage/test/", nil, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("top listing: got %d", rr.Code)
	}
	var items []repr.ArticleTop
	decodeBody(t, rr, &items)
	if len(items) != 10 {
		t.Fatalf("got %d items, want 10", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Views > items[i-1].Views {
			t.Errorf("ranking out of order at %d: %d after %d", i, items[i].Views, items[i-1].Views)
		}
	}
}

func TestTopListingServedFromCache(t *testing.T) {
	e := newEnv(t)
	author := seedUser(t, e.db, models.RoleAuthor)
	cat := seedCategory(t, e.db)
	a := seedArticle(t, e.db, author, cat, "Cached "+uniq())
	if _, err := e.db.Exec("UPDATE articles SET views = 100000 WHERE id = $1", a.ID); err != nil {
		t.Fatalf("set views: %v", err)
	}

	first := e.do(t, http.MethodGet, "/homepage/test/", nil, "", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first top request: got %d", first.Code)
	}

	// A view bump inside the TTL does not invalidate the cache, so the
	// second response is byte-identical.
	if _, err := e.db.Exec("UPDATE articles SET views = views + 1 WHERE id = $1", a.ID); err != nil {
		t.Fatalf("bump views: %v", err)
	}
	second := e.do(t, http.MethodGet, "/homepage/test/", nil, "", nil)
	if second.Body.String() != first.Body.String() {
		t.Error("expected the cached payload on the second request")
	}

	// An article mutation drops the cache.
	rr := e.doJSON(t, http.MethodPatch, "/article/"+a.Slug+"/", map[string]any{"title": "Busted " + uniq()}, actorFor(author))
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: got %d: %s", rr.Code, rr.Body.String())
	}
	third := e.do(t, http.MethodGet, "/homepage/test/", nil, "", nil)
	if third.Body.String() == first.Body.String() {
		t.Error("expected a rebuilt payload after mutation")
	}
}
