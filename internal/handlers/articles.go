// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repr"
	"inkwell/internal/store"
)

// Articles groups the article resource handlers, including the combined
// comment sub-action.
type Articles struct {
	policies   *policy.Table
	articles   *store.ArticleStore
	images     *store.ArticleImageStore
	comments   *store.CommentStore
	tags       *store.TagStore
	categories *store.CategoryStore
	topCache   *cache.TopArticles
	uploads    *Uploads
}

// NewArticles creates the article handler group.
func NewArticles(
	policies *policy.Table,
	articles *store.ArticleStore,
	images *store.ArticleImageStore,
	comments *store.CommentStore,
	tags *store.TagStore,
	categories *store.CategoryStore,
	topCache *cache.TopArticles,
	uploads *Uploads,
) *Articles {
	return &Articles{
		policies:   policies,
		articles:   articles,
		images:     images,
		comments:   comments,
		tags:       tags,
		categories: categories,
		topCache:   topCache,
		uploads:    uploads,
	}
}

// listFilterFrom reads the supported query parameters into a store filter.
func listFilterFrom(r *http.Request) store.ListFilter {
	q := r.URL.Query()
	f := store.ListFilter{
		Search:  strings.TrimSpace(q.Get("search")),
		TagSlug: strings.TrimSpace(q.Get("tag")),
	}
	if ord := q.Get("ordering"); ord == "created_at" || ord == "-created_at" {
		f.Ordering = ord
	}
	return f
}

// projectArticles builds an article collection payload through the
// builder the policy decision selected. Response shape is the resolver's
// call, not the handler's.
func projectArticles(rep policy.Representation, articles []models.Article) any {
	switch rep {
	case policy.ReprArticleTop:
		return repr.ArticleTopItems(articles)
	case policy.ReprArticleHomepage:
		return repr.HomepageItems(articles)
	default:
		return repr.ArticleListItems(articles)
	}
}

// List returns the listing variant the policy selected, filtered and
// ordered per query.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceArticle, policy.ActionList, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	articles, err := h.articles.List(listFilterFrom(r))
	if err != nil {
		slog.Error("article list failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, projectArticles(d.Representation, articles))
}

// Retrieve returns the full article variant. Every retrieval counts: the
// view counter is incremented atomically before the response is built, so
// concurrent readers each add exactly one.
func (h *Articles) Retrieve(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceArticle, policy.ActionRetrieve, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}

	article, err := h.articles.IncrementViews(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("article retrieve failed", "error", err)
		writeInternal(w)
		return
	}
	if article == nil {
		writeNotFound(w)
		return
	}
	h.writeDetail(w, http.StatusOK, article)
}

// Create handles multipart article creation: scalar fields plus a cover
// image, any number of carousel_img uploads and a tag slug list. The
// article, its tag associations and its carousel rows are stored in one
// transaction; a failure in any step leaves nothing behind.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	d := h.policies.Resolve(policy.ResourceArticle, policy.ActionCreate, r.Method)
	if !authorize(w, r, d, uuid.Nil) {
		return
	}
	actor := middleware.ActorFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 12*maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the multipart form.")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	body := r.FormValue("body")
	status := models.ArticleStatus(r.FormValue("status"))
	if status == "" {
		status = models.ArticleStatusDraft
	}

	fields := map[string]string{}
	if msg := validateTitle(title); msg != "" {
		fields["title"] = msg
	}
	if msg := validateBody(body); msg != "" {
		fields["body"] = msg
	}
	if !status.Valid() {
		fields["status"] = "Status must be one of open, closed, draft."
	}

	category, err := h.categories.FindBySlug(r.FormValue("category"))
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if category == nil {
		fields["category"] = "Unknown category."
	}

	tagSlugs := r.MultipartForm.Value["tag"]
	articleTags, err := h.tags.FindBySlugs(tagSlugs)
	if err != nil {
		slog.Error("tag lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if len(articleTags) != len(tagSlugs) {
		fields["tag"] = "One or more tags do not exist."
	}

	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	// Uploads land on disk before the transaction; orphaned files from a
	// failed insert are harmless and unreferenced.
	var cover string
	if file := firstFile(r, "image"); file != nil {
		cover, err = h.uploads.Save(file)
		if err != nil {
			writeFieldErrors(w, map[string]string{"image": err.Error()})
			return
		}
	}

	var carousel []string
	for _, fh := range r.MultipartForm.File["carousel_img"] {
		path, err := h.uploads.Save(fh)
		if err != nil {
			writeFieldErrors(w, map[string]string{"carousel_img": err.Error()})
			return
		}
		carousel = append(carousel, path)
	}

	tagIDs := make([]uuid.UUID, 0, len(articleTags))
	for i := range articleTags {
		tagIDs = append(tagIDs, articleTags[i].ID)
	}

	article, err := h.articles.CreateWithAttachments(store.CreateParams{
		AuthorID:   actor.UserID,
		CategoryID: category.ID,
		Title:      title,
		Body:       body,
		Image:      cover,
		Status:     status,
		TagIDs:     tagIDs,
		Images:     carousel,
	})
	if err != nil {
		slog.Error("article create failed", "error", err)
		writeInternal(w)
		return
	}
	article.AuthorUsername = actor.Username

	h.topCache.Invalidate(r.Context())
	h.writeDetail(w, http.StatusCreated, article)
}

// articleInput is the JSON body for article updates. Pointer fields
// distinguish "absent" from "empty" so PATCH only touches what the client
// sent.
type articleInput struct {
	Title    *string   `json:"title"`
	Body     *string   `json:"body"`
	Category *string   `json:"category"`
	Status   *string   `json:"status"`
	Image    *string   `json:"image"`
	Tags     *[]string `json:"tags"`
}

// Update replaces an article's mutable fields. The slug is identity and
// survives title renames.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, policy.ActionUpdate, true)
}

// PartialUpdate applies only the fields present in the request body.
func (h *Articles) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, policy.ActionPartialUpdate, false)
}

func (h *Articles) update(w http.ResponseWriter, r *http.Request, action policy.Action, full bool) {
	article, err := h.articles.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("article lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if article == nil {
		writeNotFound(w)
		return
	}

	d := h.policies.Resolve(policy.ResourceArticle, action, r.Method)
	if !authorize(w, r, d, article.AuthorID) {
		return
	}

	var in articleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
		return
	}

	fields := map[string]string{}
	if full {
		if in.Title == nil || in.Body == nil || in.Category == nil || in.Status == nil {
			writeFieldErrors(w, map[string]string{
				"_": "Full update requires title, body, category, and status.",
			})
			return
		}
	}
	if in.Title != nil {
		if msg := validateTitle(*in.Title); msg != "" {
			fields["title"] = msg
		} else {
			article.Title = strings.TrimSpace(*in.Title)
		}
	}
	if in.Body != nil {
		if msg := validateBody(*in.Body); msg != "" {
			fields["body"] = msg
		} else {
			article.Body = *in.Body
		}
	}
	if in.Status != nil {
		status := models.ArticleStatus(*in.Status)
		if !status.Valid() {
			fields["status"] = "Status must be one of open, closed, draft."
		} else {
			article.Status = status
		}
	}
	if in.Image != nil {
		article.Image = *in.Image
	}
	if in.Category != nil {
		category, err := h.categories.FindBySlug(*in.Category)
		if err != nil {
			slog.Error("category lookup failed", "error", err)
			writeInternal(w)
			return
		}
		if category == nil {
			fields["category"] = "Unknown category."
		} else {
			article.CategoryID = category.ID
		}
	}

	var tagIDs []uuid.UUID
	if in.Tags != nil {
		articleTags, err := h.tags.FindBySlugs(*in.Tags)
		if err != nil {
			slog.Error("tag lookup failed", "error", err)
			writeInternal(w)
			return
		}
		if len(articleTags) != len(*in.Tags) {
			fields["tags"] = "One or more tags do not exist."
		}
		tagIDs = make([]uuid.UUID, 0, len(articleTags))
		for i := range articleTags {
			tagIDs = append(tagIDs, articleTags[i].ID)
		}
	}

	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	if err := h.articles.Update(article); err != nil {
		slog.Error("article update failed", "error", err)
		writeInternal(w)
		return
	}
	if in.Tags != nil {
		if err := h.articles.SetTags(article.ID, tagIDs); err != nil {
			slog.Error("article tag update failed", "error", err)
			writeInternal(w)
			return
		}
	}

	h.topCache.Invalidate(r.Context())
	h.writeDetail(w, http.StatusOK, article)
}

// Destroy removes an article; carousel images and comments go with it.
func (h *Articles) Destroy(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("article lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if article == nil {
		writeNotFound(w)
		return
	}

	d := h.policies.Resolve(policy.ResourceArticle, policy.ActionDestroy, r.Method)
	if !authorize(w, r, d, article.AuthorID) {
		return
	}

	if err := h.articles.Delete(article.ID); err != nil {
		slog.Error("article delete failed", "error", err)
		writeInternal(w)
		return
	}
	h.topCache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// commentInput is the JSON body for the comment sub-action: Body for POST,
// ID for DELETE.
type commentInput struct {
	Body string `json:"body"`
	ID   int64  `json:"id"`
}

// Comment is the combined comment sub-action on an article. POST adds a
// comment as the current actor; DELETE removes one of the article's
// comments, which the policy narrows to the comment's owner by HTTP verb.
func (h *Articles) Comment(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("article lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if article == nil {
		writeNotFound(w)
		return
	}

	d := h.policies.Resolve(policy.ResourceArticle, policy.ActionComment, r.Method)

	switch r.Method {
	case http.MethodPost:
		// Authorize before touching the body: an anonymous post is 401
		// even when the payload would not parse.
		if !authorize(w, r, d, uuid.Nil) {
			return
		}
		actor := middleware.ActorFromCtx(r.Context())

		var in commentInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
			return
		}

		body := strings.TrimSpace(in.Body)
		if body == "" {
			writeFieldErrors(w, map[string]string{"body": "Comment body is required."})
			return
		}
		if len(body) > maxCommentLen {
			writeFieldErrors(w, map[string]string{"body": "Comment is too long (max 5,000 characters)."})
			return
		}

		comment, err := h.comments.Create(article.ID, actor.UserID, body)
		if err != nil {
			slog.Error("comment create failed", "error", err)
			writeInternal(w)
			return
		}
		comment.AuthorUsername = actor.Username
		writeJSON(w, http.StatusCreated, repr.CommentItem(comment))

	case http.MethodDelete:
		// The comment ID rides in the body here, so the ownership check
		// needs the decode first.
		var in commentInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
			return
		}

		comment, err := h.comments.FindByID(in.ID)
		if err != nil {
			slog.Error("comment lookup failed", "error", err)
			writeInternal(w)
			return
		}
		if comment == nil || comment.ArticleID != article.ID {
			writeNotFound(w)
			return
		}
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
}

// writeDetail assembles and writes the full article variant.
func (h *Articles) writeDetail(w http.ResponseWriter, status int, article *models.Article) {
	tags, err := h.articles.TagsFor(article.ID)
	if err != nil {
		slog.Error("article tags fetch failed", "error", err)
		writeInternal(w)
		return
	}
	comments, err := h.comments.ListByArticle(article.ID)
	if err != nil {
		slog.Error("article comments fetch failed", "error", err)
		writeInternal(w)
		return
	}
	images, err := h.images.ListByArticle(article.ID)
	if err != nil {
		slog.Error("article images fetch failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, status, repr.ArticleDetailOf(article, tags, comments, images))
}

// firstFile returns the first uploaded file under the given form key, or
// nil when the field is absent.
func firstFile(r *http.Request, key string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[key]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
