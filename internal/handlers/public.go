// Package handlers groups the HTTP handlers for the public site: the post
// listing page, the post detail page, and the comment submission API.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/blog"
	"inkwell/internal/cache"
	"inkwell/internal/render"
)

// Public serves the reader-facing pages. It checks the Valkey page cache
// before fetching and rendering, and stores rendered HTML on miss. The
// cache may be nil (not configured); every operation then degrades to a
// straight fetch-and-render.
type Public struct {
	service   *blog.Service
	renderer  *render.Renderer
	pageCache *cache.PageCache
}

// NewPublic creates the public handler group. pageCache may be nil.
func NewPublic(service *blog.Service, renderer *render.Renderer, pageCache *cache.PageCache) *Public {
	return &Public{
		service:   service,
		renderer:  renderer,
		pageCache: pageCache,
	}
}

// Home renders the post listing page. An empty store renders an empty
// listing, not an error.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.HomeKey()); ok {
		writeHTML(w, cached)
		return
	}

	posts, err := p.service.ListPosts(ctx)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page, err := p.renderer.Home(posts)
	if err != nil {
		slog.Error("render home failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.HomeKey(), page)
	writeHTML(w, page)
}

// Post renders a post detail page by slug. Unknown slugs resolve on demand
// (blocking on the first fetch); slugs with no matching post are a 404.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.PostKey(slug)); ok {
		writeHTML(w, cached)
		return
	}

	post, err := p.service.ResolvePost(ctx, slug)
	if errors.Is(err, blog.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("resolve post failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page, err := p.renderer.Post(post)
	if err != nil {
		slog.Error("render post failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.PostKey(slug), page)
	writeHTML(w, page)
}

// writeHTML writes a rendered page with the HTML content type.
func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
