package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/models"
)

// ErrNotFound reports that no post matches the requested slug. It maps to
// a missing-page response at the HTTP boundary.
var ErrNotFound = errors.New("post not found")

// postEntry is one cached resolution. Entries are replaced wholesale on
// refresh, so a caller holding the old *Post never observes a partial
// document.
type postEntry struct {
	post       *models.Post
	fetchedAt  time.Time
	refreshing bool
}

// ResolvePost returns the post whose slug.current equals slug, or
// ErrNotFound.
//
// Freshness follows stale-while-revalidate semantics: within the
// revalidate interval the cached post is served with no store round trip.
// Past the interval the stale post is still served while a single
// background refresh recomputes the entry. Only the first resolution of a
// slug blocks on the store; a successfully resolved slug is absorbed into
// the known-path set.
func (s *Service) ResolvePost(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.Lock()
	if e, ok := s.entries[slug]; ok {
		post := e.post
		if time.Since(e.fetchedAt) >= s.ttl && !e.refreshing {
			e.refreshing = true
			go s.refresh(slug)
		}
		s.mu.Unlock()
		return post, nil
	}
	s.mu.Unlock()

	// First resolution of this slug: block until the store answers.
	post, err := s.fetchPost(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// A concurrent first fetch may have landed already; either result is a
	// complete document, so last-writer-wins is fine.
	s.entries[slug] = &postEntry{post: post, fetchedAt: time.Now()}
	s.known[slug] = struct{}{}
	s.mu.Unlock()

	return post, nil
}

// refresh recomputes one cache entry in the background. Failures keep the
// stale entry in place: the store is the single source of truth and a
// stale post is still a complete, previously valid document.
func (s *Service) refresh(slug string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	post, err := s.fetchPost(ctx, slug)

	s.mu.Lock()
	e, ok := s.entries[slug]
	if !ok {
		s.mu.Unlock()
		return
	}
	e.refreshing = false
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, ErrNotFound) {
			// The post vanished from the store. Keep serving the stale copy:
			// a generated slug must keep resolving to the same post.
			slog.Warn("post disappeared during refresh, serving stale", "slug", slug)
		} else {
			slog.Warn("post refresh failed, serving stale", "slug", slug, "error", err)
		}
		return
	}
	e.post = post
	e.fetchedAt = time.Now()
	s.mu.Unlock()

	slog.Debug("post refreshed", "slug", slug)
	if s.onRefresh != nil {
		s.onRefresh(slug)
	}
}

// fetchPost runs the detail query against the store and decodes the
// result. A null result means no post matches the slug.
func (s *Service) fetchPost(ctx context.Context, slug string) (*models.Post, error) {
	raw, err := s.store.Query(ctx, resolvePostQuery, map[string]any{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("resolve post %q: %w", slug, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNotFound
	}

	var post models.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, fmt.Errorf("resolve post %q: decode: %w", slug, err)
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return &post, nil
}
