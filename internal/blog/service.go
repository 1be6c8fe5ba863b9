// Package blog implements the data-fetching and comment-moderation flow
// between the page renderer and the headless content store: post listing,
// slug-addressed post resolution with stale-while-revalidate freshness,
// static path enumeration, and moderated comment submission.
package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/sanity"
)

// DefaultRevalidateInterval is how long a resolved post stays fresh when
// no interval is configured.
const DefaultRevalidateInterval = 60 * time.Second

// Service is the glue layer over the content store. Each inbound request
// is an independent unit of work; the only shared mutable state is the
// resolver cache and the known-slug set, both guarded by mu.
type Service struct {
	store *sanity.Client
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]*postEntry
	known   map[string]struct{}

	// onRefresh, if set, is invoked with the slug after a successful
	// background refresh. Used to drop the corresponding rendered page
	// from the L2 cache.
	onRefresh func(slug string)
}

// New creates a Service over the given store client. revalidate <= 0
// selects the default interval.
func New(store *sanity.Client, revalidate time.Duration) *Service {
	if revalidate <= 0 {
		revalidate = DefaultRevalidateInterval
	}
	return &Service{
		store:   store,
		ttl:     revalidate,
		entries: make(map[string]*postEntry),
		known:   make(map[string]struct{}),
	}
}

// OnRefresh registers a callback invoked after each successful background
// refresh. Must be called before the service starts serving requests.
func (s *Service) OnRefresh(fn func(slug string)) {
	s.onRefresh = fn
}

// ListPosts returns the listing projection of all posts in store-returned
// order. An empty store yields an empty slice, not an error. No caching
// layer of its own; runs per request.
func (s *Service) ListPosts(ctx context.Context) ([]models.PostSummary, error) {
	raw, err := s.store.Query(ctx, listPostsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := []models.PostSummary{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &posts); err != nil {
			return nil, fmt.Errorf("list posts: decode: %w", err)
		}
	}
	return posts, nil
}

// EnumeratePaths returns the slugs of all posts known to the store and
// records them in the known-slug set. Slugs absent from the result remain
// resolvable on demand via ResolvePost.
func (s *Service) EnumeratePaths(ctx context.Context) ([]string, error) {
	raw, err := s.store.Query(ctx, enumeratePathsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("enumerate paths: %w", err)
	}

	var rows []struct {
		ID   string      `json:"_id"`
		Slug models.Slug `json:"slug"`
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("enumerate paths: decode: %w", err)
		}
	}

	slugs := make([]string, 0, len(rows))
	s.mu.Lock()
	for _, row := range rows {
		if row.Slug.Current == "" {
			continue
		}
		slugs = append(slugs, row.Slug.Current)
		s.known[row.Slug.Current] = struct{}{}
	}
	s.mu.Unlock()

	return slugs, nil
}

// KnownSlug reports whether the slug is in the precomputed path set,
// either from enumeration or absorbed after an on-demand resolution.
func (s *Service) KnownSlug(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.known[slug]
	return ok
}
