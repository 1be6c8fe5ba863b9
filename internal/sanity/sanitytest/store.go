// Package sanitytest provides an in-memory fake of the content store's
// HTTP API for tests. It understands the three GROQ shapes Inkwell issues
// (post listing, path enumeration, slug resolution with the approved-
// comment join) and the comment create mutation, and keeps counters so
// tests can assert on fetch and write behavior.
package sanitytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/sanity"
)

// Store is a fake content store backed by slices, preserving insertion
// order the way the real store preserves creation order.
type Store struct {
	mu       sync.Mutex
	posts    []models.Post
	comments []models.Comment

	queryCount  int
	createCount int

	unavailable  bool
	rejectWrites bool

	server *httptest.Server
}

// NewStore starts a fake store server. It is shut down automatically when
// the test finishes.
func NewStore(t *testing.T) *Store {
	t.Helper()
	s := &Store{}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the fake store's base URL.
func (s *Store) URL() string { return s.server.URL }

// Client returns a sanity client pointed at the fake store.
func (s *Store) Client() *sanity.Client {
	return sanity.New(sanity.Config{
		BaseURL:    s.server.URL,
		ProjectID:  "test-project",
		Dataset:    "test",
		APIVersion: "2021-10-21",
		Token:      "test-token",
	})
}

// AddPost registers a post document. The Comments field is ignored;
// comments live in their own collection and are joined at query time.
func (s *Store) AddPost(p models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Comments = nil
	s.posts = append(s.posts, p)
}

// AddComment registers a comment document directly, bypassing the mutate
// endpoint. Useful for seeding approved comments.
func (s *Store) AddComment(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, c)
}

// Approve flips the approved flag on a comment, standing in for the
// external moderation action.
func (s *Store) Approve(commentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comments {
		if s.comments[i].ID == commentID {
			s.comments[i].Approved = true
		}
	}
}

// Comments returns a copy of all stored comments, approved or not.
func (s *Store) Comments() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// QueryCount returns how many read queries the store has served.
func (s *Store) QueryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryCount
}

// CreateCount returns how many create mutations the store has received.
func (s *Store) CreateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCount
}

// SetUnavailable makes every request fail with a 500 until reset,
// simulating a store outage.
func (s *Store) SetUnavailable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = v
}

// SetRejectWrites makes the mutate endpoint refuse creations with a 409,
// simulating a store-side rejection.
func (s *Store) SetRejectWrites(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectWrites = v
}

func (s *Store) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.Contains(r.URL.Path, "/data/query/"):
		s.handleQuery(w, r)
	case strings.Contains(r.URL.Path, "/data/mutate/"):
		s.handleMutate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Store) handleQuery(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount++

	if s.unavailable {
		http.Error(w, "store down", http.StatusInternalServerError)
		return
	}

	var req struct {
		Query  string         `json:"query"`
		Params map[string]any `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeQueryError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	var result any
	switch {
	case strings.Contains(req.Query, "slug.current == $slug"):
		slug, _ := req.Params["slug"].(string)
		result = s.resolveLocked(slug)
	case strings.Contains(req.Query, "title"):
		result = s.listLocked()
	case strings.Contains(req.Query, "slug"):
		result = s.pathsLocked()
	default:
		writeQueryError(w, http.StatusBadRequest, fmt.Sprintf("unrecognized query: %s", req.Query))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// resolveLocked returns the first post matching the slug with its approved
// comments joined in insertion order, or nil.
func (s *Store) resolveLocked(slug string) any {
	for _, p := range s.posts {
		if p.Slug.Current != slug {
			continue
		}
		approved := []models.Comment{}
		for _, c := range s.comments {
			if c.Post.Ref == p.ID && c.Approved {
				approved = append(approved, c)
			}
		}
		p.Comments = approved
		return p
	}
	return nil
}

// listLocked returns the listing projection of all posts in insertion order.
func (s *Store) listLocked() any {
	out := make([]models.PostSummary, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, models.PostSummary{
			ID:          p.ID,
			Title:       p.Title,
			Author:      p.Author,
			Description: p.Description,
			MainImage:   p.MainImage,
			Slug:        p.Slug,
		})
	}
	return out
}

// pathsLocked returns the id+slug projection of all posts.
func (s *Store) pathsLocked() any {
	type row struct {
		ID   string      `json:"_id"`
		Slug models.Slug `json:"slug"`
	}
	out := make([]row, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, row{ID: p.ID, Slug: p.Slug})
	}
	return out
}

func (s *Store) handleMutate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCount++

	if s.unavailable {
		http.Error(w, "store down", http.StatusInternalServerError)
		return
	}
	if s.rejectWrites {
		writeQueryError(w, http.StatusConflict, "mutation refused")
		return
	}

	var req struct {
		Mutations []map[string]json.RawMessage `json:"mutations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Mutations) == 0 {
		writeQueryError(w, http.StatusBadRequest, "malformed mutation body")
		return
	}

	var ids []string
	for _, m := range req.Mutations {
		raw, ok := m["create"]
		if !ok {
			writeQueryError(w, http.StatusBadRequest, "only create mutations are supported")
			return
		}
		var c models.Comment
		if err := json.Unmarshal(raw, &c); err != nil {
			writeQueryError(w, http.StatusBadRequest, "malformed document")
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.CreatedAt = time.Now().UTC()
		s.comments = append(s.comments, c)
		ids = append(ids, c.ID)
	}

	results := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		results = append(results, map[string]string{"id": id, "operation": "create"})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactionId": uuid.NewString(),
		"results":       results,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeQueryError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"description": description},
	})
}
