package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestResolvePostNotFound(t *testing.T) {
	svc, store := newTestService(t, 0)
	store.AddPost(makePost("p1", "exists", "Exists"))

	_, err := svc.ResolvePost(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	// Negative results are not cached: each miss re-queries the store.
	_, err = svc.ResolvePost(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePostOnlyApprovedComments(t *testing.T) {
	svc, store := newTestService(t, 0)
	store.AddPost(makePost("p1", "commented", "Commented"))
	store.AddPost(makePost("p2", "other", "Other"))
	store.AddComment(models.Comment{
		ID: "c1", Name: "Ann", Email: "ann@x.com", Comment: "approved on p1",
		Approved: true, Post: models.NewPostReference("p1"),
	})
	store.AddComment(models.Comment{
		ID: "c2", Name: "Bob", Email: "bob@x.com", Comment: "unapproved on p1",
		Post: models.NewPostReference("p1"),
	})
	store.AddComment(models.Comment{
		ID: "c3", Name: "Cyn", Email: "cyn@x.com", Comment: "approved on p2",
		Approved: true, Post: models.NewPostReference("p2"),
	})

	post, err := svc.ResolvePost(context.Background(), "commented")
	require.NoError(t, err)

	require.Len(t, post.Comments, 1)
	for _, c := range post.Comments {
		assert.Equal(t, post.ID, c.Post.Ref)
		assert.True(t, c.Approved)
	}
	assert.Equal(t, "c1", post.Comments[0].ID)
}

func TestResolvePostCommentsNeverNil(t *testing.T) {
	svc, store := newTestService(t, 0)
	store.AddPost(makePost("p1", "quiet", "Quiet"))

	post, err := svc.ResolvePost(context.Background(), "quiet")
	require.NoError(t, err)
	assert.NotNil(t, post.Comments)
	assert.Empty(t, post.Comments)
}

func TestResolvePostServesCachedWithinInterval(t *testing.T) {
	svc, store := newTestService(t, time.Hour)
	store.AddPost(makePost("p1", "cached", "Cached"))

	first, err := svc.ResolvePost(context.Background(), "cached")
	require.NoError(t, err)
	queriesAfterFirst := store.QueryCount()

	second, err := svc.ResolvePost(context.Background(), "cached")
	require.NoError(t, err)

	// Same computed result, no extra store round trip.
	assert.Same(t, first, second)
	assert.Equal(t, queriesAfterFirst, store.QueryCount())
}

func TestResolvePostStaleWhileRevalidate(t *testing.T) {
	svc, store := newTestService(t, 50*time.Millisecond)
	store.AddPost(makePost("p1", "swr", "Original Title"))

	first, err := svc.ResolvePost(context.Background(), "swr")
	require.NoError(t, err)
	assert.Equal(t, "Original Title", first.Title)

	// Let the entry go stale, then approve a comment so the refreshed
	// document differs from the cached one.
	store.AddComment(models.Comment{
		ID: "c1", Name: "Ann", Email: "ann@x.com", Comment: "hello",
		Approved: true, Post: models.NewPostReference("p1"),
	})
	time.Sleep(80 * time.Millisecond)

	// The first post-expiry request is served stale while the refresh runs;
	// it must still be a complete document.
	stale, err := svc.ResolvePost(context.Background(), "swr")
	require.NoError(t, err)
	assert.Equal(t, "Original Title", stale.Title)

	// The background refresh eventually swaps in the new document.
	require.Eventually(t, func() bool {
		post, err := svc.ResolvePost(context.Background(), "swr")
		return err == nil && len(post.Comments) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResolvePostKeepsStaleOnRefreshFailure(t *testing.T) {
	svc, store := newTestService(t, 30*time.Millisecond)
	store.AddPost(makePost("p1", "sturdy", "Sturdy"))

	_, err := svc.ResolvePost(context.Background(), "sturdy")
	require.NoError(t, err)

	store.SetUnavailable(true)
	time.Sleep(50 * time.Millisecond)

	// Refresh will fail; the stale document keeps being served.
	post, err := svc.ResolvePost(context.Background(), "sturdy")
	require.NoError(t, err)
	assert.Equal(t, "Sturdy", post.Title)

	// And it stays that way on subsequent requests.
	time.Sleep(50 * time.Millisecond)
	post, err = svc.ResolvePost(context.Background(), "sturdy")
	require.NoError(t, err)
	assert.Equal(t, "Sturdy", post.Title)
}

func TestResolvePostFirstFetchFailsWhenStoreDown(t *testing.T) {
	svc, store := newTestService(t, 0)
	store.AddPost(makePost("p1", "down", "Down"))
	store.SetUnavailable(true)

	// No cached entry exists, so the failure surfaces to the caller.
	_, err := svc.ResolvePost(context.Background(), "down")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOnRefreshCallback(t *testing.T) {
	svc, store := newTestService(t, 30*time.Millisecond)
	store.AddPost(makePost("p1", "watched", "Watched"))

	refreshed := make(chan string, 1)
	svc.OnRefresh(func(slug string) { refreshed <- slug })

	_, err := svc.ResolvePost(context.Background(), "watched")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = svc.ResolvePost(context.Background(), "watched")
	require.NoError(t, err)

	select {
	case slug := <-refreshed:
		assert.Equal(t, "watched", slug)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh callback never fired")
	}
}
