// page.go provides a Valkey-backed full-page HTML cache. Rendered listing
// and detail pages are stored so repeat requests within the revalidate
// window skip both the store query and template execution. The cache is
// optional: a nil *PageCache degrades every operation to a no-op, and
// backend errors are logged and treated as misses.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pageKeyPrefix namespaces cached pages in Valkey.
const pageKeyPrefix = "page:"

// PageCache manages full-page HTML caching in Valkey. The TTL is expected
// to equal the post revalidate interval so cached HTML ages out in step
// with the resolver's freshness window.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single page from the cache. Called when the
// resolver refreshes a post so the next request re-renders it.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	if pc == nil {
		return
	}
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
	}
}

// HomeKey returns the cache key for the listing page.
func HomeKey() string { return "_home" }

// PostKey returns the cache key for a post detail page.
func PostKey(slug string) string { return "post:" + slug }
