package homepage

import (
	"context"
	"sync"
	"time"

	"ewintr.nl/headlines/model"
)

const allVideosKey = "videos:all"

// Cache holds full video listings for a short time so paging through the homepage does not
// refetch the whole collection on every request.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.Video, bool)
	Set(ctx context.Context, key string, videos []model.Video)
	Invalidate(ctx context.Context)
}

type cacheEntry struct {
	videos    []model.Video
	expiresAt time.Time
}

type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     now,
		entries: map[string]cacheEntry{},
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]model.Video, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return append([]model.Video{}, entry.videos...), true
}

func (c *MemoryCache) Set(_ context.Context, key string, videos []model.Video) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		videos:    append([]model.Video{}, videos...),
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *MemoryCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = map[string]cacheEntry{}
}

type NoCache struct{}

func (NoCache) Get(context.Context, string) ([]model.Video, bool) { return nil, false }
func (NoCache) Set(context.Context, string, []model.Video)        {}
func (NoCache) Invalidate(context.Context)                         {}
