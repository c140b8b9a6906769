package homepage_test

import (
	"context"
	"testing"
	"time"

	"ewintr.nl/headlines/homepage"
	"ewintr.nl/headlines/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*homepage.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := homepage.NewRedisCache("redis://"+mr.Addr(), "headlines:", ttl, logger)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		cache, mr := newRedisCache(t, time.Minute)
		_, ok := cache.Get(ctx, "videos:all")
		assert.False(t, ok)

		sched := now.Add(time.Hour)
		v := video("a", model.PositionRight, now)
		v.Category = "Music"
		v.ScheduledAt = &sched
		cache.Set(ctx, "videos:all", []model.Video{v, video("b", model.PositionLeft, now)})
		assert.True(t, mr.Exists("headlines:videos:all"))

		act, ok := cache.Get(ctx, "videos:all")
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, ids(act))
		assert.Equal(t, "Music", act[0].Category)
		require.NotNil(t, act[0].ScheduledAt)
		assert.True(t, sched.Equal(*act[0].ScheduledAt))
	})

	t.Run("expires", func(t *testing.T) {
		cache, mr := newRedisCache(t, time.Minute)
		cache.Set(ctx, "videos:all", []model.Video{video("a", model.PositionLeft, now)})

		mr.FastForward(2 * time.Minute)
		_, ok := cache.Get(ctx, "videos:all")
		assert.False(t, ok)
	})

	t.Run("invalidate only own prefix", func(t *testing.T) {
		cache, mr := newRedisCache(t, time.Minute)
		cache.Set(ctx, "videos:all", []model.Video{video("a", model.PositionLeft, now)})
		cache.Set(ctx, "videos:other", []model.Video{video("b", model.PositionLeft, now)})
		require.NoError(t, mr.Set("sessions:1", "keep"))

		cache.Invalidate(ctx)
		assert.False(t, mr.Exists("headlines:videos:all"))
		assert.False(t, mr.Exists("headlines:videos:other"))
		assert.True(t, mr.Exists("sessions:1"))
		_, ok := cache.Get(ctx, "videos:all")
		assert.False(t, ok)
	})

	t.Run("unreadable entry is a miss", func(t *testing.T) {
		cache, mr := newRedisCache(t, time.Minute)
		require.NoError(t, mr.Set("headlines:videos:all", "{not json"))

		_, ok := cache.Get(ctx, "videos:all")
		assert.False(t, ok)
	})

	t.Run("server gone is a miss", func(t *testing.T) {
		cache, mr := newRedisCache(t, time.Minute)
		cache.Set(ctx, "videos:all", []model.Video{video("a", model.PositionLeft, now)})
		mr.Close()

		_, ok := cache.Get(ctx, "videos:all")
		assert.False(t, ok)
		cache.Set(ctx, "videos:all", []model.Video{video("b", model.PositionLeft, now)})
		cache.Invalidate(ctx)
	})
}

func TestRedisCacheUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := homepage.NewRedisCache("redis://"+addr, "headlines:", time.Minute, logger)
	assert.Error(t, err)
}

func TestAggregatorWithRedisCache(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	repo := &videoRepoStub{videos: []model.Video{video("a", model.PositionLeft, now)}}
	agg := newAggregator(repo, cache)

	for i := 0; i < 3; i++ {
		view, err := agg.Homepage(context.Background(), homepage.PageRequest{Left: 1, Center: 1, Right: 1})
		require.NoError(t, err)
		require.Len(t, view.Columns.Left, 1)
	}
	assert.Equal(t, 1, repo.calls)

	agg.Invalidate(context.Background())
	_, err := agg.Homepage(context.Background(), homepage.PageRequest{Left: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
