package homepage

import (
	"context"
	"encoding/json"
	"time"

	"ewintr.nl/headlines/model"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

// RedisCache shares the listing cache between instances. Redis failures are logged and
// behave as misses.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(redisURL, prefix string, ttl time.Duration, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]model.Video, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var videos []model.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		c.logger.Warn("redis cache entry unreadable", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}

	return videos, true
}

func (c *RedisCache) Set(ctx context.Context, key string, videos []model.Video) {
	data, err := json.Marshal(videos)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("redis cache scan failed", slog.String("error", err.Error()))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("redis cache invalidate failed", slog.String("error", err.Error()))
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
