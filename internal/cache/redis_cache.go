package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weiawesome/social-search/internal/config"
	"github.com/weiawesome/social-search/internal/domain"
)

const (
	anonymousViewer = "anon"
	scanBatch       = 500
)

type RedisSearchCache struct {
	client *redis.Client
	prefix string
}

// NewRedisSearchCache creates a new Redis-based search cache.
func NewRedisSearchCache(cfg config.RedisConfig, prefix string) (*RedisSearchCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisSearchCacheFromClient(client, prefix), nil
}

// NewRedisSearchCacheFromClient wraps an existing client. Close closes it.
func NewRedisSearchCacheFromClient(client *redis.Client, prefix string) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		prefix: prefix,
	}
}

// Client exposes the underlying client so the event bus can share it.
func (c *RedisSearchCache) Client() *redis.Client {
	return c.client
}

func (c *RedisSearchCache) BuildKey(typ, viewerID, term string, limits domain.Limits) string {
	if viewerID == "" {
		viewerID = anonymousViewer
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", c.prefix, typ, viewerID, term, limits.Key())
}

func (c *RedisSearchCache) Get(ctx context.Context, key string) (*domain.SearchResultsBundle, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var bundle domain.SearchResultsBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &bundle, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, key string, bundle *domain.SearchResultsBundle, ttl time.Duration) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisSearchCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}

	return nil
}

func (c *RedisSearchCache) InvalidateAll(ctx context.Context) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	match := c.prefix + ":*"

	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan redis: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete from redis: %w", err)
			}
			removed += n
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (c *RedisSearchCache) Close() error {
	return c.client.Close()
}
