package cache

import (
	"context"
	"errors"
	"time"

	"github.com/weiawesome/social-search/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// SearchCache defines the interface for caching search bundles.
type SearchCache interface {
	// BuildKey creates a cache key from search parameters. The viewer is
	// part of the key since team posts depend on who is asking.
	BuildKey(typ, viewerID, term string, limits domain.Limits) string
	Get(ctx context.Context, key string) (*domain.SearchResultsBundle, error)
	Set(ctx context.Context, key string, bundle *domain.SearchResultsBundle, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// InvalidateAll drops every key under the cache prefix and returns how
	// many were removed.
	InvalidateAll(ctx context.Context) (int64, error)
	Close() error
}
