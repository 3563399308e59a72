package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/social-search/internal/cache"
	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/internal/repository"
)

type memoryCache struct {
	mu      sync.Mutex
	data    map[string]*domain.SearchResultsBundle
	getErr  error
	gets    int
	setKeys []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]*domain.SearchResultsBundle)}
}

func (c *memoryCache) BuildKey(typ, viewerID, term string, limits domain.Limits) string {
	return strings.Join([]string{"test", typ, viewerID, term, limits.Key()}, ":")
}

func (c *memoryCache) Get(_ context.Context, key string) (*domain.SearchResultsBundle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return b, nil
}

func (c *memoryCache) Set(_ context.Context, key string, b *domain.SearchResultsBundle, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	c.setKeys = append(c.setKeys, key)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) InvalidateAll(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := int64(len(c.data))
	c.data = make(map[string]*domain.SearchResultsBundle)
	return n, nil
}

func (c *memoryCache) Close() error { return nil }

func (c *memoryCache) stored(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type prefixResolver struct {
	fail map[string]bool
}

func (r prefixResolver) GetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if r.fail[key] {
		return "", errors.New("presign failed")
	}
	return "https://cdn.example.com/" + key, nil
}

func TestSearch_EmptyTermSkipsCacheAndRepository(t *testing.T) {
	repo := newFakeRepo()
	c := newMemoryCache()
	svc := NewSearchService(repo, Options{Cache: c, CacheTTL: time.Minute})

	bundle, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "  "})
	require.NoError(t, err)

	assert.Equal(t, domain.EmptyBundle(), bundle)
	assert.Zero(t, repo.totalCalls())
	assert.Zero(t, c.gets)
}

func TestSearch_CacheHit(t *testing.T) {
	repo := newFakeRepo()
	c := newMemoryCache()
	svc := NewSearchService(repo, Options{Cache: c, CacheTTL: time.Minute})

	cached := domain.EmptyBundle()
	cached.People = append(cached.People, domain.PersonResult{ID: "cached"})
	c.data[c.BuildKey("all", "", "jane", domain.DefaultLimits())] = cached

	bundle, err := svc.Search(context.Background(), &domain.SearchRequest{Query: " Jane "})
	require.NoError(t, err)

	require.Len(t, bundle.People, 1)
	assert.Equal(t, "cached", bundle.People[0].ID)
	assert.Zero(t, repo.totalCalls())
}

func TestSearch_CacheMissStoresBundle(t *testing.T) {
	repo := newFakeRepo()
	repo.profiles = []domain.ProfileModel{{ID: "u1", Username: "jane"}}
	c := newMemoryCache()
	svc := NewSearchService(repo, Options{Cache: c, CacheTTL: time.Minute})

	req := &domain.SearchRequest{Query: "jane", People: 2, ViewerID: "viewer"}
	bundle, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, bundle.People, 1)

	key := c.BuildKey("all", "viewer", "jane", domain.DefaultLimits().Merge(domain.Limits{People: 2}))
	assert.Eventually(t, func() bool { return c.stored(key) }, time.Second, 10*time.Millisecond)
}

func TestSearch_CacheErrorFallsThrough(t *testing.T) {
	repo := newFakeRepo()
	repo.profiles = []domain.ProfileModel{{ID: "u1", Username: "jane"}}
	c := newMemoryCache()
	c.getErr = errors.New("connection refused")
	svc := NewSearchService(repo, Options{Cache: c, CacheTTL: time.Minute})

	bundle, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "jane"})
	require.NoError(t, err)

	assert.Len(t, bundle.People, 1)
	assert.Equal(t, 1, repo.called(SourcePeople))
}

func TestSearch_WithoutCache(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSearchService(repo, Options{})

	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "jane"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.called(SourcePeople))
}

func TestSearch_UsesConfiguredDefaults(t *testing.T) {
	repo := newFakeRepo()
	defaults := domain.Limits{People: 2, Posts: 3, Teams: 4, Live: 5, Music: 6, Videos: 7, Comments: 8}
	svc := NewSearchService(repo, Options{Defaults: defaults, AuthorLimit: 11})

	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "jane", Teams: 9})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.limits[SourcePeople])
	assert.Equal(t, 9, repo.limits[SourceTeams])
	assert.Equal(t, 8, repo.limits[SourceComments])
	assert.Equal(t, 11, repo.limits[SourceMatchingProfiles])
}

func TestSearch_FailureIsNotCached(t *testing.T) {
	repo := newFakeRepo()
	repo.failOn = SourceTeams
	c := newMemoryCache()
	svc := NewSearchService(repo, Options{Cache: c, CacheTTL: time.Minute})

	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "jane"})

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, SourceTeams, srcErr.Source)

	time.Sleep(50 * time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.setKeys)
}

func TestSearch_ResolvesMediaKeys(t *testing.T) {
	repo := newFakeRepo()
	repo.profiles = []domain.ProfileModel{
		{ID: "u1", Username: "jane", AvatarURL: ptr("avatars/u1.png")},
		{ID: "u2", Username: "jim", AvatarURL: ptr("https://images.example.com/u2.png")},
		{ID: "u3", Username: "joe", AvatarURL: ptr("avatars/broken.png")},
	}
	tr := track("tr1", "u1", 0)
	tr.CoverURL = ptr("covers/tr1.jpg")
	repo.tracks = []domain.MusicTrackModel{tr}

	svc := NewSearchService(repo, Options{
		Media: prefixResolver{fail: map[string]bool{"avatars/broken.png": true}},
	})

	bundle, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "j"})
	require.NoError(t, err)

	require.Len(t, bundle.People, 3)
	assert.Equal(t, "https://cdn.example.com/avatars/u1.png", bundle.People[0].AvatarURL)
	assert.Equal(t, "https://images.example.com/u2.png", bundle.People[1].AvatarURL)
	assert.Equal(t, "avatars/broken.png", bundle.People[2].AvatarURL)
	require.Len(t, bundle.Music, 1)
	assert.Equal(t, "https://cdn.example.com/covers/tr1.jpg", bundle.Music[0].CoverURL)
}

func TestPattern(t *testing.T) {
	svc := NewSearchService(newFakeRepo(), Options{})

	assert.Equal(t, `%50\% off\_sale%`, svc.Pattern(" 50% OFF_sale "))
}

// blockingRepo holds SearchProfiles open until release is closed or the
// query context ends.
type blockingRepo struct {
	*fakeRepo
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingRepo) SearchProfiles(ctx context.Context, m repository.Match, limit int) ([]domain.ProfileModel, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.fakeRepo.SearchProfiles(ctx, m, limit)
}

func TestSearch_CanceledCallerDoesNotFailSharedSearch(t *testing.T) {
	repo := &blockingRepo{
		fakeRepo: newFakeRepo(),
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	repo.profiles = []domain.ProfileModel{{ID: "u1", Username: "jane"}}
	svc := NewSearchService(repo, Options{})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Search(ctxA, &domain.SearchRequest{Query: "jane"})
		errA <- err
	}()

	select {
	case <-repo.started:
	case <-time.After(time.Second):
		t.Fatal("search did not start")
	}

	type outcome struct {
		bundle *domain.SearchResultsBundle
		err    error
	}
	resB := make(chan outcome, 1)
	go func() {
		bundle, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "jane"})
		resB <- outcome{bundle, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(repo.release)
	select {
	case out := <-resB:
		require.NoError(t, out.err)
		require.Len(t, out.bundle.People, 1)
		assert.Equal(t, "u1", out.bundle.People[0].ID)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
}
