package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/social-search/internal/cache"
	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/internal/repository"
	"github.com/weiawesome/social-search/pkg/log"
	"github.com/weiawesome/social-search/pkg/storage"
)

// flightTimeout bounds one shared search, which no caller can cancel.
const flightTimeout = 10 * time.Second

// Options configures a search service. Cache and Media are optional.
type Options struct {
	Cache       cache.SearchCache
	CacheTTL    time.Duration
	Defaults    domain.Limits
	AuthorLimit int
	Media       storage.URLResolver
	MediaExpiry time.Duration
}

type searchServiceImpl struct {
	repo        repository.SearchRepository
	cache       cache.SearchCache
	cacheTTL    time.Duration
	defaults    domain.Limits
	authorLimit int
	media       *mediaResolver
	sf          singleflight.Group
}

// NewSearchService creates a new search service.
func NewSearchService(repo repository.SearchRepository, opts Options) SearchService {
	defaults := opts.Defaults
	if defaults == (domain.Limits{}) {
		defaults = domain.DefaultLimits()
	}
	return &searchServiceImpl{
		repo:        repo,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		defaults:    defaults,
		authorLimit: opts.AuthorLimit,
		media:       newMediaResolver(opts.Media, opts.MediaExpiry),
	}
}

func (s *searchServiceImpl) Pattern(term string) string {
	return repository.NewMatch(term).Pattern
}

func (s *searchServiceImpl) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResultsBundle, error) {
	m := repository.NewMatch(req.Query)
	if m.Empty() {
		return domain.EmptyBundle(), nil
	}

	opts := FetchOptions{
		Term:        req.Query,
		ViewerID:    req.ViewerID,
		Defaults:    s.defaults,
		Limits:      req.Overrides(),
		AuthorLimit: s.authorLimit,
	}
	limits := opts.EffectiveLimits()

	sfKey := m.Term + "|" + req.ViewerID + "|" + limits.Key()
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.BuildKey("all", req.ViewerID, m.Term, limits)
		sfKey = cacheKey
	}

	// The flight is shared by every caller with the same key, so it must
	// not inherit one caller's cancellation. Each caller still stops
	// waiting when its own context ends.
	ch := s.sf.DoChan(sfKey, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return s.fetch(flightCtx, m, opts, cacheKey)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		l := log.Ctx(ctx)
		l.Debug().Err(ctx.Err()).Str(log.FieldQuery, m.Term).Msg("search abandoned by caller")
		return nil, ctx.Err()
	}

	if res.Err != nil {
		s.logFailure(ctx, m.Term, res.Err)
		return nil, res.Err
	}

	result, shared := res.Val, res.Shared
	bundle := result.(*domain.SearchResultsBundle)
	if shared {
		return cloneBundle(bundle), nil
	}
	return bundle, nil
}

// fetch serves one flight: cache first, then the remote queries.
func (s *searchServiceImpl) fetch(ctx context.Context, m repository.Match, opts FetchOptions, cacheKey string) (*domain.SearchResultsBundle, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldCacheKey, cacheKey).Msg("cache get error")
		}
	}

	start := time.Now()
	bundle, err := FetchSearchResults(ctx, s.repo, opts)
	if err != nil {
		return nil, err
	}
	s.media.Apply(ctx, bundle)

	l := log.Ctx(ctx)
	l.Debug().
		Str(log.FieldQuery, m.Term).
		Int("people", len(bundle.People)).
		Int("posts", len(bundle.Posts)).
		Int("teams", len(bundle.Teams)).
		Int("live", len(bundle.Live)).
		Int("music", len(bundle.Music)).
		Int("videos", len(bundle.Videos)).
		Int("comments", len(bundle.Comments)).
		Dur("took", time.Since(start)).
		Msg("search completed")

	if s.cache != nil {
		s.asyncCacheSet(cacheKey, bundle)
	}

	return bundle, nil
}

func (s *searchServiceImpl) logFailure(ctx context.Context, term string, err error) {
	l := log.Ctx(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		l.Debug().Err(err).Str(log.FieldQuery, term).Msg("search canceled")
		return
	case errors.Is(err, context.DeadlineExceeded):
		l.Warn().Err(err).Str(log.FieldQuery, term).Msg("search timed out")
		return
	}

	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		l.Error().Err(srcErr.Err).Str(log.FieldSource, srcErr.Source).Str(log.FieldQuery, term).Msg("search failed")
		return
	}
	l.Error().Err(err).Str(log.FieldQuery, term).Msg("search failed")
}

func (s *searchServiceImpl) asyncCacheSet(key string, bundle *domain.SearchResultsBundle) {
	snapshot := cloneBundle(bundle)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.cache.Set(ctx, key, snapshot, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache set error")
		}
	}()
}

// cloneBundle copies every list so callers sharing one flight result can
// not observe each other's edits.
func cloneBundle(b *domain.SearchResultsBundle) *domain.SearchResultsBundle {
	return &domain.SearchResultsBundle{
		People:   append([]domain.PersonResult{}, b.People...),
		Posts:    append([]domain.PostResult{}, b.Posts...),
		Teams:    append([]domain.TeamResult{}, b.Teams...),
		Live:     append([]domain.LiveResult{}, b.Live...),
		Music:    append([]domain.MusicTrackResult{}, b.Music...),
		Videos:   append([]domain.MusicVideoResult{}, b.Videos...),
		Comments: append([]domain.CommentResult{}, b.Comments...),
	}
}
