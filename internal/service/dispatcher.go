package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/internal/repository"
)

// DefaultAuthorLimit caps how many matching profiles feed the by-author
// queries.
const DefaultAuthorLimit = 20

// FetchOptions describes one search.
type FetchOptions struct {
	Term string
	// ViewerID is the authenticated caller. Team posts are only searched
	// for a viewer with approved memberships.
	ViewerID string
	// Defaults are the configured caps; zero means domain.DefaultLimits.
	Defaults domain.Limits
	// Limits are per-request overrides, applied where positive.
	Limits      domain.Limits
	AuthorLimit int
}

// EffectiveLimits returns the caps a search with these options uses.
func (o FetchOptions) EffectiveLimits() domain.Limits {
	base := o.Defaults
	if base == (domain.Limits{}) {
		base = domain.DefaultLimits()
	}
	return base.Merge(o.Limits)
}

type rawResults struct {
	people        []domain.ProfileModel
	posts         []domain.PostModel
	postsByAuthor []domain.PostModel
	teamPosts     []domain.TeamFeedPostModel
	teams         []domain.TeamModel
	live          []domain.ProfileModel
	tracks        []domain.MusicTrackModel
	tracksByOwner []domain.MusicTrackModel
	videos        []domain.MusicVideoModel
	videosByOwner []domain.MusicVideoModel
	comments      []domain.CommentModel
}

// FetchSearchResults runs every query behind one search and assembles the
// bundle. An empty term returns the empty bundle without touching repo.
// The first failing query cancels the rest and is returned as a *SourceError.
func FetchSearchResults(ctx context.Context, repo repository.SearchRepository, opts FetchOptions) (*domain.SearchResultsBundle, error) {
	m := repository.NewMatch(opts.Term)
	if m.Empty() {
		return domain.EmptyBundle(), nil
	}

	limits := opts.EffectiveLimits()
	authorLimit := opts.AuthorLimit
	if authorLimit <= 0 {
		authorLimit = DefaultAuthorLimit
	}

	var teamIDs, authorIDs []string

	g, gCtx := errgroup.WithContext(ctx)
	if opts.ViewerID != "" {
		g.Go(func() error {
			ids, err := repo.TeamIDsForUser(gCtx, opts.ViewerID)
			if err != nil {
				return &SourceError{Source: SourceTeamMemberships, Err: err}
			}
			teamIDs = ids
			return nil
		})
	}
	g.Go(func() error {
		ids, err := repo.MatchingProfileIDs(gCtx, m, authorLimit)
		if err != nil {
			return &SourceError{Source: SourceMatchingProfiles, Err: err}
		}
		authorIDs = DedupeByID(ids, func(id string) string { return id })
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw, err := fanOut(ctx, repo, m, limits, teamIDs, authorIDs)
	if err != nil {
		return nil, err
	}

	return assemble(raw, limits), nil
}

// query runs fn in g and tags its error with source.
func query[T any](g *errgroup.Group, source string, dst *[]T, fn func() ([]T, error)) {
	g.Go(func() error {
		rows, err := fn()
		if err != nil {
			return &SourceError{Source: source, Err: err}
		}
		*dst = rows
		return nil
	})
}

func fanOut(ctx context.Context, repo repository.SearchRepository, m repository.Match, limits domain.Limits, teamIDs, authorIDs []string) (*rawResults, error) {
	var r rawResults
	postFetch := limits.PostFetchLimit()

	g, gCtx := errgroup.WithContext(ctx)

	query(g, SourcePeople, &r.people, func() ([]domain.ProfileModel, error) {
		return repo.SearchProfiles(gCtx, m, limits.People)
	})
	query(g, SourcePosts, &r.posts, func() ([]domain.PostModel, error) {
		return repo.SearchPosts(gCtx, m, postFetch)
	})
	if len(teamIDs) > 0 {
		query(g, SourceTeamPosts, &r.teamPosts, func() ([]domain.TeamFeedPostModel, error) {
			return repo.SearchTeamPosts(gCtx, m, teamIDs, postFetch)
		})
	}
	query(g, SourceTeams, &r.teams, func() ([]domain.TeamModel, error) {
		return repo.SearchTeams(gCtx, m, limits.Teams)
	})
	query(g, SourceLive, &r.live, func() ([]domain.ProfileModel, error) {
		return repo.SearchLiveProfiles(gCtx, m, limits.Live)
	})
	query(g, SourceMusic, &r.tracks, func() ([]domain.MusicTrackModel, error) {
		return repo.SearchTracks(gCtx, m, limits.Music)
	})
	query(g, SourceVideos, &r.videos, func() ([]domain.MusicVideoModel, error) {
		return repo.SearchVideos(gCtx, m, limits.Videos)
	})
	query(g, SourceComments, &r.comments, func() ([]domain.CommentModel, error) {
		return repo.SearchComments(gCtx, m, limits.Comments)
	})

	if len(authorIDs) > 0 {
		query(g, SourcePostsByAuthor, &r.postsByAuthor, func() ([]domain.PostModel, error) {
			return repo.PostsByAuthors(gCtx, authorIDs, postFetch)
		})
		query(g, SourceMusicByArtist, &r.tracksByOwner, func() ([]domain.MusicTrackModel, error) {
			return repo.TracksByArtists(gCtx, authorIDs, limits.Music)
		})
		query(g, SourceVideosByArtist, &r.videosByOwner, func() ([]domain.MusicVideoModel, error) {
			return repo.VideosByArtists(gCtx, authorIDs, limits.Videos)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &r, nil
}

func assemble(r *rawResults, limits domain.Limits) *domain.SearchResultsBundle {
	b := domain.EmptyBundle()

	b.People = append(b.People, mapIndexed(truncate(r.people, limits.People), mapPerson)...)
	b.Teams = append(b.Teams, mapIndexed(truncate(r.teams, limits.Teams), mapTeam)...)
	b.Live = append(b.Live, mapIndexed(truncate(r.live, limits.Live), mapLive)...)
	b.Comments = append(b.Comments, mapIndexed(truncate(r.comments, limits.Comments), mapComment)...)

	posts := MergeByRecency(limits.Posts, postID, postCreatedAt,
		mapEach(r.posts, mapFeedPost),
		mapEach(r.postsByAuthor, mapFeedPost),
		mapEach(r.teamPosts, mapTeamPost),
	)
	for i := range posts {
		if posts[i].AvatarColor == "" {
			posts[i].AvatarColor = domain.AvatarColor(i)
		}
	}
	b.Posts = append(b.Posts, posts...)

	b.Music = append(b.Music, MergeByRecency(limits.Music,
		func(t domain.MusicTrackResult) string { return t.ID },
		func(t domain.MusicTrackResult) time.Time { return t.CreatedAt },
		mapEach(r.tracks, mapTrack),
		mapEach(r.tracksByOwner, mapTrack),
	)...)

	b.Videos = append(b.Videos, MergeByRecency(limits.Videos,
		func(v domain.MusicVideoResult) string { return v.ID },
		func(v domain.MusicVideoResult) time.Time { return v.CreatedAt },
		mapEach(r.videos, mapVideo),
		mapEach(r.videosByOwner, mapVideo),
	)...)

	return b
}

func postID(p domain.PostResult) string {
	return p.ID
}

func postCreatedAt(p domain.PostResult) time.Time {
	return p.CreatedAt
}
