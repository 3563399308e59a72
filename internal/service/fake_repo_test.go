package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/internal/repository"
)

var errBoom = errors.New("boom")

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func ptr(s string) *string {
	return &s
}

// fakeRepo serves canned rows and records every call by source name.
type fakeRepo struct {
	mu       sync.Mutex
	calls    map[string]int
	limits   map[string]int
	patterns []string
	viewer   string
	authors  []string
	teamArgs []string
	failOn   string

	profiles       []domain.ProfileModel
	live           []domain.ProfileModel
	authorIDs      []string
	teamIDs        []string
	posts          []domain.PostModel
	postsByAuthor  []domain.PostModel
	teamPosts      []domain.TeamFeedPostModel
	teams          []domain.TeamModel
	tracks         []domain.MusicTrackModel
	tracksByArtist []domain.MusicTrackModel
	videos         []domain.MusicVideoModel
	videosByArtist []domain.MusicVideoModel
	comments       []domain.CommentModel
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		calls:  make(map[string]int),
		limits: make(map[string]int),
	}
}

func (f *fakeRepo) record(source string, pattern string, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[source]++
	f.limits[source] = limit
	if pattern != "" {
		f.patterns = append(f.patterns, pattern)
	}
	if f.failOn == source {
		return errBoom
	}
	return nil
}

func (f *fakeRepo) called(source string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[source]
}

func (f *fakeRepo) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRepo) MatchingProfileIDs(_ context.Context, m repository.Match, limit int) ([]string, error) {
	if err := f.record(SourceMatchingProfiles, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.authorIDs, limit), nil
}

func (f *fakeRepo) SearchProfiles(_ context.Context, m repository.Match, limit int) ([]domain.ProfileModel, error) {
	if err := f.record(SourcePeople, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.profiles, limit), nil
}

func (f *fakeRepo) SearchLiveProfiles(_ context.Context, m repository.Match, limit int) ([]domain.ProfileModel, error) {
	if err := f.record(SourceLive, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.live, limit), nil
}

func (f *fakeRepo) SearchPosts(_ context.Context, m repository.Match, limit int) ([]domain.PostModel, error) {
	if err := f.record(SourcePosts, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.posts, limit), nil
}

func (f *fakeRepo) PostsByAuthors(_ context.Context, ids []string, limit int) ([]domain.PostModel, error) {
	f.mu.Lock()
	f.authors = ids
	f.mu.Unlock()
	if err := f.record(SourcePostsByAuthor, "", limit); err != nil {
		return nil, err
	}
	return truncate(f.postsByAuthor, limit), nil
}

func (f *fakeRepo) SearchTeamPosts(_ context.Context, m repository.Match, teamIDs []string, limit int) ([]domain.TeamFeedPostModel, error) {
	f.mu.Lock()
	f.teamArgs = teamIDs
	f.mu.Unlock()
	if err := f.record(SourceTeamPosts, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.teamPosts, limit), nil
}

func (f *fakeRepo) SearchTeams(_ context.Context, m repository.Match, limit int) ([]domain.TeamModel, error) {
	if err := f.record(SourceTeams, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.teams, limit), nil
}

func (f *fakeRepo) SearchTracks(_ context.Context, m repository.Match, limit int) ([]domain.MusicTrackModel, error) {
	if err := f.record(SourceMusic, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.tracks, limit), nil
}

func (f *fakeRepo) TracksByArtists(_ context.Context, _ []string, limit int) ([]domain.MusicTrackModel, error) {
	if err := f.record(SourceMusicByArtist, "", limit); err != nil {
		return nil, err
	}
	return truncate(f.tracksByArtist, limit), nil
}

func (f *fakeRepo) SearchVideos(_ context.Context, m repository.Match, limit int) ([]domain.MusicVideoModel, error) {
	if err := f.record(SourceVideos, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.videos, limit), nil
}

func (f *fakeRepo) VideosByArtists(_ context.Context, _ []string, limit int) ([]domain.MusicVideoModel, error) {
	if err := f.record(SourceVideosByArtist, "", limit); err != nil {
		return nil, err
	}
	return truncate(f.videosByArtist, limit), nil
}

func (f *fakeRepo) SearchComments(_ context.Context, m repository.Match, limit int) ([]domain.CommentModel, error) {
	if err := f.record(SourceComments, m.Pattern, limit); err != nil {
		return nil, err
	}
	return truncate(f.comments, limit), nil
}

func (f *fakeRepo) TeamIDsForUser(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	f.viewer = userID
	f.mu.Unlock()
	if err := f.record(SourceTeamMemberships, "", 0); err != nil {
		return nil, err
	}
	return f.teamIDs, nil
}
