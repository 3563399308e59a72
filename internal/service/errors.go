package service

import "fmt"

// Source names identify which remote query failed.
const (
	SourceTeamMemberships  = "team_memberships"
	SourceMatchingProfiles = "matching_profiles"
	SourcePeople           = "people"
	SourcePosts            = "posts"
	SourcePostsByAuthor    = "posts_by_author"
	SourceTeamPosts        = "team_posts"
	SourceTeams            = "teams"
	SourceLive             = "live"
	SourceMusic            = "music"
	SourceMusicByArtist    = "music_by_artist"
	SourceVideos           = "videos"
	SourceVideosByArtist   = "videos_by_artist"
	SourceComments         = "comments"
)

// SourceError reports the remote query that made a search fail.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("search %s failed: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
