package repository

import (
	"context"

	"github.com/weiawesome/social-search/internal/domain"
)

// ProfileSearcher answers the profile-side queries. Results are ordered
// as documented on each method.
type ProfileSearcher interface {
	// MatchingProfileIDs returns ids of profiles whose username or display
	// name matches.
	MatchingProfileIDs(ctx context.Context, m Match, limit int) ([]string, error)
	// SearchProfiles matches username, display name or bio, by followers desc.
	SearchProfiles(ctx context.Context, m Match, limit int) ([]domain.ProfileModel, error)
	// SearchLiveProfiles matches live profiles by username or display name, by username asc.
	SearchLiveProfiles(ctx context.Context, m Match, limit int) ([]domain.ProfileModel, error)
}

// ContentSearcher answers the content-side queries. Every list is ordered
// by creation time descending unless noted.
type ContentSearcher interface {
	SearchPosts(ctx context.Context, m Match, limit int) ([]domain.PostModel, error)
	PostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]domain.PostModel, error)
	SearchTeamPosts(ctx context.Context, m Match, teamIDs []string, limit int) ([]domain.TeamFeedPostModel, error)
	// SearchTeams is ordered by approved member count desc.
	SearchTeams(ctx context.Context, m Match, limit int) ([]domain.TeamModel, error)
	SearchTracks(ctx context.Context, m Match, limit int) ([]domain.MusicTrackModel, error)
	TracksByArtists(ctx context.Context, profileIDs []string, limit int) ([]domain.MusicTrackModel, error)
	SearchVideos(ctx context.Context, m Match, limit int) ([]domain.MusicVideoModel, error)
	VideosByArtists(ctx context.Context, profileIDs []string, limit int) ([]domain.MusicVideoModel, error)
	SearchComments(ctx context.Context, m Match, limit int) ([]domain.CommentModel, error)
	// TeamIDsForUser returns the teams userID is an approved member of.
	TeamIDsForUser(ctx context.Context, userID string) ([]string, error)
}

// SearchRepository is the full set of remote queries behind one search.
type SearchRepository interface {
	ProfileSearcher
	ContentSearcher
}

type splitRepository struct {
	ProfileSearcher
	ContentSearcher
}

// NewSplitRepository serves profile queries from profiles and everything
// else from content.
func NewSplitRepository(profiles ProfileSearcher, content ContentSearcher) SearchRepository {
	return &splitRepository{
		ProfileSearcher: profiles,
		ContentSearcher: content,
	}
}
