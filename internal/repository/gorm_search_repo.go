package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/pkg/log"
)

const postColumns = "posts.*, (SELECT COUNT(*) FROM post_comments WHERE post_comments.post_id = posts.id) AS comment_count"

// GormSearchRepository implements SearchRepository using GORM.
type GormSearchRepository struct {
	db *gorm.DB
	// escape is appended to every LIKE; sqlite has no default escape character.
	escape string
}

// NewGormSearchRepository creates a new GORM-based search repository.
func NewGormSearchRepository(db *gorm.DB) *GormSearchRepository {
	r := &GormSearchRepository{db: db}
	if db.Dialector.Name() == "sqlite" {
		r.escape = ` ESCAPE '\'`
	}
	return r
}

// like builds a case-insensitive contains condition over columns, OR-ed.
// It expects one pattern argument per column. The pattern is folded with
// strings.ToLower, which covers Unicode; sqlite's LOWER folds ASCII only,
// so stored non-ASCII capitals (e.g. "É") only match there when the
// stored text is already lowercase. Postgres and MySQL fold both.
func (r *GormSearchRepository) like(columns ...string) string {
	conds := make([]string, len(columns))
	for i, c := range columns {
		conds[i] = "LOWER(" + c + ") LIKE ?" + r.escape
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}

func patternArgs(m Match, n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = m.Pattern
	}
	return args
}

func find[T any](ctx context.Context, q *gorm.DB, what string) ([]T, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldSource, what).Msg("search query failed")
		return nil, err
	}
	return rows, nil
}

// MatchingProfileIDs returns ids of profiles whose username or display name matches.
func (r *GormSearchRepository) MatchingProfileIDs(ctx context.Context, m Match, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.ProfileModel{}).
		Where(r.like("username", "display_name"), patternArgs(m, 2)...).
		Order("followers_count DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to resolve matching profile ids")
		return nil, err
	}
	return ids, nil
}

// SearchProfiles matches username, display name or bio.
func (r *GormSearchRepository) SearchProfiles(ctx context.Context, m Match, limit int) ([]domain.ProfileModel, error) {
	q := r.db.WithContext(ctx).
		Where(r.like("username", "display_name", "bio"), patternArgs(m, 3)...).
		Order("followers_count DESC").
		Limit(limit)
	return find[domain.ProfileModel](ctx, q, "people")
}

// SearchLiveProfiles matches profiles that are live.
func (r *GormSearchRepository) SearchLiveProfiles(ctx context.Context, m Match, limit int) ([]domain.ProfileModel, error) {
	q := r.db.WithContext(ctx).
		Where("is_live = ?", true).
		Where(r.like("username", "display_name"), patternArgs(m, 2)...).
		Order("username ASC").
		Limit(limit)
	return find[domain.ProfileModel](ctx, q, "live")
}

func (r *GormSearchRepository) posts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.PostModel{}).
		Select(postColumns).
		Preload("Author").
		Order("posts.created_at DESC")
}

// SearchPosts matches feed post content.
func (r *GormSearchRepository) SearchPosts(ctx context.Context, m Match, limit int) ([]domain.PostModel, error) {
	q := r.posts(ctx).
		Where(r.like("posts.content"), m.Pattern).
		Limit(limit)
	return find[domain.PostModel](ctx, q, "posts")
}

// PostsByAuthors returns the latest feed posts of the given authors.
func (r *GormSearchRepository) PostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]domain.PostModel, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	q := r.posts(ctx).
		Where("posts.user_id IN ?", authorIDs).
		Limit(limit)
	return find[domain.PostModel](ctx, q, "posts_by_author")
}

// SearchTeamPosts matches team feed posts within teamIDs only.
func (r *GormSearchRepository) SearchTeamPosts(ctx context.Context, m Match, teamIDs []string, limit int) ([]domain.TeamFeedPostModel, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).
		Preload("Team").
		Preload("Author").
		Where("team_id IN ?", teamIDs).
		Where(r.like("content"), m.Pattern).
		Order("created_at DESC").
		Limit(limit)
	return find[domain.TeamFeedPostModel](ctx, q, "team_posts")
}

// SearchTeams matches team name or description.
func (r *GormSearchRepository) SearchTeams(ctx context.Context, m Match, limit int) ([]domain.TeamModel, error) {
	q := r.db.WithContext(ctx).
		Where(r.like("name", "description"), patternArgs(m, 2)...).
		Order("approved_member_count DESC").
		Limit(limit)
	return find[domain.TeamModel](ctx, q, "teams")
}

// SearchTracks matches track titles.
func (r *GormSearchRepository) SearchTracks(ctx context.Context, m Match, limit int) ([]domain.MusicTrackModel, error) {
	q := r.db.WithContext(ctx).
		Preload("Profile").
		Where(r.like("title"), m.Pattern).
		Order("created_at DESC").
		Limit(limit)
	return find[domain.MusicTrackModel](ctx, q, "music")
}

// TracksByArtists returns the latest tracks owned by the given profiles.
func (r *GormSearchRepository) TracksByArtists(ctx context.Context, profileIDs []string, limit int) ([]domain.MusicTrackModel, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).
		Preload("Profile").
		Where("profile_id IN ?", profileIDs).
		Order("created_at DESC").
		Limit(limit)
	return find[domain.MusicTrackModel](ctx, q, "music_by_artist")
}

// SearchVideos matches video titles.
func (r *GormSearchRepository) SearchVideos(ctx context.Context, m Match, limit int) ([]domain.MusicVideoModel, error) {
	q := r.db.WithContext(ctx).
		Preload("Profile").
		Where(r.like("title"), m.Pattern).
		Order("created_at DESC").
		Limit(limit)
	return find[domain.MusicVideoModel](ctx, q, "videos")
}

// VideosByArtists returns the latest videos owned by the given profiles.
func (r *GormSearchRepository) VideosByArtists(ctx context.Context, profileIDs []string, limit int) ([]domain.MusicVideoModel, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).
		Preload("Profile").
		Where("profile_id IN ?", profileIDs).
		Order("created_at DESC").
		Limit(limit)
	return find[domain.MusicVideoModel](ctx, q, "videos_by_artist")
}

// SearchComments matches comment content.
func (r *GormSearchRepository) SearchComments(ctx context.Context, m Match, limit int) ([]domain.CommentModel, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Where(r.like("content"), m.Pattern).
		Order("created_at DESC").
		Limit(limit)
	return find[domain.CommentModel](ctx, q, "comments")
}

// TeamIDsForUser returns the teams userID is an approved member of.
func (r *GormSearchRepository) TeamIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.TeamMembershipModel{}).
		Where("user_id = ? AND status = ?", userID, domain.MembershipApproved).
		Pluck("team_id", &ids).Error
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to load team memberships")
		return nil, err
	}
	return ids, nil
}

// Ensure interface is satisfied at compile time.
var _ SearchRepository = (*GormSearchRepository)(nil)
