package domain

import "time"

// The models below are read-only projections of tables owned by the
// platform database. Optional columns are pointers so NULL survives the
// scan and the mappers can substitute display defaults.

// ProfileModel maps the profiles table.
type ProfileModel struct {
	ID              string    `gorm:"type:varchar(36);primaryKey"`
	Username        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName     *string   `gorm:"type:varchar(100)"`
	AvatarURL       *string   `gorm:"type:text"`
	AvatarColor     *string   `gorm:"type:varchar(20)"`
	Bio             *string   `gorm:"type:text"`
	FollowersCount  int       `gorm:"default:0;index"`
	IsLive          bool      `gorm:"default:false;index"`
	LiveTitle       *string   `gorm:"type:varchar(200)"`
	LiveViewerCount int       `gorm:"default:0"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ProfileModel.
func (ProfileModel) TableName() string {
	return "profiles"
}

// PostModel maps the global feed posts table.
type PostModel struct {
	ID         string        `gorm:"type:varchar(36);primaryKey"`
	UserID     string        `gorm:"type:varchar(36);index;not null"`
	Content    string        `gorm:"type:text"`
	MediaURL   *string       `gorm:"type:text"`
	LikesCount int           `gorm:"default:0"`
	CreatedAt  time.Time     `gorm:"autoCreateTime;index"`
	Author     *ProfileModel `gorm:"foreignKey:UserID"`

	// CommentCount is filled by a subquery over post_comments.
	CommentCount int `gorm:"->;-:migration"`
}

// TableName specifies the table name for PostModel.
func (PostModel) TableName() string {
	return "posts"
}

// TeamModel maps the teams table.
type TeamModel struct {
	ID                  string    `gorm:"type:varchar(36);primaryKey"`
	Name                string    `gorm:"type:varchar(100);not null"`
	Slug                string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description         *string   `gorm:"type:text"`
	AvatarURL           *string   `gorm:"type:text"`
	ApprovedMemberCount int       `gorm:"default:0;index"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for TeamModel.
func (TeamModel) TableName() string {
	return "teams"
}

// Membership statuses.
const (
	MembershipPending  = "pending"
	MembershipApproved = "approved"
)

// TeamMembershipModel maps the team_memberships table.
type TeamMembershipModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	TeamID    string    `gorm:"type:varchar(36);index;not null"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for TeamMembershipModel.
func (TeamMembershipModel) TableName() string {
	return "team_memberships"
}

// TeamFeedPostModel maps the team_feed_posts table.
type TeamFeedPostModel struct {
	ID            string        `gorm:"type:varchar(36);primaryKey"`
	TeamID        string        `gorm:"type:varchar(36);index;not null"`
	AuthorID      string        `gorm:"type:varchar(36);index;not null"`
	Content       string        `gorm:"type:text"`
	ReactionCount int           `gorm:"default:0"`
	CommentCount  int           `gorm:"default:0"`
	CreatedAt     time.Time     `gorm:"autoCreateTime;index"`
	Team          *TeamModel    `gorm:"foreignKey:TeamID"`
	Author        *ProfileModel `gorm:"foreignKey:AuthorID"`
}

// TableName specifies the table name for TeamFeedPostModel.
func (TeamFeedPostModel) TableName() string {
	return "team_feed_posts"
}

// MusicTrackModel maps the profile_music_tracks table.
type MusicTrackModel struct {
	ID         string        `gorm:"type:varchar(36);primaryKey"`
	ProfileID  string        `gorm:"type:varchar(36);index;not null"`
	Title      string        `gorm:"type:varchar(200);not null"`
	ArtistName *string       `gorm:"type:varchar(100)"`
	CoverURL   *string       `gorm:"type:text"`
	AudioURL   *string       `gorm:"type:text"`
	CreatedAt  time.Time     `gorm:"autoCreateTime;index"`
	Profile    *ProfileModel `gorm:"foreignKey:ProfileID"`
}

// TableName specifies the table name for MusicTrackModel.
func (MusicTrackModel) TableName() string {
	return "profile_music_tracks"
}

// MusicVideoModel maps the profile_music_videos table.
type MusicVideoModel struct {
	ID           string        `gorm:"type:varchar(36);primaryKey"`
	ProfileID    string        `gorm:"type:varchar(36);index;not null"`
	Title        string        `gorm:"type:varchar(200);not null"`
	ThumbnailURL *string       `gorm:"type:text"`
	VideoURL     *string       `gorm:"type:text"`
	CreatedAt    time.Time     `gorm:"autoCreateTime;index"`
	Profile      *ProfileModel `gorm:"foreignKey:ProfileID"`
}

// TableName specifies the table name for MusicVideoModel.
func (MusicVideoModel) TableName() string {
	return "profile_music_videos"
}

// CommentModel maps the post_comments table.
type CommentModel struct {
	ID        string        `gorm:"type:varchar(36);primaryKey"`
	PostID    string        `gorm:"type:varchar(36);index;not null"`
	UserID    string        `gorm:"type:varchar(36);index;not null"`
	Content   string        `gorm:"type:text"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index"`
	Author    *ProfileModel `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for CommentModel.
func (CommentModel) TableName() string {
	return "post_comments"
}

// AllModels lists every model, for migrations in development and tests.
func AllModels() []interface{} {
	return []interface{}{
		&ProfileModel{},
		&PostModel{},
		&TeamModel{},
		&TeamMembershipModel{},
		&TeamFeedPostModel{},
		&MusicTrackModel{},
		&MusicVideoModel{},
		&CommentModel{},
	}
}
