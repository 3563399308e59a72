package domain

import "time"

// SearchRequest is the unified search request. Limit fields override the
// configured per-category caps when positive.
type SearchRequest struct {
	Query    string `form:"q"`
	People   int    `form:"people" binding:"omitempty,min=0"`
	Posts    int    `form:"posts" binding:"omitempty,min=0"`
	Teams    int    `form:"teams" binding:"omitempty,min=0"`
	Live     int    `form:"live" binding:"omitempty,min=0"`
	Music    int    `form:"music" binding:"omitempty,min=0"`
	Videos   int    `form:"videos" binding:"omitempty,min=0"`
	Comments int    `form:"comments" binding:"omitempty,min=0"`

	// ViewerID is the authenticated caller, empty for anonymous requests.
	ViewerID string `form:"-" json:"-"`
}

// Overrides returns the request's limit fields as a Limits value.
func (r *SearchRequest) Overrides() Limits {
	return Limits{
		People:   r.People,
		Posts:    r.Posts,
		Teams:    r.Teams,
		Live:     r.Live,
		Music:    r.Music,
		Videos:   r.Videos,
		Comments: r.Comments,
	}
}

// PostSource tells which collection a post came from.
type PostSource string

const (
	PostSourceFeed PostSource = "feed"
	PostSourceTeam PostSource = "team"
)

// PersonResult is a profile match.
type PersonResult struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"displayName"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
	AvatarColor    string `json:"avatarColor"`
	Bio            string `json:"bio,omitempty"`
	FollowersCount int    `json:"followersCount"`
	IsLive         bool   `json:"isLive"`
	Href           string `json:"href"`
}

// PostResult is a feed or team post match.
type PostResult struct {
	ID              string     `json:"id"`
	Source          PostSource `json:"source"`
	Content         string     `json:"content"`
	MediaURL        string     `json:"mediaUrl,omitempty"`
	AuthorID        string     `json:"authorId"`
	AuthorName      string     `json:"authorName"`
	AuthorUsername  string     `json:"authorUsername,omitempty"`
	AuthorAvatarURL string     `json:"authorAvatarUrl,omitempty"`
	AvatarColor     string     `json:"avatarColor"`
	LikeCount       int        `json:"likeCount"`
	CommentCount    int        `json:"commentCount"`
	TeamName        string     `json:"teamName,omitempty"`
	TeamHref        string     `json:"teamHref,omitempty"`
	Href            string     `json:"href"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// TeamResult is a team match.
type TeamResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	AvatarColor string `json:"avatarColor"`
	MemberCount int    `json:"memberCount"`
	Href        string `json:"href"`
}

// LiveResult is a profile that is currently streaming.
type LiveResult struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	AvatarColor string `json:"avatarColor"`
	Title       string `json:"title"`
	ViewerCount int    `json:"viewerCount"`
	Href        string `json:"href"`
}

// MusicTrackResult is a music track match.
type MusicTrackResult struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ArtistID   string    `json:"artistId"`
	ArtistName string    `json:"artistName"`
	CoverURL   string    `json:"coverUrl,omitempty"`
	AudioURL   string    `json:"audioUrl,omitempty"`
	Href       string    `json:"href"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MusicVideoResult is a music video match.
type MusicVideoResult struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ArtistID     string    `json:"artistId"`
	ArtistName   string    `json:"artistName"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	Href         string    `json:"href"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CommentResult is a post comment match.
type CommentResult struct {
	ID             string    `json:"id"`
	PostID         string    `json:"postId"`
	Content        string    `json:"content"`
	AuthorName     string    `json:"authorName"`
	AuthorUsername string    `json:"authorUsername,omitempty"`
	AvatarColor    string    `json:"avatarColor"`
	Href           string    `json:"href"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SearchResultsBundle is the per-category result of one search.
type SearchResultsBundle struct {
	People   []PersonResult     `json:"people"`
	Posts    []PostResult       `json:"posts"`
	Teams    []TeamResult       `json:"teams"`
	Live     []LiveResult       `json:"live"`
	Music    []MusicTrackResult `json:"music"`
	Videos   []MusicVideoResult `json:"videos"`
	Comments []CommentResult    `json:"comments"`
}

// EmptyBundle returns a bundle whose lists are empty but non-nil, so it
// serializes with [] rather than null.
func EmptyBundle() *SearchResultsBundle {
	return &SearchResultsBundle{
		People:   []PersonResult{},
		Posts:    []PostResult{},
		Teams:    []TeamResult{},
		Live:     []LiveResult{},
		Music:    []MusicTrackResult{},
		Videos:   []MusicVideoResult{},
		Comments: []CommentResult{},
	}
}
