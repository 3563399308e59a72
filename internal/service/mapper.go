package service

import (
	"net/url"

	"github.com/weiawesome/social-search/internal/domain"
)

// Mappers turn one row into one result. They never fail: missing
// optional fields become display defaults.

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func colorOr(explicit *string, index int) string {
	if c := str(explicit); c != "" {
		return c
	}
	return domain.AvatarColor(index)
}

func profileHref(username string) string {
	if username == "" {
		return "/profile"
	}
	return "/profile/" + url.PathEscape(username)
}

func teamHref(slug string) string {
	if slug == "" {
		return "/teams"
	}
	return "/teams/" + url.PathEscape(slug)
}

func mapPerson(p domain.ProfileModel, index int) domain.PersonResult {
	return domain.PersonResult{
		ID:             p.ID,
		Username:       p.Username,
		DisplayName:    domain.DisplayName(p.DisplayName, p.Username),
		AvatarURL:      str(p.AvatarURL),
		AvatarColor:    colorOr(p.AvatarColor, index),
		Bio:            str(p.Bio),
		FollowersCount: p.FollowersCount,
		IsLive:         p.IsLive,
		Href:           profileHref(p.Username),
	}
}

func mapLive(p domain.ProfileModel, index int) domain.LiveResult {
	name := domain.DisplayName(p.DisplayName, p.Username)
	title := str(p.LiveTitle)
	if title == "" {
		title = name + " is live"
	}
	href := "/live"
	if p.Username != "" {
		href = "/live/" + url.PathEscape(p.Username)
	}
	return domain.LiveResult{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: name,
		AvatarURL:   str(p.AvatarURL),
		AvatarColor: colorOr(p.AvatarColor, index),
		Title:       title,
		ViewerCount: p.LiveViewerCount,
		Href:        href,
	}
}

// authorFields extracts display fields from an optional author. The color
// is left empty when the author has none; it is assigned by final position.
func authorFields(a *domain.ProfileModel) (name, username, avatarURL, color string) {
	if a == nil {
		return domain.PlaceholderName, "", "", ""
	}
	return domain.DisplayName(a.DisplayName, a.Username), a.Username, str(a.AvatarURL), str(a.AvatarColor)
}

func mapFeedPost(p domain.PostModel) domain.PostResult {
	name, username, avatar, color := authorFields(p.Author)
	return domain.PostResult{
		ID:              p.ID,
		Source:          domain.PostSourceFeed,
		Content:         p.Content,
		MediaURL:        str(p.MediaURL),
		AuthorID:        p.UserID,
		AuthorName:      name,
		AuthorUsername:  username,
		AuthorAvatarURL: avatar,
		AvatarColor:     color,
		LikeCount:       p.LikesCount,
		CommentCount:    p.CommentCount,
		Href:            "/posts/" + url.PathEscape(p.ID),
		CreatedAt:       p.CreatedAt,
	}
}

func mapTeamPost(p domain.TeamFeedPostModel) domain.PostResult {
	name, username, avatar, color := authorFields(p.Author)

	teamName, slug := "Team", ""
	if p.Team != nil {
		slug = p.Team.Slug
		if p.Team.Name != "" {
			teamName = p.Team.Name
		}
	}
	th := teamHref(slug)

	return domain.PostResult{
		ID:              p.ID,
		Source:          domain.PostSourceTeam,
		Content:         p.Content,
		AuthorID:        p.AuthorID,
		AuthorName:      name,
		AuthorUsername:  username,
		AuthorAvatarURL: avatar,
		AvatarColor:     color,
		LikeCount:       p.ReactionCount,
		CommentCount:    p.CommentCount,
		TeamName:        teamName,
		TeamHref:        th,
		Href:            th + "/posts/" + url.PathEscape(p.ID),
		CreatedAt:       p.CreatedAt,
	}
}

func mapTeam(t domain.TeamModel, index int) domain.TeamResult {
	name := t.Name
	if name == "" {
		name = domain.PlaceholderName
	}
	return domain.TeamResult{
		ID:          t.ID,
		Name:        name,
		Slug:        t.Slug,
		Description: str(t.Description),
		AvatarURL:   str(t.AvatarURL),
		AvatarColor: domain.AvatarColor(index),
		MemberCount: t.ApprovedMemberCount,
		Href:        teamHref(t.Slug),
	}
}

func artistName(explicit *string, owner *domain.ProfileModel) string {
	if n := str(explicit); n != "" {
		return n
	}
	if owner == nil {
		return domain.PlaceholderName
	}
	return domain.DisplayName(owner.DisplayName, owner.Username)
}

func mapTrack(t domain.MusicTrackModel) domain.MusicTrackResult {
	return domain.MusicTrackResult{
		ID:         t.ID,
		Title:      t.Title,
		ArtistID:   t.ProfileID,
		ArtistName: artistName(t.ArtistName, t.Profile),
		CoverURL:   str(t.CoverURL),
		AudioURL:   str(t.AudioURL),
		Href:       "/music/tracks/" + url.PathEscape(t.ID),
		CreatedAt:  t.CreatedAt,
	}
}

func mapVideo(v domain.MusicVideoModel) domain.MusicVideoResult {
	return domain.MusicVideoResult{
		ID:           v.ID,
		Title:        v.Title,
		ArtistID:     v.ProfileID,
		ArtistName:   artistName(nil, v.Profile),
		ThumbnailURL: str(v.ThumbnailURL),
		VideoURL:     str(v.VideoURL),
		Href:         "/music/videos/" + url.PathEscape(v.ID),
		CreatedAt:    v.CreatedAt,
	}
}

func mapComment(c domain.CommentModel, index int) domain.CommentResult {
	name, username, _, color := authorFields(c.Author)
	if color == "" {
		color = domain.AvatarColor(index)
	}
	return domain.CommentResult{
		ID:             c.ID,
		PostID:         c.PostID,
		Content:        c.Content,
		AuthorName:     name,
		AuthorUsername: username,
		AvatarColor:    color,
		Href:           "/posts/" + url.PathEscape(c.PostID) + "#comment-" + url.PathEscape(c.ID),
		CreatedAt:      c.CreatedAt,
	}
}

func mapEach[S, D any](rows []S, fn func(S) D) []D {
	out := make([]D, len(rows))
	for i, r := range rows {
		out[i] = fn(r)
	}
	return out
}

func mapIndexed[S, D any](rows []S, fn func(S, int) D) []D {
	out := make([]D, len(rows))
	for i, r := range rows {
		out[i] = fn(r, i)
	}
	return out
}
