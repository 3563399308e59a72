package service

import (
	"context"
	"time"

	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/pkg/log"
	"github.com/weiawesome/social-search/pkg/storage"
)

const defaultMediaURLExpiry = time.Hour

// mediaResolver rewrites bundle fields that hold storage object keys into
// loadable URLs. Values that are already URLs are left untouched.
type mediaResolver struct {
	urls    storage.URLResolver
	expires time.Duration
}

func newMediaResolver(urls storage.URLResolver, expires time.Duration) *mediaResolver {
	if urls == nil {
		return nil
	}
	if expires <= 0 {
		expires = defaultMediaURLExpiry
	}
	return &mediaResolver{urls: urls, expires: expires}
}

func (r *mediaResolver) resolve(ctx context.Context, field *string) {
	if !storage.IsObjectKey(*field) {
		return
	}
	u, err := r.urls.GetURL(ctx, *field, r.expires)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("key", *field).Msg("media url resolution failed")
		return
	}
	*field = u
}

// Apply resolves every media field of b in place.
func (r *mediaResolver) Apply(ctx context.Context, b *domain.SearchResultsBundle) {
	if r == nil || b == nil {
		return
	}
	for i := range b.People {
		r.resolve(ctx, &b.People[i].AvatarURL)
	}
	for i := range b.Posts {
		r.resolve(ctx, &b.Posts[i].MediaURL)
		r.resolve(ctx, &b.Posts[i].AuthorAvatarURL)
	}
	for i := range b.Teams {
		r.resolve(ctx, &b.Teams[i].AvatarURL)
	}
	for i := range b.Live {
		r.resolve(ctx, &b.Live[i].AvatarURL)
	}
	for i := range b.Music {
		r.resolve(ctx, &b.Music[i].CoverURL)
		r.resolve(ctx, &b.Music[i].AudioURL)
	}
	for i := range b.Videos {
		r.resolve(ctx, &b.Videos[i].ThumbnailURL)
		r.resolve(ctx, &b.Videos[i].VideoURL)
	}
}
