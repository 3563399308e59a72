package invalidation

import (
	"context"
	"fmt"

	"github.com/weiawesome/social-search/pkg/log"
	"github.com/weiawesome/social-search/pkg/pubsub"
)

// SearchableCollections are the tables whose changes can alter a search
// result.
var SearchableCollections = []string{
	"profiles",
	"posts",
	"team_feed_posts",
	"teams",
	"team_memberships",
	"profile_music_tracks",
	"profile_music_videos",
	"post_comments",
}

// Invalidator drops cached search results.
type Invalidator interface {
	InvalidateAll(ctx context.Context) (int64, error)
}

// Subscriber flushes the search cache whenever a searchable collection
// changes.
type Subscriber struct {
	bus         pubsub.Subscriber
	cache       Invalidator
	collections map[string]struct{}
}

// NewSubscriber creates a new content-change subscriber.
func NewSubscriber(bus pubsub.Subscriber, cache Invalidator) *Subscriber {
	collections := make(map[string]struct{}, len(SearchableCollections))
	for _, c := range SearchableCollections {
		collections[c] = struct{}{}
	}
	return &Subscriber{
		bus:         bus,
		cache:       cache,
		collections: collections,
	}
}

// Run consumes content-change events until ctx is done or the bus closes
// the subscription.
func (s *Subscriber) Run(ctx context.Context) error {
	events, err := s.bus.SubscribePattern(ctx, pubsub.PatternContentChanged)
	if err != nil {
		return fmt.Errorf("failed to subscribe to content changes: %w", err)
	}

	l := log.Ctx(ctx)
	l.Info().Str("pattern", pubsub.PatternContentChanged).Msg("listening for content changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ctx, event)
		}
	}
}

// Handle invalidates the cache for one event. Events for collections that
// do not feed search are ignored. It reports whether the cache was flushed.
func (s *Subscriber) Handle(ctx context.Context, event *pubsub.Event) bool {
	l := log.Ctx(ctx)
	if event == nil || event.Type != pubsub.EventContentChanged {
		return false
	}

	var payload pubsub.ContentChangedPayload
	if len(event.Payload) > 0 {
		if err := event.UnmarshalPayload(&payload); err != nil {
			l.Warn().Err(err).Msg("invalid content change payload")
		}
	}

	collection := event.Collection
	if collection == "" {
		collection = payload.Collection
	}
	if _, ok := s.collections[collection]; !ok {
		return false
	}

	removed, err := s.cache.InvalidateAll(ctx)
	if err != nil {
		l.Warn().Err(err).Str("collection", collection).Msg("search cache invalidation failed")
		return false
	}

	l.Debug().
		Str("collection", collection).
		Str("id", payload.ID).
		Str("op", payload.Op).
		Int64(log.FieldCount, removed).
		Msg("search cache invalidated")
	return true
}
