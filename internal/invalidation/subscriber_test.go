package invalidation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/social-search/pkg/pubsub"
)

type countingCache struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingCache) InvalidateAll(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 3, c.err
}

func (c *countingCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type chanBus struct {
	ch      chan *pubsub.Event
	pattern string
	err     error
}

func (b *chanBus) Subscribe(context.Context, string) (<-chan *pubsub.Event, error) {
	return nil, errors.New("not supported")
}

func (b *chanBus) SubscribePattern(_ context.Context, pattern string) (<-chan *pubsub.Event, error) {
	b.pattern = pattern
	if b.err != nil {
		return nil, b.err
	}
	return b.ch, nil
}

func (b *chanBus) Unsubscribe(context.Context, string) error { return nil }

func changed(t *testing.T, collection string) *pubsub.Event {
	t.Helper()
	e, err := pubsub.NewContentChangedEvent(collection, "row-1", pubsub.OpUpdate)
	require.NoError(t, err)
	return e
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name  string
		event func(t *testing.T) *pubsub.Event
		want  bool
	}{
		{"profile change", func(t *testing.T) *pubsub.Event { return changed(t, "profiles") }, true},
		{"comment change", func(t *testing.T) *pubsub.Event { return changed(t, "post_comments") }, true},
		{"unrelated collection", func(t *testing.T) *pubsub.Event { return changed(t, "swipes") }, false},
		{"other event type", func(t *testing.T) *pubsub.Event {
			e := changed(t, "posts")
			e.Type = "something_else"
			return e
		}, false},
		{"collection only in payload", func(t *testing.T) *pubsub.Event {
			e := changed(t, "teams")
			e.Collection = ""
			return e
		}, true},
		{"nil event", func(t *testing.T) *pubsub.Event { return nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &countingCache{}
			s := NewSubscriber(&chanBus{}, c)

			assert.Equal(t, tt.want, s.Handle(context.Background(), tt.event(t)))
			if tt.want {
				assert.Equal(t, 1, c.count())
			} else {
				assert.Zero(t, c.count())
			}
		})
	}
}

func TestHandle_CacheError(t *testing.T) {
	c := &countingCache{err: errors.New("redis down")}
	s := NewSubscriber(&chanBus{}, c)

	assert.False(t, s.Handle(context.Background(), changed(t, "posts")))
	assert.Equal(t, 1, c.count())
}

func TestRun(t *testing.T) {
	bus := &chanBus{ch: make(chan *pubsub.Event, 4)}
	c := &countingCache{}
	s := NewSubscriber(bus, c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	bus.ch <- changed(t, "posts")
	bus.ch <- changed(t, "swipes")
	bus.ch <- changed(t, "profile_music_tracks")

	assert.Eventually(t, func() bool { return c.count() == 2 }, time.Second, 10*time.Millisecond)

	close(bus.ch)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the subscription closed")
	}
	assert.Equal(t, pubsub.PatternContentChanged, bus.pattern)
}

func TestRun_SubscribeError(t *testing.T) {
	s := NewSubscriber(&chanBus{err: errors.New("no broker")}, &countingCache{})

	err := s.Run(context.Background())
	assert.ErrorContains(t, err, "no broker")
}
