package pubsub

import (
	"fmt"
	"strings"
)

// Channel naming for content-change notifications. One channel per
// collection so subscribers can listen to a subset.
const (
	ChannelContentChanged = "content:%s:changed"
	PatternContentChanged = "content:*:changed"
)

// EventContentChanged is emitted after a row in a searchable collection
// is created, updated or deleted.
const EventContentChanged = "content_changed"

// Change operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ContentChangedChannel returns the channel for changes to collection.
func ContentChangedChannel(collection string) string {
	return fmt.Sprintf(ChannelContentChanged, collection)
}

// CollectionFromChannel extracts the collection name from a content
// channel. ok is false for channels that do not follow the convention.
func CollectionFromChannel(channel string) (collection string, ok bool) {
	parts := strings.Split(channel, ":")
	if len(parts) != 3 || parts[0] != "content" || parts[2] != "changed" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ContentChangedPayload identifies the changed row.
type ContentChangedPayload struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Op         string `json:"op"`
}

// NewContentChangedEvent builds a content_changed event.
func NewContentChangedEvent(collection, id, op string) (*Event, error) {
	return NewEvent(EventContentChanged, collection, ContentChangedPayload{
		Collection: collection,
		ID:         id,
		Op:         op,
	})
}
