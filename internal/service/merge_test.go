package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id string
	ts time.Time
}

func itemID(i item) string { return i.id }

func itemTime(i item) time.Time { return i.ts }

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func TestDedupeByID(t *testing.T) {
	in := []item{{id: "a"}, {id: "b"}, {id: "a"}, {id: "c"}, {id: "b"}}

	assert.Equal(t, []string{"a", "b", "c"}, ids(DedupeByID(in, itemID)))
	assert.Empty(t, DedupeByID(nil, itemID))
}

func TestMergeByRecency(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		streams [][]item
		want    []string
	}{
		{
			name:  "interleaves by time",
			limit: 10,
			streams: [][]item{
				{{"a", at(9)}, {"c", at(5)}, {"e", at(1)}},
				{{"b", at(7)}, {"d", at(3)}},
			},
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name:  "stops at limit",
			limit: 2,
			streams: [][]item{
				{{"a", at(9)}, {"c", at(5)}},
				{{"b", at(7)}},
			},
			want: []string{"a", "b"},
		},
		{
			name:  "drops duplicates without using a slot",
			limit: 3,
			streams: [][]item{
				{{"a", at(9)}, {"b", at(7)}},
				{{"a", at(9)}, {"b", at(7)}, {"c", at(2)}},
			},
			want: []string{"a", "b", "c"},
		},
		{
			name:  "ties keep the earlier stream first",
			limit: 10,
			streams: [][]item{
				{{"direct", at(4)}},
				{{"author", at(4)}},
			},
			want: []string{"direct", "author"},
		},
		{
			name:  "sorts unordered input",
			limit: 10,
			streams: [][]item{
				{{"old", at(1)}, {"new", at(8)}},
			},
			want: []string{"new", "old"},
		},
		{
			name:    "no streams",
			limit:   5,
			streams: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeByRecency(tt.limit, itemID, itemTime, tt.streams...)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMergeByRecency_DoesNotModifyInput(t *testing.T) {
	stream := []item{{"old", at(1)}, {"new", at(8)}}

	MergeByRecency(5, itemID, itemTime, stream)

	assert.Equal(t, []string{"old", "new"}, ids(stream))
}
