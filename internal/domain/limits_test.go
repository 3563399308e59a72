package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimits_Merge(t *testing.T) {
	defaults := DefaultLimits()

	tests := []struct {
		name     string
		override Limits
		want     Limits
	}{
		{
			name:     "no override keeps defaults",
			override: Limits{},
			want:     defaults,
		},
		{
			name:     "partial override",
			override: Limits{Posts: 8, Comments: 3},
			want:     Limits{People: 5, Posts: 8, Teams: 5, Live: 5, Music: 5, Videos: 5, Comments: 3},
		},
		{
			name:     "negative ignored",
			override: Limits{People: -4},
			want:     defaults,
		},
		{
			name:     "clamped to max",
			override: Limits{Music: 5000},
			want:     Limits{People: 5, Posts: 5, Teams: 5, Live: 5, Music: MaxCategoryLimit, Videos: 5, Comments: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaults.Merge(tt.override))
		})
	}

	assert.Equal(t, DefaultLimits(), defaults, "merge must not mutate the receiver")
}

func TestLimits_Merge_ZeroBaseClampsToOne(t *testing.T) {
	got := Limits{}.Merge(Limits{})
	assert.Equal(t, 1, got.People)
	assert.Equal(t, 1, got.Comments)
}

func TestLimits_PostFetchLimit(t *testing.T) {
	assert.Equal(t, 10, Limits{Posts: 5}.PostFetchLimit())
	assert.Equal(t, 3, Limits{Posts: 1}.PostFetchLimit())
	assert.Equal(t, 4, Limits{Posts: 2}.PostFetchLimit())
}

func TestLimits_Key(t *testing.T) {
	assert.Equal(t, "5.5.5.5.5.5.10", DefaultLimits().Key())
}

func TestEmptyBundle_SerializesEmptyLists(t *testing.T) {
	data, err := json.Marshal(EmptyBundle())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"people":[],"posts":[],"teams":[],"live":[],"music":[],"videos":[],"comments":[]}`,
		string(data))
}

func TestDisplayName(t *testing.T) {
	name := "Jane Doe"
	empty := ""

	assert.Equal(t, "Jane Doe", DisplayName(&name, "jane"))
	assert.Equal(t, "jane", DisplayName(&empty, "jane"))
	assert.Equal(t, "jane", DisplayName(nil, "jane"))
	assert.Equal(t, PlaceholderName, DisplayName(nil, ""))
}

func TestAvatarColor_Cycles(t *testing.T) {
	n := len(avatarPalette)
	assert.Equal(t, AvatarColor(0), AvatarColor(n))
	assert.Equal(t, AvatarColor(3), AvatarColor(n+3))
	assert.NotEqual(t, AvatarColor(0), AvatarColor(1))
}
