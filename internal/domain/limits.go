package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxCategoryLimit caps every per-category limit.
const MaxCategoryLimit = 100

// Limits holds the maximum number of results per category.
type Limits struct {
	People   int `json:"people" mapstructure:"people"`
	Posts    int `json:"posts" mapstructure:"posts"`
	Teams    int `json:"teams" mapstructure:"teams"`
	Live     int `json:"live" mapstructure:"live"`
	Music    int `json:"music" mapstructure:"music"`
	Videos   int `json:"videos" mapstructure:"videos"`
	Comments int `json:"comments" mapstructure:"comments"`
}

// DefaultLimits returns the built-in per-category caps.
func DefaultLimits() Limits {
	return Limits{
		People:   5,
		Posts:    5,
		Teams:    5,
		Live:     5,
		Music:    5,
		Videos:   5,
		Comments: 10,
	}
}

// Merge returns l with every positive field of override applied, then
// clamped to [1, MaxCategoryLimit]. Neither receiver nor argument is modified.
func (l Limits) Merge(override Limits) Limits {
	pick := func(base, o int) int {
		v := base
		if o > 0 {
			v = o
		}
		return clamp(v)
	}
	return Limits{
		People:   pick(l.People, override.People),
		Posts:    pick(l.Posts, override.Posts),
		Teams:    pick(l.Teams, override.Teams),
		Live:     pick(l.Live, override.Live),
		Music:    pick(l.Music, override.Music),
		Videos:   pick(l.Videos, override.Videos),
		Comments: pick(l.Comments, override.Comments),
	}
}

// PostFetchLimit is how many posts each source fetches before merging:
// max(2n, n+2), leaving room for duplicates dropped by the merge.
func (l Limits) PostFetchLimit() int {
	return max(2*l.Posts, l.Posts+2)
}

// Key renders the limits compactly for use in cache keys.
func (l Limits) Key() string {
	parts := []int{l.People, l.Posts, l.Teams, l.Live, l.Music, l.Videos, l.Comments}
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ".")
}

func (l Limits) String() string {
	return fmt.Sprintf("people=%d posts=%d teams=%d live=%d music=%d videos=%d comments=%d",
		l.People, l.Posts, l.Teams, l.Live, l.Music, l.Videos, l.Comments)
}

func clamp(v int) int {
	if v < 1 {
		return 1
	}
	if v > MaxCategoryLimit {
		return MaxCategoryLimit
	}
	return v
}
