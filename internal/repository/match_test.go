package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"abc%", `abc\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLikePattern(tt.in), tt.in)
	}
}

func TestNewMatch(t *testing.T) {
	m := NewMatch("  Music Fest ")
	assert.Equal(t, "music fest", m.Term)
	assert.Equal(t, "%music fest%", m.Pattern)
	assert.False(t, m.Empty())

	m = NewMatch("ABC%")
	assert.Equal(t, `%abc\%%`, m.Pattern)

	assert.True(t, NewMatch(" \t\n").Empty())
}
