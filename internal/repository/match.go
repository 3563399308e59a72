package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLikePattern escapes the LIKE wildcards % and _, and the backslash
// escape character itself, so user input matches literally.
func EscapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// Match is a normalized search term together with its LIKE pattern.
type Match struct {
	// Term is the trimmed input, lowercased with Unicode case folding.
	Term string
	// Pattern is Term escaped and wrapped in % for a contains match
	// against LOWER(column).
	Pattern string
}

// NewMatch normalizes raw user input.
func NewMatch(raw string) Match {
	term := strings.ToLower(strings.TrimSpace(raw))
	return Match{
		Term:    term,
		Pattern: "%" + EscapeLikePattern(term) + "%",
	}
}

// Empty reports whether there is nothing to search for.
func (m Match) Empty() bool {
	return m.Term == ""
}
