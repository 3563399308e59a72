package service

import (
	"slices"
	"time"
)

// DedupeByID drops every item whose id was already seen, keeping the
// first occurrence and the original order.
func DedupeByID[T any](items []T, id func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := id(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// MergeByRecency merges streams that are each ordered newest first into a
// single newest-first list of at most limit items. Items whose id was
// already taken are skipped. On equal timestamps the earlier stream wins,
// so callers pass direct matches before author matches.
func MergeByRecency[T any](limit int, id func(T) string, createdAt func(T) time.Time, streams ...[]T) []T {
	ordered := make([][]T, len(streams))
	for i, s := range streams {
		ordered[i] = newestFirst(s, createdAt)
	}

	out := make([]T, 0, limit)
	seen := make(map[string]struct{})
	heads := make([]int, len(streams))

	for len(out) < limit {
		best := -1
		for i, s := range ordered {
			if heads[i] >= len(s) {
				continue
			}
			if best < 0 || createdAt(s[heads[i]]).After(createdAt(ordered[best][heads[best]])) {
				best = i
			}
		}
		if best < 0 {
			break
		}

		item := ordered[best][heads[best]]
		heads[best]++

		k := id(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}

	return out
}

// newestFirst returns s ordered by createdAt descending. Remote queries
// already order their rows, so the sort only runs when one did not.
func newestFirst[T any](s []T, createdAt func(T) time.Time) []T {
	cmp := func(a, b T) int {
		return createdAt(b).Compare(createdAt(a))
	}
	if slices.IsSortedFunc(s, cmp) {
		return s
	}
	sorted := slices.Clone(s)
	slices.SortStableFunc(sorted, cmp)
	return sorted
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
