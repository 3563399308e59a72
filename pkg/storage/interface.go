package storage

import (
	"context"
	"strings"
	"time"
)

// URLResolver turns a stored object key into a URL a browser can load.
type URLResolver interface {
	// GetURL returns a URL for key. S3 returns a public or presigned URL
	// valid for expires; local storage returns a path under its URL prefix.
	GetURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// IsObjectKey reports whether v looks like a bare object key rather than
// an absolute URL, a root-relative path or a data URI.
func IsObjectKey(v string) bool {
	if v == "" || strings.HasPrefix(v, "/") || strings.HasPrefix(v, "data:") {
		return false
	}
	return !strings.Contains(v, "://")
}
