package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// LocalStorage serves media from a directory exposed under a URL prefix.
type LocalStorage struct {
	urlPrefix string
}

// LocalConfig holds configuration for local storage.
type LocalConfig struct {
	URLPrefix string `mapstructure:"url_prefix"`
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(cfg LocalConfig) *LocalStorage {
	prefix := "/" + strings.Trim(cfg.URLPrefix, "/")
	return &LocalStorage{urlPrefix: prefix}
}

// GetURL returns the root-relative path for key. Keys that escape the
// prefix are rejected.
func (s *LocalStorage) GetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid media key: %q", key)
	}
	return path.Join(s.urlPrefix, clean), nil
}
