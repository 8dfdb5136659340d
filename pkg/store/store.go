// Package store provides the key/value tables the moderation managers persist to.
// Keys are dotted paths ("warns.<guildID>.<userID>") and every backend treats a
// key as the parent of every key that starts with "<key>.".
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("store: key not found")

// Store is a byte oriented key/value backend
type Store interface {
	// Get returns the raw value stored under key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the value stored under key
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key and all of its children, reporting whether anything existed
	Delete(ctx context.Context, key string) (bool, error)
	// Keys lists key and its children. An empty prefix lists everything.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases the backend
	Close() error
}

// Path joins path segments with dots, skipping empty segments
func Path(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

// Under reports whether key is prefix itself or one of its children
func Under(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return key == prefix || strings.HasPrefix(key, prefix+".")
}
