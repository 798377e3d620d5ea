// Package store persists playlist catalogs and the section index behind a
// small key-value abstraction with file, memory and SQLite backends.
package store

import (
	"context"
	"errors"
	"regexp"
)

// Store errors
var (
	// ErrNotFound indicates no value is stored under the key
	ErrNotFound = errors.New("key not found")

	// ErrInvalidKey indicates a key that cannot be mapped to storage safely
	ErrInvalidKey = errors.New("invalid key")
)

// KV is a flat key-value store. Put replaces the whole value atomically.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	ListKeys(ctx context.Context) ([]string, error)
}

// IsNotFound checks if the error is a missing key error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// validKey matches playlist identifiers and plain document names
var validKey = regexp.MustCompile(`^[\w.-]+$`)

// ValidateKey rejects keys that are empty or could escape a storage directory
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || !validKey.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}

// IsInvalidKey checks if the error is an invalid key error
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}
