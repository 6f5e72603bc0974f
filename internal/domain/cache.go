package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache defines the interface (port) for caching operations.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites any existing value. An expiration of 0 keeps the key indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete does not fail for missing keys.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	// HGetAll returns ErrCacheMiss if the hash does not exist.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// HSet writes all fields of the hash in one command.
	HSet(ctx context.Context, key string, fields map[string]string) error

	Expire(ctx context.Context, key string, expiration time.Duration) error
}
