package cache

import "errors"

var (
	// ErrCacheMissing is returned when the cache directory or its manifest
	// does not exist.
	ErrCacheMissing = errors.New("cache does not exist")

	// ErrCacheInvalid is returned when a manifest exists but does not parse
	// as a valid cache description.
	ErrCacheInvalid = errors.New("cache is invalid")

	// ErrIO is returned when a cache file exists but cannot be read
	// (permission denied, truncated read). Never reported as ErrCacheMissing.
	ErrIO = errors.New("i/o error")

	// ErrCacheExists is returned by a non-forced build into a directory that
	// already contains a cache.
	ErrCacheExists = errors.New("cache already exists")
)
