package cache

import "errors"

// Errors returned by every backend. A miss and an unavailable backend are
// both recoverable: the caller reads the store instead.
var (
	ErrCacheMiss        = errors.New("cache: key not found")
	ErrCacheUnavailable = errors.New("cache: backend unavailable")
	// ErrInvalidValue is returned when a stored entry cannot be decoded,
	// e.g. after a schema change of the cached type.
	ErrInvalidValue = errors.New("cache: invalid value")
)
