package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnreachable is returned when the storefront cannot be reached,
	// including after the www-prefix retry
	ErrUnreachable = errors.New("website not found or unreachable")

	// ErrFetchFailed is returned when an outbound request fails or
	// returns a non-success status
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrBrandNotFound is returned when no stored result exists for a URL
	ErrBrandNotFound = errors.New("brand not found")

	// ErrStoreUnavailable is returned when the persistence store is disabled
	// or cannot accept writes
	ErrStoreUnavailable = errors.New("brand store unavailable")
)
