package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredentials indicates catalog API credentials are not configured
	ErrMissingCredentials = errors.New("missing catalog credentials")

	// ErrEmptyCatalog indicates a full fetch returned zero items; reconciliation
	// aborts rather than evicting the whole mirror
	ErrEmptyCatalog = errors.New("full fetch returned no items")

	// ErrSyncInProgress indicates another invocation holds the run lock
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")
)
