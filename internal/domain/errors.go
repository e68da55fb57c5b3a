package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrCatalogUnavailable indicates the movie catalog could not answer a query
	ErrCatalogUnavailable = errors.New("movie catalog is unavailable")

	// ErrStorageDenied indicates local storage refused a write (quota, permissions, read-only)
	ErrStorageDenied = errors.New("local storage denied the write")

	// ErrRemoteSync indicates the remote per-user store failed; callers fall back to local data
	ErrRemoteSync = errors.New("remote sync failed")

	// ErrMalformedData indicates a persisted value could not be decoded
	ErrMalformedData = errors.New("persisted data is malformed")

	// ErrNotAuthenticated indicates no session is active
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionRejected indicates the identity token was refused
	ErrSessionRejected = errors.New("session was rejected")
)

// CatalogError carries the HTTP status and body of a failed catalog request.
// A zero StatusCode means the request never produced a response.
type CatalogError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *CatalogError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog request failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog returned status %d: %s", e.StatusCode, e.Body)
}

func (e *CatalogError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCatalogUnavailable}
	}
	return []error{ErrCatalogUnavailable, e.Err}
}

// RemoteError describes a failed call against the remote per-user store
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemoteSync}
	}
	return []error{ErrRemoteSync, e.Err}
}
