// Package errors provides the structured error taxonomy shared by storage,
// the GitHub client and the list caches.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors. These never leave the storage package boundary.
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodeStorageCorrupt     Code = "STORAGE_CORRUPT"

	// Fetch errors
	CodeFetchNotFound    Code = "FETCH_NOT_FOUND"
	CodeFetchRateLimited Code = "FETCH_RATE_LIMITED"
	CodeFetchNetwork     Code = "FETCH_NETWORK"
	CodeFetchUnknown     Code = "FETCH_UNKNOWN"

	// Request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// HTTPStatus maps a code to the status the HTTP surface answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeFetchNotFound:
		return http.StatusNotFound
	case CodeFetchRateLimited:
		return http.StatusTooManyRequests
	case CodeFetchNetwork:
		return http.StatusBadGateway
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a user-driven retry may succeed.
func (c Code) Retryable() bool {
	switch c {
	case CodeFetchNetwork, CodeFetchUnknown, CodeFetchRateLimited:
		return true
	default:
		return false
	}
}
