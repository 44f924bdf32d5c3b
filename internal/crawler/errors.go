package crawler

import "errors"

// Errors carried in model.Outcome.Err.
var (
	// ErrFetchStatus is returned when the host reported a non-200 status.
	ErrFetchStatus = errors.New("fetch returned non-200 status")

	// ErrFetchError is returned when the host reported a fetch error.
	ErrFetchError = errors.New("fetch reported an error")

	// ErrEmptyBody is returned when the fetch result carries no content.
	ErrEmptyBody = errors.New("empty response body")

	// ErrBadRequestURL is returned when the request URL cannot be parsed.
	ErrBadRequestURL = errors.New("invalid request URL")
)
