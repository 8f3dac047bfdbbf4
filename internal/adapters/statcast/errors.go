package statcast

import "errors"

// Sentinel kinds for provider errors.
var (
	// ErrUnavailable marks a transient upstream failure: timeouts,
	// non-200 responses, unreadable bodies. Callers may retry.
	ErrUnavailable = errors.New("statcast unavailable")

	// ErrBadResponse marks a response that arrived but could not be
	// parsed as a Statcast CSV table.
	ErrBadResponse = errors.New("statcast bad response")
)
