package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoProvider = errors.New("no data provider configured")
)
