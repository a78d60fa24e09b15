package paretogo

import "errors"

var (
	// ErrNotFound is returned by Load when no entry file exists for the
	// requested hash.
	ErrNotFound = errors.New("entry not found")
)
