package core

import "errors"

// ErrNotFound is a sentinel error for "not found" cases, e.g. binding a
// channel to a project the domain service does not know
var ErrNotFound = errors.New("not found")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
