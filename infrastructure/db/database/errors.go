package database

import "github.com/pkg/errors"

// ErrNotFound is returned when a requested key has no entry in the
// database
var ErrNotFound = errors.New("not found")

// IsNotFoundError reports whether err wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
