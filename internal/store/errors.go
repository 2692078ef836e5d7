package store

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

type unknownBackendError struct {
	name string
}

func (e unknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %q (expected sqlite|json|memory)", e.name)
}

func errUnknownBackend(name string) error {
	return unknownBackendError{name: name}
}

// ErrEmptyTitle is returned when an entity is created or renamed without a title.
var ErrEmptyTitle = errors.New("title is required")
