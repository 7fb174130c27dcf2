package kvstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no value is stored under the key.
	ErrNotFound = errors.New("key not found")

	// ErrEmptyKey indicates a blank key was used.
	ErrEmptyKey = errors.New("empty key")

	// ErrUnsupportedScheme indicates a store URL whose scheme has no backend.
	ErrUnsupportedScheme = errors.New("unsupported store scheme")
)

// StoreError wraps backend failures with the operation and key involved.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for store errors.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
