package domain

import (
	"errors"
	"fmt"
)

// ErrIncompleteDocument is returned by compilation when a required part of the
// document renders to nothing, such as a stage without jobs or an unnamed job.
var ErrIncompleteDocument = errors.New("incomplete document")

// ErrConsumed is returned when a builder phase value is used after it has already
// transitioned to another phase or been finalized.
var ErrConsumed = errors.New("builder phase already consumed")

// ErrDocumentNotFound is returned when a document cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// IOError wraps a storage failure while persisting a rendered document.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error reports the operation, the path and the underlying cause.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause so errors.Is and errors.As can reach it.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ErrInvalidName is returned when a document name is empty or contains a path separator.
var ErrInvalidName = errors.New("invalid document name")
