// Package apperrors provides the typed errors returned by the session
// lifecycle operations.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an operation error so the API layer can map it to a
// response without string matching.
type Kind int

const (
	// KindValidation is malformed input: bad status filter, missing field.
	KindValidation Kind = iota
	// KindNotFound is a missing customer/session or an empty listing page.
	KindNotFound
	// KindConflict is an operation forbidden by the session status, or a
	// stale concurrent write.
	KindConflict
	// KindStorage is an underlying store failure, wrapped, never swallowed.
	KindStorage
)

// Error is a single-operation error. Message is safe to surface to clients
// for all kinds except KindStorage, where it only names the failed step.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Storage wraps a store failure with the step that hit it.
func Storage(step string, err error) *Error {
	return &Error{Kind: KindStorage, Message: step, Err: err}
}

// KindOf extracts the kind from err, if it carries one.
func KindOf(err error) (Kind, bool) {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
