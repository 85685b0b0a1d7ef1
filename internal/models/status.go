package models

import (
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/apperrors"
)

// SessionStatus is the session state: A (active), X (archived), D (deleted).
// Deleted rows stay in the table for the identifier sequence but are hidden
// from every lookup and listing.
type SessionStatus string

const (
	StatusActive   SessionStatus = "A"
	StatusArchived SessionStatus = "X"
	StatusDeleted  SessionStatus = "D"
)

// SessionOp is a mutating operation checked against the state machine.
type SessionOp int

const (
	OpUpdate SessionOp = iota
	OpDelete
	OpArchive
)

const (
	msgCannotUpdate    = "Cannot Update an Archive session"
	msgCannotDelete    = "Cannot Delete an Archive session"
	msgAlreadyArchived = "Session is already Archived"
	// MsgWrongStatus rejects any listing filter other than A or X.
	MsgWrongStatus = "Session status passed is not A or X"
)

// CanApply is the single transition guard consulted by every mutating
// operation. Archived is terminal for edits; only Delete leaves a history
// record. Deleted never reaches here because stores hide deleted rows.
func (s SessionStatus) CanApply(op SessionOp) error {
	if s != StatusArchived {
		return nil
	}
	switch op {
	case OpUpdate:
		return apperrors.Conflict(msgCannotUpdate)
	case OpDelete:
		return apperrors.Conflict(msgCannotDelete)
	default:
		return apperrors.Conflict(msgAlreadyArchived)
	}
}

// ParseStatusFilter validates a listing filter. Only A and X are listable;
// the check is case-insensitive.
func ParseStatusFilter(s string) (SessionStatus, error) {
	switch s {
	case "A", "a":
		return StatusActive, nil
	case "X", "x":
		return StatusArchived, nil
	}
	return "", apperrors.Validation(MsgWrongStatus)
}
