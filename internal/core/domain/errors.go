package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers bad email/password pairs and malformed
	// login payloads.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated covers missing, invalid, expired or revoked tokens.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when a valid caller lacks the capability for
	// an action. Wrap it to carry the human-readable policy reason.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput covers missing required fields, unparseable
	// timestamps and unknown enum values.
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound  = errors.New("user not found")
	ErrEntryNotFound = errors.New("time entry not found")

	// ErrDuplicateEmail is the store's email uniqueness violation,
	// reclassified.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrOpenEntryExists is the store-level single-open-entry constraint
	// violation. The lifecycle service wraps it into an OpenEntryConflictError
	// carrying the conflicting entry.
	ErrOpenEntryExists = errors.New("an open time entry already exists")

	// ErrStoreUnavailable marks infrastructure failures that are safe to
	// retry, distinct from business-rule rejections.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// OpenEntryConflictError reports a rejected submission because the target
// user already has an open entry. The conflicting entry is attached so the
// caller can close it first.
type OpenEntryConflictError struct {
	Open *TimeEntry
}

func (e *OpenEntryConflictError) Error() string {
	if e.Open != nil {
		return fmt.Sprintf("%s (entry %s)", ErrOpenEntryExists, e.Open.ID)
	}
	return ErrOpenEntryExists.Error()
}

func (e *OpenEntryConflictError) Unwrap() error {
	return ErrOpenEntryExists
}
