package ports

import (
	"context"

	"github.com/timetracer/timetracer-api/internal/core/domain"
)

// SubmitEntryInput is a check-in/check-out submission. UserID defaults to the
// caller; only admins may target another user. CheckOut distinguishes
// "absent" from "explicitly null": both leave the entry open on create, and
// an explicit null reopens an existing entry on update.
type SubmitEntryInput struct {
	UserID      string
	EntryID     string
	Date        string
	CheckIn     string
	CheckOut    *string
	CheckOutSet bool
	TotalHours  *float64
	Notes       *string
}

// TimeEntryService enforces the open/closed invariant and the create-vs-update
// decision for submitted entries.
type TimeEntryService interface {
	List(ctx context.Context, claims domain.Claims) ([]*domain.TimeEntry, error)
	// Submit creates a new entry or updates an in-progress one per the
	// lifecycle rules; created reports which of the two happened. At most
	// one open entry may exist per user at any time; a violating submission
	// fails with *domain.OpenEntryConflictError.
	Submit(ctx context.Context, claims domain.Claims, input SubmitEntryInput) (entry *domain.TimeEntry, created bool, err error)
	Update(ctx context.Context, claims domain.Claims, entryID string, patch EntryPatchInput) (*domain.TimeEntry, error)
	Delete(ctx context.Context, claims domain.Claims, entryID string) error
}

// EntryPatchInput is a partial time-entry update in wire form; timestamps are
// parsed by the service.
type EntryPatchInput struct {
	Date        *string
	CheckIn     *string
	CheckOut    *string
	CheckOutSet bool
	TotalHours  *float64
	Notes       *string
}
