package ports

import (
	"context"

	"github.com/timetracer/timetracer-api/internal/core/domain"
)

// EntryPatch carries a partial update of a time entry. Nil fields are left
// untouched. CheckOut is tri-state: when Set is false the field is not
// touched; when Set is true and Value is nil the entry is reopened
// (check_out removed); otherwise check_out is overwritten.
type EntryPatch struct {
	Date       *string
	CheckIn    *domain.WallClock
	CheckOut   CheckOutPatch
	TotalHours *float64
	Notes      *string
}

// CheckOutPatch distinguishes "absent" from "explicitly null".
type CheckOutPatch struct {
	Set   bool
	Value *domain.WallClock
}

// EntryFilter selects time entries for listing. UserIDs takes precedence when
// non-empty; an empty filter matches everything.
type EntryFilter struct {
	UserIDs []string
}

// TimeEntryRepository defines persistence operations for time entries. The
// store enforces "at most one open entry per user" with a partial unique
// constraint; Create and Update surface a violation as
// domain.ErrOpenEntryExists.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	FindByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	// FindOpenByUser returns the user's open entry, or domain.ErrEntryNotFound.
	FindOpenByUser(ctx context.Context, userID string) (*domain.TimeEntry, error)
	// FindOpenByUserAndDate returns the user's open entry for the given
	// calendar date, or domain.ErrEntryNotFound.
	FindOpenByUserAndDate(ctx context.Context, userID, date string) (*domain.TimeEntry, error)
	List(ctx context.Context, filter EntryFilter) ([]*domain.TimeEntry, error)
	Update(ctx context.Context, id string, patch EntryPatch) (*domain.TimeEntry, error)
	Delete(ctx context.Context, id string) error
}
