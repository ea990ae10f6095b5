package domain

import "time"

// TimeEntry records a single work period for a user.
//
// Date and CheckIn are independent fields: both are stored verbatim as
// supplied by the caller, so an entry may carry a date different from the
// calendar date of its check-in (entries can span midnight). TotalHours is an
// opaque caller-supplied number, never derived from the timestamps.
type TimeEntry struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Date       string     `json:"date"`
	CheckIn    WallClock  `json:"check_in"`
	CheckOut   *WallClock `json:"check_out"`
	TotalHours *float64   `json:"total_hours"`
	Notes      *string    `json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Open reports whether the entry has not been checked out yet.
func (e *TimeEntry) Open() bool {
	return e.CheckOut == nil
}
