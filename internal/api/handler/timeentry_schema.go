package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/timetracer/timetracer-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. open_entry is present only on open-entry conflicts.
type errorResponse struct {
	Error     string            `json:"error"`
	OpenEntry *domain.TimeEntry `json:"open_entry,omitempty"`
}

// check_out is deliberately a json.RawMessage: the lifecycle distinguishes
// "field absent" (leave the entry as it is) from "explicitly null" (open or
// reopen the entry), which a plain pointer cannot express.
type submitEntryRequest struct {
	UserID     string          `json:"user_id"`
	EntryID    string          `json:"entry_id"`
	Date       string          `json:"date"     validate:"required,datetime=2006-01-02"`
	CheckIn    string          `json:"check_in" validate:"required"`
	CheckOut   json.RawMessage `json:"check_out"`
	TotalHours *float64        `json:"total_hours"`
	Notes      *string         `json:"notes"`
}

type updateEntryRequest struct {
	Date       *string         `json:"date"     validate:"omitempty,datetime=2006-01-02"`
	CheckIn    *string         `json:"check_in"`
	CheckOut   json.RawMessage `json:"check_out"`
	TotalHours *float64        `json:"total_hours"`
	Notes      *string         `json:"notes"`
}

// decodeCheckOut resolves the tri-state check_out field: (nil, false) when
// absent, (nil, true) for an explicit null, and the string value otherwise.
func decodeCheckOut(raw json.RawMessage) (*string, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("check_out must be a string or null: %v", err))
	}
	return &s, true, nil
}
