package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/timetracer/timetracer-api/internal/api/metrics"
	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/ports"
)

// TimeEntryHandler handles HTTP requests for time entries.
type TimeEntryHandler struct {
	service ports.TimeEntryService
}

func NewTimeEntryHandler(service ports.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{service: service}
}

// List returns the time entries visible to the caller: workers see their own,
// managers their department's, admins everything.
//
// @Summary      List time entries
// @Tags         time-entries
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.TimeEntry
// @Failure      401  {object}  errorResponse
// @Router       /api/time-entries [get]
func (h *TimeEntryHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	entries, err := h.service.List(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Submit records a check-in/check-out. Creates a new entry or updates the
// day's in-progress one; a submission that would leave a second entry open is
// rejected with 409 and the conflicting entry attached.
//
// @Summary      Submit a time entry
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitEntryRequest  true  "Check-in/check-out payload"
// @Success      200   {object}  domain.TimeEntry
// @Success      201   {object}  domain.TimeEntry
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/time-entries [post]
func (h *TimeEntryHandler) Submit(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req submitEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	checkOut, checkOutSet, err := decodeCheckOut(req.CheckOut)
	if err != nil {
		return err
	}

	entry, created, err := h.service.Submit(c.Request().Context(), claims, ports.SubmitEntryInput{
		UserID:      req.UserID,
		EntryID:     req.EntryID,
		Date:        req.Date,
		CheckIn:     req.CheckIn,
		CheckOut:    checkOut,
		CheckOutSet: checkOutSet,
		TotalHours:  req.TotalHours,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOpenEntryExists):
			metrics.EntrySubmissionsTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, domain.ErrForbidden):
			metrics.PolicyDenialsTotal.WithLabelValues("time_entry").Inc()
			metrics.EntrySubmissionsTotal.WithLabelValues("rejected").Inc()
		default:
			metrics.EntrySubmissionsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	if created {
		metrics.EntrySubmissionsTotal.WithLabelValues("created").Inc()
		return c.JSON(http.StatusCreated, entry)
	}
	metrics.EntrySubmissionsTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, entry)
}

// Update applies a partial edit to an entry. Managers may edit entries of
// their department except their own; admins may edit any.
//
// @Summary      Update a time entry
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Entry id"
// @Param        body  body      updateEntryRequest  true  "Fields to change"
// @Success      200   {object}  domain.TimeEntry
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/time-entries/{id} [put]
func (h *TimeEntryHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	checkOut, checkOutSet, err := decodeCheckOut(req.CheckOut)
	if err != nil {
		return err
	}

	entry, err := h.service.Update(c.Request().Context(), claims, c.Param("id"), ports.EntryPatchInput{
		Date:        req.Date,
		CheckIn:     req.CheckIn,
		CheckOut:    checkOut,
		CheckOutSet: checkOutSet,
		TotalHours:  req.TotalHours,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.PolicyDenialsTotal.WithLabelValues("time_entry").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete removes an entry, subject to the same policy as Update.
//
// @Summary      Delete a time entry
// @Tags         time-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Entry id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/time-entries/{id} [delete]
func (h *TimeEntryHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.PolicyDenialsTotal.WithLabelValues("time_entry").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "time entry deleted"})
}
