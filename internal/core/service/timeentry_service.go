package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/policy"
	"github.com/timetracer/timetracer-api/internal/core/ports"
)

// TimeEntryService implements the check-in/check-out lifecycle: the
// create-vs-update decision and the invariant that a user has at most one
// open entry at any time. The store backs the invariant with a partial unique
// constraint, so a race between two concurrent submissions is caught even
// when both pass the application-level check.
type TimeEntryService struct {
	entries ports.TimeEntryRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewTimeEntryService(entries ports.TimeEntryRepository, users ports.UserRepository, logger zerolog.Logger) *TimeEntryService {
	return &TimeEntryService{entries: entries, users: users, logger: logger}
}

func (s *TimeEntryService) List(ctx context.Context, claims domain.Claims) ([]*domain.TimeEntry, error) {
	scope := policy.EntriesScope(claims)
	switch {
	case scope.All:
		return s.entries.List(ctx, ports.EntryFilter{})
	case scope.Department != "":
		// Entries carry no department of their own; resolve the department
		// members first and filter by owner.
		members, err := s.users.List(ctx, policy.Scope{Department: scope.Department})
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		if len(ids) == 0 {
			return []*domain.TimeEntry{}, nil
		}
		return s.entries.List(ctx, ports.EntryFilter{UserIDs: ids})
	default:
		return s.entries.List(ctx, ports.EntryFilter{UserIDs: []string{scope.UserID}})
	}
}

// Submit runs the lifecycle algorithm: parse, check the open-entry invariant,
// resolve the target (explicit entry_id, the day's in-progress entry, or a
// fresh row) and persist.
func (s *TimeEntryService) Submit(ctx context.Context, claims domain.Claims, input ports.SubmitEntryInput) (*domain.TimeEntry, bool, error) {
	targetUserID, err := s.resolveTargetUser(ctx, claims, input.UserID)
	if err != nil {
		return nil, false, err
	}

	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return nil, false, err
	}
	checkIn, err := domain.ParseWallClock(input.CheckIn)
	if err != nil {
		return nil, false, err
	}
	var checkOut *domain.WallClock
	if input.CheckOut != nil {
		parsed, parseErr := domain.ParseWallClock(*input.CheckOut)
		if parseErr != nil {
			return nil, false, parseErr
		}
		checkOut = &parsed
	}

	// The submission leaves the entry open (or reopens it): reject when a
	// different open entry already exists for the user.
	if checkOut == nil {
		if conflictErr := s.checkOpenConflict(ctx, targetUserID, input.EntryID); conflictErr != nil {
			return nil, false, conflictErr
		}
	}

	// Resolve the update target.
	var target *domain.TimeEntry
	if input.EntryID != "" {
		target, err = s.entries.FindByID(ctx, input.EntryID)
		if err != nil {
			return nil, false, err
		}
		// An entry_id belonging to another user is not silently redirected.
		if target.UserID != targetUserID {
			return nil, false, domain.ErrEntryNotFound
		}
	} else {
		target, err = s.entries.FindOpenByUserAndDate(ctx, targetUserID, date)
		if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, false, err
		}
	}

	if target == nil {
		entry, createErr := s.create(ctx, targetUserID, date, checkIn, checkOut, input)
		return entry, createErr == nil, createErr
	}
	entry, updateErr := s.update(ctx, target.ID, targetUserID, date, checkIn, checkOut, input)
	return entry, false, updateErr
}

func (s *TimeEntryService) create(ctx context.Context, userID, date string, checkIn domain.WallClock, checkOut *domain.WallClock, input ports.SubmitEntryInput) (*domain.TimeEntry, error) {
	entry := &domain.TimeEntry{
		UserID:     userID,
		Date:       date,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalHours: input.TotalHours,
		Notes:      input.Notes,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		// The store constraint caught a concurrent open entry.
		if errors.Is(err, domain.ErrOpenEntryExists) {
			return nil, s.openConflict(ctx, userID)
		}
		return nil, err
	}

	s.logger.Info().Str("entry_id", created.ID).Str("user_id", userID).
		Str("date", date).Bool("open", created.Open()).Msg("time entry created")
	return created, nil
}

func (s *TimeEntryService) update(ctx context.Context, entryID, userID, date string, checkIn domain.WallClock, checkOut *domain.WallClock, input ports.SubmitEntryInput) (*domain.TimeEntry, error) {
	patch := ports.EntryPatch{
		Date:       &date,
		CheckIn:    &checkIn,
		TotalHours: input.TotalHours,
		Notes:      input.Notes,
	}
	// Absent check_out leaves the field untouched; an explicit null reopens
	// the entry.
	if input.CheckOutSet {
		patch.CheckOut = ports.CheckOutPatch{Set: true, Value: checkOut}
	}

	updated, err := s.entries.Update(ctx, entryID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrOpenEntryExists) {
			return nil, s.openConflict(ctx, userID)
		}
		return nil, err
	}

	s.logger.Info().Str("entry_id", entryID).Str("user_id", userID).
		Bool("open", updated.Open()).Msg("time entry updated")
	return updated, nil
}

func (s *TimeEntryService) Update(ctx context.Context, claims domain.Claims, entryID string, input ports.EntryPatchInput) (*domain.TimeEntry, error) {
	entry, owner, err := s.entryWithOwner(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(claims, entry, owner); err != nil {
		return nil, err
	}

	patch := ports.EntryPatch{TotalHours: input.TotalHours, Notes: input.Notes}
	if input.Date != nil {
		date, parseErr := domain.ParseDate(*input.Date)
		if parseErr != nil {
			return nil, parseErr
		}
		patch.Date = &date
	}
	if input.CheckIn != nil {
		checkIn, parseErr := domain.ParseWallClock(*input.CheckIn)
		if parseErr != nil {
			return nil, parseErr
		}
		patch.CheckIn = &checkIn
	}
	if input.CheckOutSet {
		if input.CheckOut == nil {
			// Reopening: the single-open-entry invariant applies.
			if conflictErr := s.checkOpenConflict(ctx, entry.UserID, entryID); conflictErr != nil {
				return nil, conflictErr
			}
			patch.CheckOut = ports.CheckOutPatch{Set: true}
		} else {
			checkOut, parseErr := domain.ParseWallClock(*input.CheckOut)
			if parseErr != nil {
				return nil, parseErr
			}
			patch.CheckOut = ports.CheckOutPatch{Set: true, Value: &checkOut}
		}
	}

	updated, err := s.entries.Update(ctx, entryID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrOpenEntryExists) {
			return nil, s.openConflict(ctx, entry.UserID)
		}
		return nil, err
	}

	s.logger.Info().Str("entry_id", entryID).Str("by", claims.SubjectID).Msg("time entry edited")
	return updated, nil
}

func (s *TimeEntryService) Delete(ctx context.Context, claims domain.Claims, entryID string) error {
	entry, owner, err := s.entryWithOwner(ctx, entryID)
	if err != nil {
		return err
	}
	if err := s.authorizeMutation(claims, entry, owner); err != nil {
		return err
	}

	if err := s.entries.Delete(ctx, entryID); err != nil {
		return err
	}

	s.logger.Info().Str("entry_id", entryID).Str("by", claims.SubjectID).Msg("time entry deleted")
	return nil
}

// resolveTargetUser applies the creation capability rules: admins may record
// time for anyone, managers submitting for someone else are treated as
// recording for themselves, workers are denied outright.
func (s *TimeEntryService) resolveTargetUser(ctx context.Context, claims domain.Claims, requested string) (string, error) {
	if requested == "" || requested == claims.SubjectID {
		return claims.SubjectID, nil
	}
	if claims.IsManager() {
		return claims.SubjectID, nil
	}

	decision := policy.Decide(claims, policy.ActionCreateEntry, policy.Resource{OwnerID: requested})
	if !decision.Allowed {
		return "", fmt.Errorf("%w: %s", domain.ErrForbidden, decision.Reason)
	}

	// Admin targeting another user: the target must exist.
	if _, err := s.users.FindByID(ctx, requested); err != nil {
		return "", err
	}
	return requested, nil
}

func (s *TimeEntryService) entryWithOwner(ctx context.Context, entryID string) (*domain.TimeEntry, *domain.User, error) {
	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}
	owner, err := s.users.FindByID(ctx, entry.UserID)
	if err != nil {
		return nil, nil, err
	}
	return entry, owner, nil
}

func (s *TimeEntryService) authorizeMutation(claims domain.Claims, entry *domain.TimeEntry, owner *domain.User) error {
	decision := policy.Decide(claims, policy.ActionMutateEntry, policy.Resource{
		OwnerID:         entry.UserID,
		OwnerDepartment: owner.Department,
	})
	if !decision.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, decision.Reason)
	}
	return nil
}

// checkOpenConflict rejects a submission that would leave a second entry
// open. sameEntryID exempts the entry being targeted by the update itself.
func (s *TimeEntryService) checkOpenConflict(ctx context.Context, userID, sameEntryID string) error {
	open, err := s.entries.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil
		}
		return err
	}
	if open.ID == sameEntryID {
		return nil
	}
	return &domain.OpenEntryConflictError{Open: open}
}

// openConflict builds the conflict error after the store constraint fired,
// attaching the currently open entry when it can still be found.
func (s *TimeEntryService) openConflict(ctx context.Context, userID string) error {
	open, err := s.entries.FindOpenByUser(ctx, userID)
	if err != nil {
		return &domain.OpenEntryConflictError{}
	}
	return &domain.OpenEntryConflictError{Open: open}
}
