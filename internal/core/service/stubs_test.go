package service

import (
	"context"
	"fmt"
	"time"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/policy"
	"github.com/timetracer/timetracer-api/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository. When entries is linked,
// Delete cascades like the real store does.
type stubUserRepo struct {
	users   map[string]*domain.User
	entries *stubEntryRepo
	seq     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("u%d", r.seq)
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, scope policy.Scope) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		switch {
		case scope.All:
			out = append(out, cloneUser(u))
		case scope.Department != "" && u.Department == scope.Department:
			out = append(out, cloneUser(u))
		case scope.UserID != "" && u.ID == scope.UserID:
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *patch.Email {
				return nil, domain.ErrDuplicateEmail
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Department != nil {
		u.Department = *patch.Department
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	if r.entries != nil {
		for entryID, e := range r.entries.entries {
			if e.UserID == id {
				delete(r.entries.entries, entryID)
			}
		}
	}
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// stubEntryRepo is an in-memory ports.TimeEntryRepository. It emulates the
// store's partial unique constraint: at most one open entry per user.
type stubEntryRepo struct {
	entries map[string]*domain.TimeEntry
	seq     int
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{entries: make(map[string]*domain.TimeEntry)}
}

func cloneEntry(e *domain.TimeEntry) *domain.TimeEntry {
	if e == nil {
		return nil
	}
	clone := *e
	if e.CheckOut != nil {
		v := *e.CheckOut
		clone.CheckOut = &v
	}
	if e.TotalHours != nil {
		v := *e.TotalHours
		clone.TotalHours = &v
	}
	if e.Notes != nil {
		v := *e.Notes
		clone.Notes = &v
	}
	return &clone
}

func (r *stubEntryRepo) openEntryID(userID, exceptID string) string {
	for id, e := range r.entries {
		if e.UserID == userID && e.CheckOut == nil && id != exceptID {
			return id
		}
	}
	return ""
}

func (r *stubEntryRepo) Create(_ context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	if entry.CheckOut == nil && r.openEntryID(entry.UserID, "") != "" {
		return nil, domain.ErrOpenEntryExists
	}
	copy := cloneEntry(entry)
	r.seq++
	copy.ID = fmt.Sprintf("e%d", r.seq)
	r.entries[copy.ID] = cloneEntry(copy)
	return copy, nil
}

func (r *stubEntryRepo) FindByID(_ context.Context, id string) (*domain.TimeEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

func (r *stubEntryRepo) FindOpenByUser(_ context.Context, userID string) (*domain.TimeEntry, error) {
	if id := r.openEntryID(userID, ""); id != "" {
		return cloneEntry(r.entries[id]), nil
	}
	return nil, domain.ErrEntryNotFound
}

func (r *stubEntryRepo) FindOpenByUserAndDate(_ context.Context, userID, date string) (*domain.TimeEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.CheckOut == nil && e.Date == date {
			return cloneEntry(e), nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (r *stubEntryRepo) List(_ context.Context, filter ports.EntryFilter) ([]*domain.TimeEntry, error) {
	out := []*domain.TimeEntry{}
	for _, e := range r.entries {
		if len(filter.UserIDs) == 0 {
			out = append(out, cloneEntry(e))
			continue
		}
		for _, id := range filter.UserIDs {
			if e.UserID == id {
				out = append(out, cloneEntry(e))
				break
			}
		}
	}
	return out, nil
}

func (r *stubEntryRepo) Update(_ context.Context, id string, patch ports.EntryPatch) (*domain.TimeEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	if patch.CheckOut.Set && patch.CheckOut.Value == nil && r.openEntryID(e.UserID, id) != "" {
		return nil, domain.ErrOpenEntryExists
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.CheckIn != nil {
		e.CheckIn = *patch.CheckIn
	}
	if patch.CheckOut.Set {
		if patch.CheckOut.Value == nil {
			e.CheckOut = nil
		} else {
			v := *patch.CheckOut.Value
			e.CheckOut = &v
		}
	}
	if patch.TotalHours != nil {
		e.TotalHours = patch.TotalHours
	}
	if patch.Notes != nil {
		e.Notes = patch.Notes
	}
	return cloneEntry(e), nil
}

func (r *stubEntryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

// stubRevoker records revoked token ids in memory.
type stubRevoker struct {
	revoked map[string]bool
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]bool)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	r.revoked[tokenID] = true
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return r.revoked[tokenID], nil
}
