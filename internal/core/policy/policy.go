// Package policy is the single source of truth for who may do what. It is a
// pure decision layer: no I/O, no store access. Services call Decide for
// point actions and UsersScope/EntriesScope for list filtering; handlers
// never re-derive role checks themselves.
package policy

import (
	"github.com/timetracer/timetracer-api/internal/core/domain"
)

// Action identifies a capability-checked operation.
type Action string

const (
	ActionCreateUser  Action = "user:create"
	ActionUpdateUser  Action = "user:update"
	ActionDeleteUser  Action = "user:delete"
	ActionCreateEntry Action = "entry:create"
	ActionMutateEntry Action = "entry:mutate"
)

// Resource describes the target of a point action: who owns it and which
// department that owner belongs to. For user actions the resource owner is
// the target user itself.
type Resource struct {
	OwnerID         string
	OwnerDepartment string
}

// Decision is the outcome of a capability check. Reason is human-readable and
// surfaced to the caller on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide evaluates whether the caller may perform action on the resource.
//
// The self-protection rules are deliberate separation-of-duties controls:
// nobody edits or deletes their own account, and managers never update or
// delete their own time entries even though they may create them.
func Decide(c domain.Claims, action Action, r Resource) Decision {
	switch action {
	case ActionCreateUser:
		if c.IsAdmin() {
			return allow()
		}
		return deny("only administrators can create accounts")

	case ActionUpdateUser, ActionDeleteUser:
		if !c.IsAdmin() {
			return deny("only administrators can manage accounts")
		}
		if r.OwnerID == c.SubjectID {
			return deny("you cannot modify your own account")
		}
		return allow()

	case ActionCreateEntry:
		if c.IsAdmin() {
			return allow()
		}
		if r.OwnerID == c.SubjectID {
			return allow()
		}
		return deny("you can only record time for yourself")

	case ActionMutateEntry:
		if c.IsAdmin() {
			return allow()
		}
		if c.IsManager() {
			if r.OwnerID == c.SubjectID {
				return deny("managers cannot edit their own time entries")
			}
			if r.OwnerDepartment != c.Department {
				return deny("entry belongs to another department")
			}
			return allow()
		}
		return deny("workers cannot edit time entries")
	}

	return deny("unknown action")
}

// Scope is a list-filter predicate. Exactly one of the three shapes applies:
// All, a department restriction, or a single-user restriction.
type Scope struct {
	All        bool
	Department string
	UserID     string
}

// UsersScope returns the visibility filter for listing users.
func UsersScope(c domain.Claims) Scope {
	switch c.Role {
	case domain.RoleAdmin:
		return Scope{All: true}
	case domain.RoleManager:
		return Scope{Department: c.Department}
	default:
		return Scope{UserID: c.SubjectID}
	}
}

// EntriesScope returns the visibility filter for listing time entries. The
// department restriction applies to the entry owner's department.
func EntriesScope(c domain.Claims) Scope {
	switch c.Role {
	case domain.RoleAdmin:
		return Scope{All: true}
	case domain.RoleManager:
		return Scope{Department: c.Department}
	default:
		return Scope{UserID: c.SubjectID}
	}
}
