package ports

import (
	"context"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/policy"
)

// UserPatch carries a partial update; nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
	Department   *string
	Status       *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. A store-level email uniqueness violation
	// is returned as domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns users matching the policy scope.
	List(ctx context.Context, scope policy.Scope) ([]*domain.User, error)
	// Update applies the patch and returns the updated user. Email
	// uniqueness violations are returned as domain.ErrDuplicateEmail.
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	// Delete removes the user and all of its time entries as one atomic
	// operation.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
