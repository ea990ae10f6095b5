package ports

import (
	"context"

	"github.com/timetracer/timetracer-api/internal/core/domain"
)

// CreateUserInput carries all data needed to create a new account. Role
// defaults to worker when empty.
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
}

// UpdateUserInput is a partial account update; nil fields are left untouched.
// A non-empty Password is re-hashed and replaces the stored digest.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *string
	Department *string
	Status     *string
}

// UserService is the user directory: CRUD over accounts with uniqueness and
// self-protection enforcement, delegating capability checks to the policy
// package.
type UserService interface {
	List(ctx context.Context, claims domain.Claims) ([]*domain.User, error)
	Create(ctx context.Context, claims domain.Claims, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, claims domain.Claims, targetID string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, claims domain.Claims, targetID string) error
	// EnsureDefaultAdmin seeds the first admin account when the store holds
	// no users at all. Called once at startup.
	EnsureDefaultAdmin(ctx context.Context, name, email, password, department string) error
}
