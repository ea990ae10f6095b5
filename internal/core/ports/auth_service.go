package ports

import (
	"context"
	"time"

	"github.com/timetracer/timetracer-api/internal/core/domain"
)

// AuthService implements login, logout and the current-user lookup.
type AuthService interface {
	// Login verifies credentials and returns a signed bearer token together
	// with the authenticated user. Inactive accounts are rejected.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Logout revokes the caller's token until its natural expiry.
	Logout(ctx context.Context, claims domain.Claims) error
	// CurrentUser returns the fresh user record behind the claims.
	CurrentUser(ctx context.Context, claims domain.Claims) (*domain.User, error)
}

// TokenRevoker marks tokens as revoked and answers revocation checks. Backed
// by Redis in production.
type TokenRevoker interface {
	// Revoke marks the token id as revoked for ttl (the token's remaining
	// lifetime).
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
