package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/policy"
	"github.com/timetracer/timetracer-api/internal/core/ports"
)

// UserService is the user directory: CRUD over accounts with uniqueness and
// self-protection enforcement. Capability checks are delegated to the policy
// package; nothing here re-derives role logic.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context, claims domain.Claims) ([]*domain.User, error) {
	return s.users.List(ctx, policy.UsersScope(claims))
}

func (s *UserService) Create(ctx context.Context, claims domain.Claims, input ports.CreateUserInput) (*domain.User, error) {
	if d := policy.Decide(claims, policy.ActionCreateUser, policy.Resource{}); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleWorker
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if input.Name == "" || input.Email == "" || input.Password == "" || input.Department == "" {
		return nil, fmt.Errorf("%w: name, email, password and department are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Department:   input.Department,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).
		Str("department", created.Department).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, claims domain.Claims, targetID string, input ports.UpdateUserInput) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	decision := policy.Decide(claims, policy.ActionUpdateUser, policy.Resource{
		OwnerID:         target.ID,
		OwnerDepartment: target.Department,
	})
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, decision.Reason)
	}

	if input.Role != nil && !domain.ValidRole(*input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *input.Role)
	}
	if input.Status != nil && !domain.ValidStatus(*input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *input.Status)
	}

	patch := ports.UserPatch{
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Department: input.Department,
		Status:     input.Status,
	}
	if input.Password != nil && *input.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		digest := string(hash)
		patch.PasswordHash = &digest
	}

	updated, err := s.users.Update(ctx, targetID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", targetID).Str("by", claims.SubjectID).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, claims domain.Claims, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	decision := policy.Decide(claims, policy.ActionDeleteUser, policy.Resource{
		OwnerID:         target.ID,
		OwnerDepartment: target.Department,
	})
	if !decision.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, decision.Reason)
	}

	// The repository removes the user and all of its time entries in one
	// transaction.
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", targetID).Str("by", claims.SubjectID).Msg("user deleted")
	return nil
}

// EnsureDefaultAdmin seeds the first admin account so a fresh deployment can
// be logged into. It is a no-op when any user already exists.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, name, email, password, department string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Department:   department,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.Create(ctx, admin); err != nil {
		// Lost a race against another instance seeding the same admin.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil
		}
		return err
	}

	s.logger.Warn().Str("email", email).Msg("default admin created, change its password")
	return nil
}
