package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/ports"
)

func adminClaims(id string) domain.Claims {
	return domain.Claims{SubjectID: id, Role: domain.RoleAdmin, Department: "IT"}
}

func TestUserService_Create_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	user, err := svc.Create(context.Background(), adminClaims("a1"), ports.CreateUserInput{
		Name:       "Alice",
		Email:      "alice@example.com",
		Password:   "pass123",
		Department: "Sales",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.Role != domain.RoleWorker {
		t.Fatalf("expected default role worker, got %s", user.Role)
	}
	if user.Status != domain.StatusActive {
		t.Fatalf("expected active status, got %s", user.Status)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Create_Forbidden(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	input := ports.CreateUserInput{Name: "X", Email: "x@example.com", Password: "p", Department: "Sales"}
	for _, role := range []string{domain.RoleManager, domain.RoleWorker} {
		claims := domain.Claims{SubjectID: "c1", Role: role, Department: "Sales"}
		if _, err := svc.Create(context.Background(), claims, input); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %s: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	if _, err := svc.Create(context.Background(), adminClaims("a1"), ports.CreateUserInput{
		Name: "Bob", Email: "bob@example.com", Password: "p", Department: "Sales", Role: "superuser",
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad role, got %v", err)
	}

	if _, err := svc.Create(context.Background(), adminClaims("a1"), ports.CreateUserInput{
		Name: "Bob", Email: "", Password: "p", Department: "Sales",
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing email, got %v", err)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	input := ports.CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "p", Department: "Sales"}
	if _, err := svc.Create(context.Background(), adminClaims("a1"), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), adminClaims("a1"), input); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	target := seedUser(t, repo, "carl@example.com", "pass", domain.RoleWorker, "Sales", domain.StatusActive)

	name := "Carl Renamed"
	status := domain.StatusInactive
	updated, err := svc.Update(context.Background(), adminClaims("a1"), target.ID, ports.UpdateUserInput{
		Name:   &name,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != name || updated.Status != domain.StatusInactive {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Email != "carl@example.com" {
		t.Fatalf("untouched field changed: %+v", updated)
	}
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	target := seedUser(t, repo, "dora@example.com", "old", domain.RoleWorker, "Sales", domain.StatusActive)

	newPass := "brand-new"
	updated, err := svc.Update(context.Background(), adminClaims("a1"), target.ID, ports.UpdateUserInput{Password: &newPass})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPass)); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestUserService_Update_SelfForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	self := seedUser(t, repo, "admin@example.com", "pass", domain.RoleAdmin, "IT", domain.StatusActive)

	name := "New Name"
	if _, err := svc.Update(context.Background(), adminClaims(self.ID), self.ID, ports.UpdateUserInput{Name: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-update, got %v", err)
	}
}

func TestUserService_Update_NotFoundBeforeForbidden(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	claims := domain.Claims{SubjectID: "w1", Role: domain.RoleWorker, Department: "Sales"}
	name := "X"
	if _, err := svc.Update(context.Background(), claims, "ghost", ports.UpdateUserInput{Name: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for missing target, got %v", err)
	}
}

func TestUserService_Delete_CascadesEntries(t *testing.T) {
	users := newStubUserRepo()
	entries := newStubEntryRepo()
	users.entries = entries
	svc := NewUserService(users, zerolog.Nop())

	target := seedUser(t, users, "eve@example.com", "pass", domain.RoleWorker, "Sales", domain.StatusActive)
	checkIn, _ := domain.ParseWallClock("2025-10-07T09:00:00")
	checkOut, _ := domain.ParseWallClock("2025-10-07T17:00:00")
	if _, err := entries.Create(context.Background(), &domain.TimeEntry{
		UserID: target.ID, Date: "2025-10-07", CheckIn: checkIn, CheckOut: &checkOut,
	}); err != nil {
		t.Fatalf("seed entry failed: %v", err)
	}

	if err := svc.Delete(context.Background(), adminClaims("a1"), target.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(entries.entries) != 0 {
		t.Fatalf("expected cascade delete of time entries, %d left", len(entries.entries))
	}
	if _, err := users.FindByID(context.Background(), target.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still present after delete")
	}
}

func TestUserService_Delete_SelfForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	self := seedUser(t, repo, "root@example.com", "pass", domain.RoleAdmin, "IT", domain.StatusActive)

	if err := svc.Delete(context.Background(), adminClaims(self.ID), self.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-delete, got %v", err)
	}
}

func TestUserService_List_Scoped(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	seedUser(t, repo, "s1@example.com", "p", domain.RoleWorker, "Sales", domain.StatusActive)
	seedUser(t, repo, "s2@example.com", "p", domain.RoleManager, "Sales", domain.StatusActive)
	seedUser(t, repo, "it1@example.com", "p", domain.RoleWorker, "IT", domain.StatusActive)

	all, err := svc.List(context.Background(), adminClaims("a1"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin should see everyone, got %d", len(all))
	}

	sales, err := svc.List(context.Background(), domain.Claims{SubjectID: "m1", Role: domain.RoleManager, Department: "Sales"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("manager should see own department only, got %d", len(sales))
	}
}

func TestUserService_EnsureDefaultAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.EnsureDefaultAdmin(context.Background(), "Admin", "admin@example.com", "changeme", "IT"); err != nil {
		t.Fatalf("EnsureDefaultAdmin failed: %v", err)
	}
	admin, err := repo.FindByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}

	// A populated store is left alone.
	if err := svc.EnsureDefaultAdmin(context.Background(), "Admin", "other@example.com", "changeme", "IT"); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "other@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second admin should not be seeded")
	}
}
