package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/timetracer/timetracer-api/internal/core/domain"
	"github.com/timetracer/timetracer-api/internal/core/ports"
)

type stubUserService struct {
	listFn   func(ctx context.Context, claims domain.Claims) ([]*domain.User, error)
	createFn func(ctx context.Context, claims domain.Claims, input ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, claims domain.Claims, targetID string, input ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, claims domain.Claims, targetID string) error
}

func (s *stubUserService) List(ctx context.Context, claims domain.Claims) ([]*domain.User, error) {
	return s.listFn(ctx, claims)
}

func (s *stubUserService) Create(ctx context.Context, claims domain.Claims, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, claims, input)
}

func (s *stubUserService) Update(ctx context.Context, claims domain.Claims, targetID string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, claims, targetID, input)
}

func (s *stubUserService) Delete(ctx context.Context, claims domain.Claims, targetID string) error {
	return s.deleteFn(ctx, claims, targetID)
}

func (s *stubUserService) EnsureDefaultAdmin(context.Context, string, string, string, string) error {
	return nil
}

func TestUserHandler_Create_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	var got ports.CreateUserInput
	stub := &stubUserService{
		createFn: func(_ context.Context, _ domain.Claims, input ports.CreateUserInput) (*domain.User, error) {
			got = input
			return &domain.User{ID: "u2", Name: input.Name, Email: input.Email, Role: domain.RoleManager}, nil
		},
	}
	handler := NewUserHandler(stub)

	admin := domain.Claims{SubjectID: "a1", Role: domain.RoleAdmin}
	body := `{"name":"Bob","email":"bob@example.com","password":"secret1","role":"manager","department":"Sales"}`
	c, rec := authedContext(e, http.MethodPost, "/api/users", body, admin)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Email != "bob@example.com" || got.Role != "manager" || got.Department != "Sales" {
		t.Fatalf("input not forwarded: %+v", got)
	}

	var user map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if user["id"] != "u2" {
		t.Fatalf("unexpected payload: %+v", user)
	}
}

func TestUserHandler_Create_ValidationFailure(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	handler := NewUserHandler(&stubUserService{
		createFn: func(_ context.Context, _ domain.Claims, _ ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	admin := domain.Claims{SubjectID: "a1", Role: domain.RoleAdmin}
	cases := []string{
		`{"name":"Bob","email":"not-an-email","password":"secret1","department":"Sales"}`,
		`{"name":"Bob","email":"bob@example.com","password":"short","department":"Sales"}`,
		`{"name":"Bob","email":"bob@example.com","password":"secret1","role":"root","department":"Sales"}`,
	}
	for i, body := range cases {
		c, rec := authedContext(e, http.MethodPost, "/api/users", body, admin)
		if err := handler.Create(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, rec.Code)
		}
	}
}

func TestUserHandler_Update_ForwardsPatch(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	var gotID string
	var gotInput ports.UpdateUserInput
	stub := &stubUserService{
		updateFn: func(_ context.Context, _ domain.Claims, targetID string, input ports.UpdateUserInput) (*domain.User, error) {
			gotID = targetID
			gotInput = input
			return &domain.User{ID: targetID}, nil
		},
	}
	handler := NewUserHandler(stub)

	admin := domain.Claims{SubjectID: "a1", Role: domain.RoleAdmin}
	c, rec := authedContext(e, http.MethodPut, "/api/users/u5", `{"status":"inactive"}`, admin)
	c.SetParamNames("id")
	c.SetParamValues("u5")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "u5" {
		t.Fatalf("target id not forwarded: %s", gotID)
	}
	if gotInput.Status == nil || *gotInput.Status != "inactive" {
		t.Fatalf("status not forwarded: %+v", gotInput.Status)
	}
	if gotInput.Name != nil || gotInput.Email != nil {
		t.Fatalf("absent fields must stay nil: %+v", gotInput)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := echo.New()
	var gotID string
	stub := &stubUserService{
		deleteFn: func(_ context.Context, _ domain.Claims, targetID string) error {
			gotID = targetID
			return nil
		},
	}
	handler := NewUserHandler(stub)

	admin := domain.Claims{SubjectID: "a1", Role: domain.RoleAdmin}
	c, rec := authedContext(e, http.MethodDelete, "/api/users/u6", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("u6")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "u6" {
		t.Fatalf("target id not forwarded: %s", gotID)
	}
}
