package users

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/urgencias/triaged/internal/triage"
)

func validRequest() RegisterRequest {
	return RegisterRequest{
		Name:     "Laura Gomez",
		Email:    "Laura.Gomez@Hospital.co",
		Password: "secreto1",
		Role:     RoleMedico,
		Document: "52123456",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemStore(), nil)

	u, err := svc.Register(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if u.ID == "" {
		t.Error("expected generated ID")
	}
	if u.Email != "laura.gomez@hospital.co" {
		t.Errorf("Email = %q, want normalized", u.Email)
	}
	if !u.Active {
		t.Error("new accounts must be active")
	}
	if u.PasswordHash == "secreto1" || u.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreto1")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_DefaultRole(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemStore(), nil)

	req := validRequest()
	req.Role = ""
	u, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != RoleEnfermero {
		t.Errorf("Role = %q, want ENFERMERO", u.Role)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemStore(), nil)

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }, "password"},
		{"missing name", func(r *RegisterRequest) { r.Name = " " }, "nombre"},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "email"},
		{"unknown role", func(r *RegisterRequest) { r.Role = "CELADOR" }, "rol"},
		{"missing document", func(r *RegisterRequest) { r.Document = "" }, "cedula"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			var verr *triage.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemStore(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRequest()); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// Same email in different case still collides.
	req := validRequest()
	req.Email = "LAURA.GOMEZ@hospital.co"
	_, err := svc.Register(ctx, req)
	if !errors.Is(err, triage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemStore(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := svc.Authenticate(ctx, "laura.gomez@hospital.co", "secreto1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.LastAccess.IsZero() {
		t.Error("expected LastAccess to be recorded")
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, validRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Wrong password and unknown email are indistinguishable.
	if _, err := svc.Authenticate(ctx, u.Email, "wrongpass"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: got %v, want ErrBadCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@hospital.co", "secreto1"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email: got %v, want ErrBadCredentials", err)
	}

	store.Deactivate(u.ID)
	if _, err := svc.Authenticate(ctx, u.Email, "secreto1"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("inactive account: got %v, want ErrBadCredentials", err)
	}
}
