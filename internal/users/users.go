// Package users implements staff accounts for the triage desk. Password
// hashing is an explicit step before persistence, never a storage hook, so
// the store boundary stays free of hidden side effects.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/urgencias/triaged/internal/triage"
)

// Roles a staff account can hold.
const (
	RoleAdmin         = "ADMIN"
	RoleMedico        = "MEDICO"
	RoleEnfermero     = "ENFERMERO"
	RoleRecepcionista = "RECEPCIONISTA"
)

var validRoles = map[string]bool{
	RoleAdmin:         true,
	RoleMedico:        true,
	RoleEnfermero:     true,
	RoleRecepcionista: true,
}

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// User is one staff account. PasswordHash is always a bcrypt hash; the
// plain password never reaches a store.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"rol"`
	Document     string    `json:"cedula"`
	Phone        string    `json:"telefono,omitempty"`
	Specialty    string    `json:"especialidad,omitempty"`
	Active       bool      `json:"activo"`
	LastAccess   time.Time `json:"ultimo_acceso"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store is the persistence interface for staff accounts.
type Store interface {
	// Create inserts a new user. A duplicate email fails with
	// triage.ErrConflict.
	Create(ctx context.Context, u *User) error

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*User, bool, error)

	// Touch records a successful login time.
	Touch(ctx context.Context, id string, at time.Time) error
}

// NormalizeEmail lowercases and trims an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password, role, document string) error {
	bad := make(map[string]string)
	if strings.TrimSpace(name) == "" {
		bad["nombre"] = "required"
	}
	if email == "" {
		bad["email"] = "required"
	}
	if len(password) < MinPasswordLen {
		bad["password"] = "must be at least 6 characters"
	}
	if !validRoles[role] {
		bad["rol"] = "unknown role " + role
	}
	if strings.TrimSpace(document) == "" {
		bad["cedula"] = "required"
	}
	if len(bad) > 0 {
		return &triage.ValidationError{Fields: bad}
	}
	return nil
}
