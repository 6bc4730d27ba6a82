package users

import (
	"context"
	"errors"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/urgencias/triaged/internal/triage"
)

// ErrBadCredentials is returned by Authenticate for an unknown email, a
// wrong password, or a deactivated account. Callers must not distinguish
// the three.
var ErrBadCredentials = errors.New("invalid credentials")

// RegisterRequest carries the fields needed to create a staff account.
type RegisterRequest struct {
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"rol"`
	Document  string `json:"cedula"`
	Phone     string `json:"telefono"`
	Specialty string `json:"especialidad"`
}

// Service is the business boundary for staff accounts.
type Service struct {
	store  Store
	logger log.Logger

	now func() time.Time
}

// NewService creates a new users service.
func NewService(store Store, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Register creates a staff account. The password is hashed here, before the
// store ever sees the record.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := NormalizeEmail(req.Email)
	role := req.Role
	if role == "" {
		role = RoleEnfermero
	}

	if err := validateRegistration(req.Name, email, req.Password, role, req.Document); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           ulid.Make().String(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Document:     req.Document,
		Phone:        req.Phone,
		Specialty:    req.Specialty,
		Active:       true,
		CreatedAt:    s.now(),
	}

	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Authenticate verifies the password for the given email and records the
// access time. All failure modes collapse into ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, ok, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !ok || !u.Active {
		return nil, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	at := s.now()
	if err := s.store.Touch(ctx, u.ID, at); err != nil && !errors.Is(err, triage.ErrNotFound) {
		s.logger.Warn(ctx, "failed to record last access", "user_id", u.ID, "error", err)
	}
	u.LastAccess = at

	return u, nil
}
