// Package patients implements the patient directory: identity storage with
// atomic resolve-or-create by identification.
package patients

import (
	"context"
	"strings"
	"time"

	"github.com/urgencias/triaged/internal/triage"
)

// Sexes and blood types accepted at registration.
var (
	validSexes      = map[string]bool{"MASCULINO": true, "FEMENINO": true, "OTRO": true}
	validBloodTypes = map[string]bool{"A+": true, "A-": true, "B+": true, "B-": true, "AB+": true, "AB-": true, "O+": true, "O-": true}
)

// Patient is one registered patient. Identification is unique across the
// directory.
type Patient struct {
	ID                string    `json:"id"`
	Identification    string    `json:"identificacion"`
	Name              string    `json:"nombre"`
	Age               string    `json:"edad"`
	Sex               string    `json:"sexo"`
	BloodType         string    `json:"tipoSangre"`
	Allergies         string    `json:"alergias,omitempty"`
	BaseConditions    string    `json:"enfermedadesBase,omitempty"`
	CurrentMedication string    `json:"medicamentosActuales,omitempty"`
	Complaint         string    `json:"motivoConsulta"`
	Companion         string    `json:"acompanante,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Normalize trims the identity fields and uppercases the name, matching how
// records were stored historically.
func (p *Patient) Normalize() {
	p.Identification = strings.TrimSpace(p.Identification)
	p.Name = strings.ToUpper(strings.TrimSpace(p.Name))
	p.Sex = strings.ToUpper(strings.TrimSpace(p.Sex))
	p.BloodType = strings.ToUpper(strings.TrimSpace(p.BloodType))
}

// Validate checks the required registration fields.
func (p *Patient) Validate() error {
	bad := make(map[string]string)
	if p.Identification == "" {
		bad["identificacion"] = "required"
	}
	if p.Name == "" {
		bad["nombre"] = "required"
	}
	if p.Sex != "" && !validSexes[p.Sex] {
		bad["sexo"] = "must be MASCULINO, FEMENINO or OTRO"
	}
	if p.BloodType != "" && !validBloodTypes[p.BloodType] {
		bad["tipoSangre"] = "unknown blood type " + p.BloodType
	}
	if len(bad) > 0 {
		return &triage.ValidationError{Fields: bad}
	}
	return nil
}

// Directory is the persistence interface for patients.
type Directory interface {
	// ResolveOrCreate returns the patient with the given identification,
	// creating it from p if absent. The operation is atomic: two concurrent
	// calls for the same new identification must yield one record, with the
	// loser of the race resolving the winner's row.
	ResolveOrCreate(ctx context.Context, p *Patient) (*Patient, error)

	// Get retrieves a patient by its opaque ID.
	Get(ctx context.Context, id string) (*Patient, bool, error)

	// GetByIdentification retrieves a patient by identification document.
	GetByIdentification(ctx context.Context, ident string) (*Patient, bool, error)

	// List returns all patients, newest first.
	List(ctx context.Context) ([]Patient, error)
}
