// Package pgdir provides a PostgreSQL implementation of patients.Directory.
package pgdir

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/urgencias/triaged/internal/patients"
)

var tracer = otel.Tracer("github.com/urgencias/triaged/internal/patients/pgdir")

//go:embed schema.sql
var schema string

// Directory persists patients in PostgreSQL.
type Directory struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Directory.
func New(ctx context.Context, pool *pgxpool.Pool) (*Directory, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Directory{pool: pool}, nil
}

const patientColumns = `id, identification, name, age, sex, blood_type,
	allergies, base_conditions, current_medication, complaint, companion, created_at`

// ResolveOrCreate inserts the patient unless its identification already
// exists, then reads whichever row won. The unique index on identification
// makes the insert race-safe: a concurrent duplicate insert becomes a
// no-op and the follow-up select resolves the winner.
func (d *Directory) ResolveOrCreate(ctx context.Context, p *patients.Patient) (*patients.Patient, error) {
	ctx, span := tracer.Start(ctx, "pgdir.ResolveOrCreate", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO patients (` + patientColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	ON CONFLICT (identification) DO NOTHING`

	_, err := d.pool.Exec(ctx, query,
		ulid.Make().String(), p.Identification, p.Name, p.Age, p.Sex, p.BloodType,
		p.Allergies, p.BaseConditions, p.CurrentMedication, p.Complaint, p.Companion,
		createdAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	got, ok, err := d.GetByIdentification(ctx, p.Identification)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("patient %q vanished after upsert", p.Identification)
	}
	return got, nil
}

// Get retrieves a patient by ID.
func (d *Directory) Get(ctx context.Context, id string) (*patients.Patient, bool, error) {
	ctx, span := tracer.Start(ctx, "pgdir.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	p, err := scanPatient(d.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if p == nil {
		return nil, false, nil
	}
	return p, true, nil
}

// GetByIdentification retrieves a patient by identification document.
func (d *Directory) GetByIdentification(ctx context.Context, ident string) (*patients.Patient, bool, error) {
	ctx, span := tracer.Start(ctx, "pgdir.GetByIdentification", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + patientColumns + ` FROM patients WHERE identification = $1`
	p, err := scanPatient(d.pool.QueryRow(ctx, query, ident))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if p == nil {
		return nil, false, nil
	}
	return p, true, nil
}

// List returns all patients, newest first.
func (d *Directory) List(ctx context.Context) ([]patients.Patient, error) {
	ctx, span := tracer.Start(ctx, "pgdir.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := d.pool.Query(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY created_at DESC, id DESC`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var out []patients.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return out, nil
}

// scanPatient scans a single row into a patients.Patient.
// Returns (nil, nil) when no row is found.
func scanPatient(row pgx.Row) (*patients.Patient, error) {
	var p patients.Patient
	err := row.Scan(
		&p.ID, &p.Identification, &p.Name, &p.Age, &p.Sex, &p.BloodType,
		&p.Allergies, &p.BaseConditions, &p.CurrentMedication, &p.Complaint,
		&p.Companion, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &p, nil
}
