// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

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

	"github.com/urgencias/triaged/internal/triage"
)

var tracer = otel.Tracer("github.com/urgencias/triaged/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists evaluations in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const evalColumns = `id, patient_id, patient_ident, patient_name,
	temperature_c, systolic_bp, diastolic_bp, heart_rate_bpm,
	respiratory_rate_rpm, oxygen_saturation_pct,
	level, status, observations, created_at, status_changed_at`

// Put inserts or updates an evaluation by ID.
func (s *Store) Put(ctx context.Context, ev *triage.Evaluation) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	query := `INSERT INTO evaluations (` + evalColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	ON CONFLICT (id) DO UPDATE SET
		status            = EXCLUDED.status,
		observations      = EXCLUDED.observations,
		status_changed_at = EXCLUDED.status_changed_at`

	_, err := s.pool.Exec(ctx, query,
		ev.ID, ev.PatientID, ev.PatientIdent, ev.PatientName,
		ev.Vitals.TemperatureC, ev.Vitals.SystolicBP, ev.Vitals.DiastolicBP,
		ev.Vitals.HeartRateBpm, ev.Vitals.RespiratoryRateRpm, ev.Vitals.OxygenSaturationPct,
		ev.Level.String(), string(ev.Status), ev.Observations,
		ev.CreatedAt, ev.StatusChangedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert evaluation: %w", err)
	}
	return nil
}

// Get retrieves an evaluation by ID.
func (s *Store) Get(ctx context.Context, id string) (*triage.Evaluation, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + evalColumns + ` FROM evaluations WHERE id = $1`
	ev, err := scanEvaluation(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if ev == nil {
		return nil, false, nil
	}
	return ev, true, nil
}

// List returns all evaluations, newest first.
func (s *Store) List(ctx context.Context) ([]triage.Evaluation, error) {
	ctx, span := tracer.Start(ctx, "pgstore.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + evalColumns + ` FROM evaluations ORDER BY created_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var out []triage.Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return out, nil
}

// UpdateStatus applies a compare-and-swap status change: the row updates
// only while its status still equals from. An existing row whose status
// moved on yields triage.ErrConflict, a missing row triage.ErrNotFound.
func (s *Store) UpdateStatus(ctx context.Context, id string, from, to triage.Status, at time.Time) (*triage.Evaluation, error) {
	ctx, span := tracer.Start(ctx, "pgstore.UpdateStatus", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	query := `UPDATE evaluations
	SET status = $3, status_changed_at = $4
	WHERE id = $1 AND status = $2
	RETURNING ` + evalColumns

	ev, err := scanEvaluation(s.pool.QueryRow(ctx, query, id, string(from), string(to), at))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if ev != nil {
		return ev, nil
	}

	// No row matched: distinguish a lost race from a missing record.
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM evaluations WHERE id = $1)`, id).Scan(&exists); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("check evaluation exists: %w", err)
	}
	if exists {
		return nil, triage.ErrConflict
	}
	return nil, triage.ErrNotFound
}

// scanEvaluation scans a single row into a triage.Evaluation.
// Returns (nil, nil) when no row is found.
func scanEvaluation(row pgx.Row) (*triage.Evaluation, error) {
	var (
		ev     triage.Evaluation
		level  string
		status string
	)

	err := row.Scan(
		&ev.ID, &ev.PatientID, &ev.PatientIdent, &ev.PatientName,
		&ev.Vitals.TemperatureC, &ev.Vitals.SystolicBP, &ev.Vitals.DiastolicBP,
		&ev.Vitals.HeartRateBpm, &ev.Vitals.RespiratoryRateRpm, &ev.Vitals.OxygenSaturationPct,
		&level, &status, &ev.Observations, &ev.CreatedAt, &ev.StatusChangedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	lv, err := triage.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("stored level %q: %w", level, err)
	}
	ev.Level = lv
	ev.Status = triage.Status(status)

	return &ev, nil
}
