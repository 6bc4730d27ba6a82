package pgdir_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/urgencias/triaged/internal/patients"
	"github.com/urgencias/triaged/internal/patients/pgdir"
)

func openDirectory(t *testing.T) *pgdir.Directory {
	t.Helper()
	dsn := os.Getenv("TRIAGED_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TRIAGED_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)
	d, err := pgdir.New(ctx, pool)
	if err != nil {
		t.Fatalf("pgdir.New: %v", err)
	}
	return d
}

func TestResolveOrCreate(t *testing.T) {
	d := openDirectory(t)
	ctx := context.Background()

	ident := "test-" + ulid.Make().String()
	draft := &patients.Patient{
		Identification: ident,
		Name:           "ANA LOPEZ",
		Age:            "34",
		Sex:            "FEMENINO",
		BloodType:      "O+",
		Complaint:      "dolor de cabeza",
		CreatedAt:      time.Now().Truncate(time.Microsecond).UTC(),
	}

	created, err := d.ResolveOrCreate(ctx, draft)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}

	// A second call with the same identification resolves, not duplicates.
	resolved, err := d.ResolveOrCreate(ctx, &patients.Patient{Identification: ident, Name: "OTHER"})
	if err != nil {
		t.Fatalf("ResolveOrCreate resolve: %v", err)
	}
	if resolved.ID != created.ID {
		t.Errorf("resolved ID %s, want %s", resolved.ID, created.ID)
	}
	if resolved.Name != "ANA LOPEZ" {
		t.Errorf("resolved Name = %q, want stored record", resolved.Name)
	}
}

func TestGetByIdentificationMissing(t *testing.T) {
	d := openDirectory(t)
	ctx := context.Background()

	_, ok, err := d.GetByIdentification(ctx, "no-such-identification")
	if err != nil {
		t.Fatalf("GetByIdentification: %v", err)
	}
	if ok {
		t.Error("GetByIdentification returned ok=true for missing identification")
	}
}

func TestGetRoundTrip(t *testing.T) {
	d := openDirectory(t)
	ctx := context.Background()

	ident := "test-" + ulid.Make().String()
	created, err := d.ResolveOrCreate(ctx, &patients.Patient{
		Identification: ident,
		Name:           "CARLOS RUIZ",
		Sex:            "MASCULINO",
		BloodType:      "A-",
		Allergies:      "penicilina",
		CreatedAt:      time.Now().Truncate(time.Microsecond).UTC(),
	})
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}

	got, ok, err := d.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false")
	}
	if got.Name != "CARLOS RUIZ" || got.BloodType != "A-" || got.Allergies != "penicilina" {
		t.Errorf("got %+v", got)
	}
}
