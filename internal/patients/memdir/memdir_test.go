package memdir

import (
	"context"
	"sync"
	"testing"

	"github.com/urgencias/triaged/internal/patients"
)

func TestResolveOrCreate(t *testing.T) {
	t.Parallel()

	d := New()
	ctx := context.Background()

	p := &patients.Patient{Identification: "123", Name: "ANA LOPEZ"}
	created, err := d.ResolveOrCreate(ctx, p)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// Same identification resolves to the existing record even when the
	// draft carries different details.
	resolved, err := d.ResolveOrCreate(ctx, &patients.Patient{Identification: "123", Name: "OTHER NAME"})
	if err != nil {
		t.Fatalf("ResolveOrCreate existing: %v", err)
	}
	if resolved.ID != created.ID {
		t.Errorf("resolved ID %s, want %s", resolved.ID, created.ID)
	}
	if resolved.Name != "ANA LOPEZ" {
		t.Errorf("resolved Name = %q, want the stored record", resolved.Name)
	}
}

func TestResolveOrCreate_Concurrent(t *testing.T) {
	t.Parallel()

	d := New()
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := d.ResolveOrCreate(ctx, &patients.Patient{Identification: "999", Name: "ANA"})
			if err != nil {
				t.Errorf("ResolveOrCreate: %v", err)
				return
			}
			ids[i] = p.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent resolves produced distinct records: %s vs %s", ids[i], ids[0])
		}
	}

	all, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("directory holds %d records, want 1", len(all))
	}
}

func TestGetAndGetByIdentification(t *testing.T) {
	t.Parallel()

	d := New()
	ctx := context.Background()

	created, err := d.ResolveOrCreate(ctx, &patients.Patient{Identification: "456", Name: "CARLOS RUIZ"})
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}

	got, ok, err := d.Get(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Name != "CARLOS RUIZ" {
		t.Errorf("Name = %q", got.Name)
	}

	byIdent, ok, err := d.GetByIdentification(ctx, "456")
	if err != nil || !ok {
		t.Fatalf("GetByIdentification: ok=%v err=%v", ok, err)
	}
	if byIdent.ID != created.ID {
		t.Errorf("ID = %s, want %s", byIdent.ID, created.ID)
	}

	if _, ok, _ := d.Get(ctx, "missing"); ok {
		t.Error("Get returned ok=true for missing ID")
	}
	if _, ok, _ := d.GetByIdentification(ctx, "000"); ok {
		t.Error("GetByIdentification returned ok=true for missing identification")
	}
}
