// Package memdir provides an in-memory implementation of patients.Directory.
package memdir

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/urgencias/triaged/internal/patients"
)

// Directory holds patients in memory. Suitable for dev/testing.
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]*patients.Patient
	byIdent map[string]string // identification -> patient ID
}

// New initializes a new in-memory Directory.
func New() *Directory {
	return &Directory{
		byID:    make(map[string]*patients.Patient),
		byIdent: make(map[string]string),
	}
}

// ResolveOrCreate returns the existing patient for p's identification or
// creates it. Atomicity comes from holding the write lock across the
// lookup and insert.
func (d *Directory) ResolveOrCreate(_ context.Context, p *patients.Patient) (*patients.Patient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.byIdent[p.Identification]; ok {
		cp := *d.byID[id]
		return &cp, nil
	}

	cp := *p
	cp.ID = ulid.Make().String()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	d.byID[cp.ID] = &cp
	d.byIdent[cp.Identification] = cp.ID

	out := cp
	return &out, nil
}

// Get retrieves a patient by ID. Returns a copy.
func (d *Directory) Get(_ context.Context, id string) (*patients.Patient, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byID[id]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

// GetByIdentification retrieves a patient by identification. Returns a copy.
func (d *Directory) GetByIdentification(_ context.Context, ident string) (*patients.Patient, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byIdent[ident]
	if !ok {
		return nil, false, nil
	}
	cp := *d.byID[id]
	return &cp, true, nil
}

// List returns copies of all patients, newest first.
func (d *Directory) List(_ context.Context) ([]patients.Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]patients.Patient, 0, len(d.byID))
	for _, p := range d.byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
