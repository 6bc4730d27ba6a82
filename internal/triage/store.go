package triage

import (
	"context"
	"time"
)

// Store is the persistence interface for evaluations. The engine holds no
// long-lived references of its own; every operation goes through the store.
type Store interface {
	// Put inserts or replaces an evaluation by ID.
	Put(ctx context.Context, ev *Evaluation) error

	// Get retrieves an evaluation by ID.
	Get(ctx context.Context, id string) (*Evaluation, bool, error)

	// List returns all evaluations, newest first.
	List(ctx context.Context) ([]Evaluation, error)

	// UpdateStatus moves an evaluation from one status to another with
	// compare-and-swap semantics: the update applies only while the stored
	// status still equals from. If the record exists but the status no
	// longer matches, it returns ErrConflict; if the record does not exist,
	// ErrNotFound. Concurrent staff actions on the same evaluation must
	// never silently overwrite each other.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (*Evaluation, error)
}
