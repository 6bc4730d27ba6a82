package triage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound marks lookups for evaluations or patients that do not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict marks a lost optimistic-concurrency race at the store
// boundary. Callers retry once by re-reading before surfacing it.
var ErrConflict = errors.New("conflict")

// ValidationError reports rejected input with per-field detail so the
// operator can be re-prompted.
type ValidationError struct {
	Fields map[string]string // field name -> problem
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidTransitionError reports a status change the state machine does
// not allow.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}
