package triage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/urgencias/triaged/internal/paginate"
)

// PatientRef identifies the patient an evaluation belongs to. The engine
// stores the reference and the denormalized search fields; it never
// dereferences the patient beyond that.
type PatientRef struct {
	ID             string
	Identification string
	Name           string
}

// Service is the business boundary for triage operations.
type Service struct {
	store   Store
	logger  log.Logger
	metrics *Metrics
	loc     *time.Location

	now func() time.Time // overridable in tests
}

// NewService creates a new triage service. loc is the deployment's local
// zone used for daily statistics grouping; nil means time.Local.
func NewService(store Store, logger log.Logger, metrics *Metrics, loc *time.Location) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: metrics,
		loc:     loc,
		now:     time.Now,
	}
}

// Evaluate classifies the given vitals and persists a new evaluation in
// PENDIENTE. The vitals must already be validated (see ParseVitalSigns);
// classification itself is total and never fails.
func (s *Service) Evaluate(ctx context.Context, patient PatientRef, vs VitalSigns, observations string) (*Evaluation, error) {
	if patient.ID == "" {
		return nil, &ValidationError{Fields: map[string]string{"patient_id": "required"}}
	}

	start := s.now()
	level := Classify(vs)

	ev := &Evaluation{
		ID:              ulid.Make().String(),
		PatientID:       patient.ID,
		PatientIdent:    patient.Identification,
		PatientName:     patient.Name,
		Vitals:          vs,
		Level:           level,
		Status:          StatusPendiente,
		Observations:    observations,
		CreatedAt:       start,
		StatusChangedAt: start,
	}

	if err := s.store.Put(ctx, ev); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EvaluationsTotal.WithLabelValues(level.String()).Inc()
		s.metrics.EvaluateDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.Info(ctx, "evaluation created",
		"evaluation_id", ev.ID,
		"patient_id", ev.PatientID,
		"level", level.String(),
	)

	return ev, nil
}

// Get retrieves an evaluation by ID.
func (s *Service) Get(ctx context.Context, id string) (*Evaluation, bool, error) {
	return s.store.Get(ctx, id)
}

// List returns one page of evaluations, newest first. filter is an optional
// case-insensitive substring match on patient name or identification,
// applied before pagination.
func (s *Service) List(ctx context.Context, page, pageSize int, filter string) ([]Evaluation, paginate.Info, error) {
	evals, err := s.store.List(ctx)
	if err != nil {
		return nil, paginate.Info{}, err
	}

	if filter != "" {
		q := strings.ToLower(filter)
		matched := evals[:0]
		for _, ev := range evals {
			if strings.Contains(strings.ToLower(ev.PatientName), q) ||
				strings.Contains(strings.ToLower(ev.PatientIdent), q) {
				matched = append(matched, ev)
			}
		}
		evals = matched
	}

	return paginate.Page(evals, page, pageSize)
}

// SetStatus advances an evaluation through the disposition state machine.
// The store update is a compare-and-swap on the current status; a lost race
// is retried once against the re-read state before surfacing ErrConflict.
func (s *Service) SetStatus(ctx context.Context, id string, to Status) (*Evaluation, error) {
	if !to.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"status": "unknown status " + string(to)}}
	}

	ev, from, err := s.advance(ctx, id, to)
	if errors.Is(err, ErrConflict) {
		s.logger.Warn(ctx, "status update lost race, retrying", "evaluation_id", id, "to", to)
		if s.metrics != nil {
			s.metrics.StatusConflictsTotal.Inc()
		}
		ev, from, err = s.advance(ctx, id, to)
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	}

	s.logger.Info(ctx, "evaluation status changed",
		"evaluation_id", id,
		"status", string(to),
	)

	return ev, nil
}

func (s *Service) advance(ctx context.Context, id string, to Status) (*Evaluation, Status, error) {
	ev, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrNotFound
	}

	if !ev.Status.CanTransition(to) {
		return nil, "", &InvalidTransitionError{From: ev.Status, To: to}
	}

	updated, err := s.store.UpdateStatus(ctx, id, ev.Status, to, s.now())
	if err != nil {
		return nil, "", err
	}
	return updated, ev.Status, nil
}

// Stats recomputes the dashboard aggregate from the full evaluation set.
func (s *Service) Stats(ctx context.Context) (StatsSnapshot, error) {
	start := s.now()

	evals, err := s.store.List(ctx)
	if err != nil {
		return StatsSnapshot{}, err
	}

	snap := Aggregate(evals, s.loc)

	if s.metrics != nil {
		s.metrics.StatsDuration.Observe(time.Since(start).Seconds())
	}

	return snap, nil
}
