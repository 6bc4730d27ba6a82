// Package triageapi exposes the triage desk over JSON HTTP.
package triageapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/urgencias/triaged/internal/paginate"
	"github.com/urgencias/triaged/internal/patients"
	"github.com/urgencias/triaged/internal/triage"
	"github.com/urgencias/triaged/internal/users"
)

// TriageService defines the business operations triageapi needs.
type TriageService interface {
	Evaluate(ctx context.Context, patient triage.PatientRef, vs triage.VitalSigns, observations string) (*triage.Evaluation, error)
	Get(ctx context.Context, id string) (*triage.Evaluation, bool, error)
	List(ctx context.Context, page, pageSize int, filter string) ([]triage.Evaluation, paginate.Info, error)
	SetStatus(ctx context.Context, id string, to triage.Status) (*triage.Evaluation, error)
	Stats(ctx context.Context) (triage.StatsSnapshot, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger    log.Logger
	svc       TriageService
	directory patients.Directory
	users     *users.Service
}

// New creates a new API handler. The users service is optional; when nil
// the auth routes are not registered.
func New(logger log.Logger, svc TriageService, directory patients.Directory, userSvc *users.Service) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	if directory == nil {
		panic(xerrors.New("patient directory is required"))
	}
	return &API{
		logger:    logger,
		svc:       svc,
		directory: directory,
		users:     userSvc,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/triage", func(r chi.Router) {
			r.Post("/", a.handleEvaluate)
			r.Get("/", a.handleListEvaluations)
			r.Get("/stats", a.handleStats)
			r.Get("/{id}", a.handleGetEvaluation)
			r.Patch("/{id}/status", a.handleSetStatus)
		})

		r.Route("/patients", func(r chi.Router) {
			r.Post("/", a.handleCreatePatient)
			r.Get("/", a.handleListPatients)
			r.Get("/identification/{ident}", a.handleGetPatientByIdentification)
		})

		if a.users != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", a.handleRegister)
				r.Post("/login", a.handleLogin)
			})
		}
	})
}

func (a *API) logError(r *http.Request, err error, msg string, kv ...any) {
	a.logger.Error(r.Context(), err, msg, kv...)
}
