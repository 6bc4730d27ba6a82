package triageapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/urgencias/triaged/internal/patients"
	"github.com/urgencias/triaged/internal/triage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// evaluateRequest is the intake payload. The patient comes either as an
// existing directory ID or as an inline draft that is resolved-or-created
// before classification; the vitals are operator text validated here, at
// the boundary, before they reach the classifier.
type evaluateRequest struct {
	PatientID    string                  `json:"patientId"`
	Patient      *patients.Patient       `json:"paciente"`
	VitalSigns   triage.VitalSignsInput  `json:"vitalSigns"`
	Observations string                  `json:"observaciones"`
}

func (a *API) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &triage.ValidationError{Fields: map[string]string{"body": "invalid JSON payload"}})
		return
	}

	vs, err := triage.ParseVitalSigns(req.VitalSigns)
	if err != nil {
		writeError(w, err)
		return
	}

	ref, err := a.resolvePatient(r, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	ev, err := a.svc.Evaluate(r.Context(), ref, vs, req.Observations)
	if err != nil {
		a.logError(r, err, "evaluate failed", "patient_id", ref.ID)
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, ev)
}

// resolvePatient turns the request's patient reference into a PatientRef,
// creating the directory entry when an inline draft is supplied.
func (a *API) resolvePatient(r *http.Request, req *evaluateRequest) (triage.PatientRef, error) {
	switch {
	case req.PatientID != "":
		p, ok, err := a.directory.Get(r.Context(), req.PatientID)
		if err != nil {
			a.logError(r, err, "patient lookup failed", "patient_id", req.PatientID)
			return triage.PatientRef{}, err
		}
		if !ok {
			return triage.PatientRef{}, triage.ErrNotFound
		}
		return triage.PatientRef{ID: p.ID, Identification: p.Identification, Name: p.Name}, nil

	case req.Patient != nil:
		req.Patient.Normalize()
		if err := req.Patient.Validate(); err != nil {
			return triage.PatientRef{}, err
		}
		p, err := a.directory.ResolveOrCreate(r.Context(), req.Patient)
		if err != nil {
			a.logError(r, err, "patient resolve-or-create failed", "identification", req.Patient.Identification)
			return triage.PatientRef{}, err
		}
		return triage.PatientRef{ID: p.ID, Identification: p.Identification, Name: p.Name}, nil

	default:
		return triage.PatientRef{}, &triage.ValidationError{Fields: map[string]string{
			"patientId": "patientId or paciente is required",
		}}
	}
}

func (a *API) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, info, err := a.svc.List(r.Context(), page, pageSize, r.URL.Query().Get("q"))
	if err != nil {
		a.logError(r, err, "list evaluations failed")
		writeError(w, err)
		return
	}

	writePage(w, items, info)
}

func (a *API) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("triaged.evaluation.id", id))

	ev, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.logError(r, err, "get evaluation failed", "id", id)
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, triage.ErrNotFound)
		return
	}

	span.SetAttributes(attribute.String("triaged.evaluation.status", string(ev.Status)))

	writeData(w, http.StatusOK, ev)
}

type setStatusRequest struct {
	Status triage.Status `json:"status"`
}

func (a *API) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &triage.ValidationError{Fields: map[string]string{"body": "invalid JSON payload"}})
		return
	}

	ev, err := a.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		a.logError(r, err, "status change rejected", "id", id, "status", string(req.Status))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, ev)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := a.svc.Stats(r.Context())
	if err != nil {
		a.logError(r, err, "stats failed")
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, snap)
}

// pageParams reads page and page_size from the query string, applying
// defaults and rejecting non-positive values.
func pageParams(r *http.Request) (page, pageSize int, err error) {
	page, err = positiveQueryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err = positiveQueryInt(r, "page_size", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, nil
}

func positiveQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &triage.ValidationError{Fields: map[string]string{name: "must be a positive integer"}}
	}
	return v, nil
}
