package triageapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/urgencias/triaged/internal/paginate"
	"github.com/urgencias/triaged/internal/patients"
	"github.com/urgencias/triaged/internal/triage"
)

func (a *API) handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	var p patients.Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, &triage.ValidationError{Fields: map[string]string{"body": "invalid JSON payload"}})
		return
	}

	p.Normalize()
	if err := p.Validate(); err != nil {
		writeError(w, err)
		return
	}

	created, err := a.directory.ResolveOrCreate(r.Context(), &p)
	if err != nil {
		a.logError(r, err, "create patient failed", "identification", p.Identification)
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, created)
}

func (a *API) handleListPatients(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	all, err := a.directory.List(r.Context())
	if err != nil {
		a.logError(r, err, "list patients failed")
		writeError(w, err)
		return
	}

	// Filtering happens here, before pagination; the paginator itself is
	// filter-agnostic.
	if q := strings.ToLower(r.URL.Query().Get("q")); q != "" {
		matched := all[:0]
		for _, p := range all {
			if strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Identification), q) {
				matched = append(matched, p)
			}
		}
		all = matched
	}

	items, info, err := paginate.Page(all, page, pageSize)
	if err != nil {
		writeError(w, &triage.ValidationError{Fields: map[string]string{"page": err.Error()}})
		return
	}

	writePage(w, items, info)
}

func (a *API) handleGetPatientByIdentification(w http.ResponseWriter, r *http.Request) {
	ident := chi.URLParam(r, "ident")

	p, ok, err := a.directory.GetByIdentification(r.Context(), ident)
	if err != nil {
		a.logError(r, err, "get patient failed", "identification", ident)
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, triage.ErrNotFound)
		return
	}

	writeData(w, http.StatusOK, p)
}
