package triageapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/urgencias/triaged/internal/paginate"
	"github.com/urgencias/triaged/internal/triage"
	"github.com/urgencias/triaged/internal/users"
)

// envelope is the response wrapper for every endpoint. Callers treat
// success as the sole authoritative failure signal, independent of the
// transport status code.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *paginate.Info    `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Success: true, Data: data})
}

func writePage(w http.ResponseWriter, data any, info paginate.Info) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: &info})
}

// writeError maps the engine's error taxonomy onto status codes and the
// failure envelope. Validation detail goes out per-field so the operator
// can be re-prompted.
func writeError(w http.ResponseWriter, err error) {
	var (
		valErr   *triage.ValidationError
		transErr *triage.InvalidTransitionError
	)

	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "validation failed",
			Errors:  valErr.Fields,
		})
	case errors.As(err, &transErr):
		writeJSON(w, http.StatusConflict, envelope{
			Success: false,
			Message: transErr.Error(),
		})
	case errors.Is(err, triage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{
			Success: false,
			Message: "not found",
		})
	case errors.Is(err, triage.ErrConflict):
		writeJSON(w, http.StatusConflict, envelope{
			Success: false,
			Message: "conflicting concurrent update, please retry",
		})
	case errors.Is(err, users.ErrBadCredentials):
		writeJSON(w, http.StatusUnauthorized, envelope{
			Success: false,
			Message: "invalid credentials",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "internal error",
		})
	}
}
