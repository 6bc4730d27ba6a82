package triageapi

import (
	"encoding/json"
	"net/http"

	"github.com/urgencias/triaged/internal/triage"
	"github.com/urgencias/triaged/internal/users"
)

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &triage.ValidationError{Fields: map[string]string{"body": "invalid JSON payload"}})
		return
	}

	u, err := a.users.Register(r.Context(), req)
	if err != nil {
		a.logError(r, err, "register failed", "email", users.NormalizeEmail(req.Email))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &triage.ValidationError{Fields: map[string]string{"body": "invalid JSON payload"}})
		return
	}

	u, err := a.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, u)
}
