package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// Envelope is the response body for all endpoints.
type Envelope struct {
	StatusCode int      `json:"status_code"`
	Status     string   `json:"status"`
	Error      string   `json:"error,omitempty"`
	Details    []string `json:"details,omitempty"`
	RequestID  string   `json:"request_id,omitempty"`
	Data       any      `json:"data,omitempty"`
}

// writeJSON writes v as application/json with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Status:     http.StatusText(http.StatusOK),
		RequestID:  chimw.GetReqID(r.Context()),
		Data:       data,
	})
}

func respondStatus(w http.ResponseWriter, r *http.Request, status int, msg string, details ...string) {
	writeJSON(w, status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Error:      msg,
		Details:    details,
		RequestID:  chimw.GetReqID(r.Context()),
	})
}

// respondError maps pipeline errors onto HTTP statuses. Provider details are
// logged, never returned.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidInput):
		respondStatus(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQueryInFlight):
		respondStatus(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrGeneratorUnavailable), errors.Is(err, domain.ErrProviderNotConfigured):
		respondStatus(w, r, http.StatusServiceUnavailable, domain.FailureMessage)
	case errors.Is(err, domain.ErrRetrieval):
		respondStatus(w, r, http.StatusBadGateway, domain.FailureMessage)
	default:
		respondStatus(w, r, http.StatusInternalServerError, domain.FailureMessage)
	}
	logger.Warn("%s %s: %v", r.Method, r.URL.Path, err)
}
