package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/awardvote/internal/core/ballot"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/gate"
)

type errorResponse struct {
	Error     string        `json:"error"`
	Status    string        `json:"status,omitempty"`
	Retryable bool          `json:"retryable,omitempty"`
	State     *ballot.State `json:"state,omitempty"`
	Gate      *gate.Status  `json:"gate,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorStatus maps a domain error to its HTTP status and response body.
func errorStatus(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}
	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		body.Status = "already_voted"
		return http.StatusConflict, body
	case errors.Is(err, domain.ErrNoVotes),
		errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrMissingIdentity):
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, body
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrSubmissionFailed):
		body.Retryable = true
		return http.StatusServiceUnavailable, body
	case errors.Is(err, domain.ErrResultsLocked):
		return http.StatusForbidden, body
	case errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound, body
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
