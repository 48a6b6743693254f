package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/repositories"
)

// errorBody is the JSON error response.
type errorBody struct {
	Status  string   `json:"status"`
	Detail  string   `json:"detail"`
	Details []string `json:"details,omitempty"`
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var (
		parseErr *entities.ParseError
		valErr   *apperrors.ValidationError
		alignErr *apperrors.AlignmentError
		estErr   *apperrors.EstimationError
		maxErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &alignErr), errors.As(err, &estErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // Client may have gone away
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", requestID(r.Context()), "error", err)
	} else {
		s.logger.Debug("request rejected", slog.Int("status", status), slog.String("path", r.URL.Path), "error", err)
	}

	body := errorBody{Status: dto.StatusError, Detail: err.Error()}
	var valErr *apperrors.ValidationError
	if errors.As(err, &valErr) {
		body.Details = valErr.Details
	}
	writeJSON(w, status, body)
}
