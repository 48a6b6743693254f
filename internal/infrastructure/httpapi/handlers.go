package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/reglet-dev/phasehull/internal/infrastructure/validation"
)

// readBody reads a size-limited JSON body and validates it against schema.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, schema string) ([]byte, error) {
	if !isJSON(r) {
		return nil, apperrors.NewValidationError("body", "content type must be application/json")
	}
	if s.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if s.deps.Validator != nil {
		if err := s.deps.Validator.ValidateJSON(schema, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r, validation.SchemaReactionRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.ReactionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.writeError(w, r, apperrors.NewValidationError("body", "malformed request", err.Error()))
		return
	}
	req.Metadata.RequestID = requestID(r.Context())
	req.IncludeEntries = r.URL.Query().Get("entries") == "true"

	resp, err := s.deps.Reactions.Execute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReactionView(resp.Result))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Batch == nil {
		http.NotFound(w, r)
		return
	}
	data, err := s.readBody(w, r, validation.SchemaBatch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.writeError(w, r, apperrors.NewValidationError("body", "malformed request", err.Error()))
		return
	}
	req.Metadata.RequestID = requestID(r.Context())
	req.MaxConcurrent = s.deps.MaxConcurrent

	resp, err := s.deps.Batch.Execute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewBatchView(resp))
}

func (s *Server) handleGetReaction(w http.ResponseWriter, r *http.Request) {
	id, err := values.ParseQueryID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, apperrors.NewValidationError("id", err.Error()))
		return
	}
	result, err := s.deps.Results.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReactionView(result))
}

func (s *Server) handleDeleteReaction(w http.ResponseWriter, r *http.Request) {
	id, err := values.ParseQueryID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, apperrors.NewValidationError("id", err.Error()))
		return
	}
	if err := s.deps.Results.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// defaultListLimit caps GET /reactions when no limit is given.
const defaultListLimit = 20

type listResponse struct {
	System    string             `json:"system"`
	Reactions []dto.ReactionView `json:"reactions"`
}

// handleListReactions serves stored results for one system, newest first.
// since and until (RFC 3339) narrow the window; limit caps the count.
func (s *Server) handleListReactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pair, err := parseSystem(q.Get("system"))
	if err != nil {
		s.writeError(w, r, apperrors.NewValidationError("system", err.Error()))
		return
	}

	limit := defaultListLimit
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.writeError(w, r, apperrors.NewValidationError("limit", "must be a positive integer"))
			return
		}
	}

	var results []*execution.ReactionResult
	if q.Has("since") || q.Has("until") {
		since, err := parseTime(q.Get("since"), time.Time{})
		if err != nil {
			s.writeError(w, r, apperrors.NewValidationError("since", err.Error()))
			return
		}
		until, err := parseTime(q.Get("until"), time.Now())
		if err != nil {
			s.writeError(w, r, apperrors.NewValidationError("until", err.Error()))
			return
		}
		results, err = s.deps.Results.FindBetween(r.Context(), pair.Name(), since, until)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if len(results) > limit {
			results = results[:limit]
		}
	} else {
		results, err = s.deps.Results.FindBySystem(r.Context(), pair.Name(), limit)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	views := make([]dto.ReactionView, 0, len(results))
	for _, res := range results {
		views = append(views, dto.NewReactionView(res))
	}
	writeJSON(w, http.StatusOK, listResponse{System: pair.Name(), Reactions: views})
}

// parseSystem reads a system name such as "Li-O".
func parseSystem(name string) (entities.BinarySystem, error) {
	a, b, ok := strings.Cut(name, "-")
	if !ok {
		return entities.BinarySystem{}, fmt.Errorf("expected two elements joined by '-', got %q", name)
	}
	ea, err := values.NewElement(a)
	if err != nil {
		return entities.BinarySystem{}, err
	}
	eb, err := values.NewElement(b)
	if err != nil {
		return entities.BinarySystem{}, err
	}
	return entities.NewBinarySystem(ea, eb)
}

func parseTime(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be an RFC 3339 timestamp")
	}
	return t, nil
}

type gridResponse struct {
	Reactants  []string `json:"reactants"`
	Candidates []string `json:"candidates"`
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := values.NewElement(q.Get("element_a"))
	if err != nil {
		s.writeError(w, r, apperrors.NewValidationError("element_a", err.Error()))
		return
	}
	b, err := values.NewElement(q.Get("element_b"))
	if err != nil {
		s.writeError(w, r, apperrors.NewValidationError("element_b", err.Error()))
		return
	}
	if _, err := entities.NewBinarySystem(a, b); err != nil {
		s.writeError(w, r, apperrors.NewValidationError("element_b", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{
		Reactants:  []string{a.Symbol(), b.Symbol()},
		Candidates: s.deps.Grid.Generate(a, b),
	})
}

type healthResponse struct {
	Status    string `json:"status"`
	Estimator string `json:"estimator"`
	Version   string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Estimator: s.deps.Estimator,
		Version:   s.deps.Version,
	})
}
