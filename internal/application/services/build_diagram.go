package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/services"
	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// BuildDiagramUseCase computes a phase diagram from user-supplied energies.
type BuildDiagramUseCase struct {
	extractor *services.StableSetExtractor
	logger    *slog.Logger
}

// NewBuildDiagramUseCase creates a new build diagram use case.
func NewBuildDiagramUseCase(logger *slog.Logger) *BuildDiagramUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildDiagramUseCase{
		extractor: services.NewStableSetExtractor(),
		logger:    logger,
	}
}

// Execute builds the diagram. Pure-element references at energy 0 are added
// for each element without an entry of its own. Supplied pure-element entries
// must also sit at energy 0, since energies are formation energies relative
// to the elements.
func (uc *BuildDiagramUseCase) Execute(_ context.Context, req dto.DiagramRequest) (*dto.ReactionResponse, error) {
	startTime := time.Now()

	if len(req.Elements) != 2 {
		return nil, apperrors.NewValidationError("elements",
			fmt.Sprintf("exactly two elements are required, got %d", len(req.Elements)))
	}
	system, err := parseSystem(req.Elements[0], req.Elements[1])
	if err != nil {
		return nil, err
	}

	entries := make([]entities.Entry, 0, len(req.Entries)+2)
	hasA, hasB := false, false
	for i, in := range req.Entries {
		c, err := entities.ParseComposition(in.Formula)
		if err != nil {
			return nil, err
		}
		e, err := entities.NewEntry(c, in.EnergyPerAtom, values.SourceCandidate)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("entries[%d]", i), err.Error())
		}
		if c.IsElement() {
			if in.EnergyPerAtom != 0 {
				return nil, apperrors.NewValidationError(fmt.Sprintf("entries[%d]", i),
					fmt.Sprintf("pure element %s must have energy 0, got %g", c.ReducedFormula(), in.EnergyPerAtom))
			}
			hasA = hasA || c.Contains(system.A())
			hasB = hasB || c.Contains(system.B())
		}
		entries = append(entries, e)
	}
	if !hasA {
		entries = append(entries, entities.ReferenceEntry(system.A()))
	}
	if !hasB {
		entries = append(entries, entities.ReferenceEntry(system.B()))
	}

	diagram, err := entities.NewPhaseDiagram(system, entries)
	if err != nil {
		return nil, apperrors.NewValidationError("entries", err.Error())
	}

	result := execution.NewReactionResult(system)
	result.Estimator = "input"
	result.CandidateCount = len(req.Entries)
	result.Diagram = diagram
	result.Products = uc.extractor.Extract(diagram)
	result.Entries = execution.ReportEntries(diagram)
	result.Duration = time.Since(startTime)

	uc.logger.Debug("diagram built",
		"system", system.Name(),
		"entries", diagram.Len(),
		"stable", len(result.Products))

	return &dto.ReactionResponse{
		Result: result,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    result.Duration,
		},
	}, nil
}
