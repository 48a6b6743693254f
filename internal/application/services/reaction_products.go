// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/application/ports"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/repositories"
	"github.com/reglet-dev/phasehull/internal/domain/services"
	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// rejectionSamples is how many rejection reasons are logged and reported.
const rejectionSamples = 3

// ReactionProductsUseCase answers which compounds are thermodynamically stable
// between two elements.
// It holds no per-call state and is safe for concurrent use when the
// estimator and repository are.
type ReactionProductsUseCase struct {
	estimator ports.EnergyEstimator
	grid      *services.CandidateGrid
	extractor *services.StableSetExtractor
	results   repositories.ReactionResultRepository
	logger    *slog.Logger
}

// NewReactionProductsUseCase creates a new reaction products use case.
// A nil grid uses the default candidate grid and a nil repository skips
// persistence.
func NewReactionProductsUseCase(
	estimator ports.EnergyEstimator,
	grid *services.CandidateGrid,
	results repositories.ReactionResultRepository,
	logger *slog.Logger,
) *ReactionProductsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if grid == nil {
		grid = services.NewCandidateGrid()
	}

	return &ReactionProductsUseCase{
		estimator: estimator,
		grid:      grid,
		extractor: services.NewStableSetExtractor(),
		results:   results,
		logger:    logger,
	}
}

// Execute runs one reaction query.
func (uc *ReactionProductsUseCase) Execute(ctx context.Context, req dto.ReactionRequest) (*dto.ReactionResponse, error) {
	startTime := time.Now()

	// 1. Reactants
	system, err := parseSystem(req.ElementA, req.ElementB)
	if err != nil {
		return nil, err
	}

	filter, err := services.CompileProductFilter(req.Filter)
	if err != nil {
		return nil, apperrors.NewValidationError("filter", err.Error())
	}

	result := execution.NewReactionResult(system)
	result.Estimator = uc.estimator.Name()

	// 2. Candidates
	candidates, rejected := uc.candidates(system)
	result.CandidateCount = len(candidates) + len(rejected)

	// 3. Screening
	screening := uc.estimator.Screen(candidates)
	screening.Rejected = append(rejected, screening.Rejected...)
	result.SummarizeScreening(screening, rejectionSamples)
	if len(screening.Rejected) > 0 {
		uc.logger.Warn("candidates rejected",
			"system", system.Name(),
			"rejected", len(screening.Rejected),
			"sample", result.Screening.SampleReasons)
	}

	if len(screening.Valid) == 0 {
		result.AddWarning("no valid candidates for %s: %d of %d rejected",
			system.Name(), len(screening.Rejected), result.CandidateCount)
		return uc.finish(ctx, req, result, startTime)
	}

	// 4. Energies
	energies, err := uc.estimator.PredictEnergies(ctx, screening.Valid)
	if err != nil {
		var alignErr *apperrors.AlignmentError
		if errors.As(err, &alignErr) {
			return nil, err
		}
		return nil, apperrors.NewEstimationError(uc.estimator.Name(), "energy prediction failed", err)
	}
	if len(energies) != len(screening.Valid) {
		return nil, apperrors.NewAlignmentError(uc.estimator.Name(), len(screening.Valid), len(energies))
	}

	// 5. Diagram
	diagram, err := uc.buildDiagram(system, screening.Valid, energies)
	if err != nil {
		return nil, err
	}

	// 6. Stable set
	products, err := filter.Apply(uc.extractor.Extract(diagram))
	if err != nil {
		return nil, apperrors.NewValidationError("filter", err.Error())
	}
	result.Products = products
	result.Diagram = diagram
	if req.IncludeEntries {
		result.Entries = execution.ReportEntries(diagram)
	}

	uc.logger.Info("reaction predicted",
		"system", system.Name(),
		"candidates", len(screening.Valid),
		"stable", len(products))

	return uc.finish(ctx, req, result, startTime)
}

// candidates generates and parses the grid. Formulas that fail to parse are
// returned as rejections.
func (uc *ReactionProductsUseCase) candidates(system entities.BinarySystem) ([]entities.Composition, []entities.Rejection) {
	formulas := uc.grid.Generate(system.A(), system.B())
	comps := make([]entities.Composition, 0, len(formulas))
	var rejected []entities.Rejection
	for _, f := range formulas {
		c, err := entities.ParseComposition(f)
		if err != nil {
			rejected = append(rejected, entities.Rejection{Reason: err.Error()})
			continue
		}
		comps = append(comps, c)
	}
	return comps, rejected
}

func (uc *ReactionProductsUseCase) buildDiagram(
	system entities.BinarySystem,
	comps []entities.Composition,
	energies []float64,
) (*entities.PhaseDiagram, error) {
	entries := make([]entities.Entry, 0, len(comps)+2)
	for i, c := range comps {
		e, err := entities.NewEntry(c, energies[i], values.SourceCandidate)
		if err != nil {
			return nil, apperrors.NewEstimationError(uc.estimator.Name(),
				fmt.Sprintf("invalid energy for %s", c.Formula()), err)
		}
		entries = append(entries, e)
	}
	entries = append(entries,
		entities.ReferenceEntry(system.A()),
		entities.ReferenceEntry(system.B()))

	return entities.NewPhaseDiagram(system, entries)
}

func (uc *ReactionProductsUseCase) finish(
	ctx context.Context,
	req dto.ReactionRequest,
	result *execution.ReactionResult,
	startTime time.Time,
) (*dto.ReactionResponse, error) {
	result.Duration = time.Since(startTime)

	if uc.results != nil {
		if err := uc.results.Save(ctx, result); err != nil {
			uc.logger.Warn("failed to store result", "id", result.ID, "error", err)
			result.AddWarning("result not stored: %v", err)
		}
	}

	return &dto.ReactionResponse{
		Result: result,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    result.Duration,
		},
	}, nil
}

// parseSystem parses two element inputs. Multi-element formulas and identical
// elements are validation errors; malformed input is a ParseError.
func parseSystem(a, b string) (entities.BinarySystem, error) {
	ea, err := parseElement("element_a", a)
	if err != nil {
		return entities.BinarySystem{}, err
	}
	eb, err := parseElement("element_b", b)
	if err != nil {
		return entities.BinarySystem{}, err
	}
	if ea.Equals(eb) {
		return entities.BinarySystem{}, apperrors.NewValidationError("element_b",
			fmt.Sprintf("reactants must be distinct elements, got %s twice", ea))
	}
	return entities.NewBinarySystem(ea, eb)
}

func parseElement(field, symbol string) (values.Element, error) {
	c, err := entities.ParseComposition(symbol)
	if err != nil {
		return values.Element{}, err
	}
	if !c.IsElement() {
		return values.Element{}, apperrors.NewValidationError(field,
			fmt.Sprintf("%q is not a single element", symbol))
	}
	return c.Elements()[0], nil
}
