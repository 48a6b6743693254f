// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
)

// EnergyEstimator predicts formation energies per atom for compositions.
// Implementations are selected when the container is built and must be safe
// for concurrent use.
type EnergyEstimator interface {
	// Name identifies the estimator in logs and diagnostics.
	Name() string

	// Screen partitions compositions into the ones PredictEnergies accepts and the
	// ones it cannot featurize. It must be pure and keep input order.
	Screen(comps []entities.Composition) entities.Screening

	// PredictEnergies returns one energy per composition, in order. It is only
	// called with the valid side of Screen.
	PredictEnergies(ctx context.Context, comps []entities.Composition) ([]float64, error)
}

// OutputFormatter formats reaction and batch responses.
type OutputFormatter interface {
	Format(resp *dto.ReactionResponse) error
	FormatBatch(resp *dto.BatchResponse) error
}

// FormatterOptions configures output formatters.
type FormatterOptions struct {
	// Indent pretty-prints JSON output
	Indent bool

	// Color enables ANSI colors in table output
	Color bool
}

// OutputFormatterFactory creates formatters by format name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}
