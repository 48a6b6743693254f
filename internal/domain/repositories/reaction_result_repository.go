// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// ErrNotFound is returned when no result exists for an ID.
var ErrNotFound = errors.New("reaction result not found")

// ReactionResultRepository defines the interface for persisting reaction results.
type ReactionResultRepository interface {
	// Save persists a reaction result.
	Save(ctx context.Context, result *execution.ReactionResult) error

	// FindByID retrieves a reaction result by its query ID.
	FindByID(ctx context.Context, id values.QueryID) (*execution.ReactionResult, error)

	// FindBySystem retrieves recent results for a system name such as "Fe-O",
	// newest first.
	FindBySystem(ctx context.Context, system string, limit int) ([]*execution.ReactionResult, error)

	// FindBetween retrieves results for a system within a time range.
	FindBetween(ctx context.Context, system string, start, end time.Time) ([]*execution.ReactionResult, error)

	// Delete removes a result. Deleting an unknown ID returns ErrNotFound.
	Delete(ctx context.Context, id values.QueryID) error
}
