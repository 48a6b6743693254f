// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/repositories"
	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// Ensure interface compliance
var _ repositories.ReactionResultRepository = (*ReactionResultRepository)(nil)

// ReactionResultRepository is an in-memory ReactionResultRepository.
// When capacity is reached the oldest saved result is evicted.
type ReactionResultRepository struct {
	results  map[uuid.UUID]*execution.ReactionResult
	order    []uuid.UUID // insertion order, oldest first
	capacity int
	mu       sync.RWMutex
}

// NewReactionResultRepository creates a new in-memory repository holding at
// most capacity results (0 = unbounded).
func NewReactionResultRepository(capacity int) *ReactionResultRepository {
	return &ReactionResultRepository{
		results:  make(map[uuid.UUID]*execution.ReactionResult),
		capacity: capacity,
	}
}

// Save persists a reaction result. Saving an existing ID replaces it.
func (r *ReactionResultRepository) Save(_ context.Context, result *execution.ReactionResult) error {
	if result == nil || result.GetID().IsZero() {
		return fmt.Errorf("cannot save result without an ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Callers should not modify the result after saving.
	id := result.GetID().UUID()
	if _, exists := r.results[id]; !exists {
		r.order = append(r.order, id)
	}
	r.results[id] = result

	for r.capacity > 0 && len(r.order) > r.capacity {
		delete(r.results, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

// FindByID retrieves a reaction result by its query ID.
func (r *ReactionResultRepository) FindByID(_ context.Context, id values.QueryID) (*execution.ReactionResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[id.UUID()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	return result, nil
}

// FindBySystem retrieves recent results for a system, newest first.
func (r *ReactionResultRepository) FindBySystem(_ context.Context, system string, limit int) ([]*execution.ReactionResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*execution.ReactionResult
	for _, res := range r.results {
		if res.System == system {
			matches = append(matches, res)
		}
	}
	sortNewestFirst(matches)

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// FindBetween retrieves results for a system created within [start, end].
func (r *ReactionResultRepository) FindBetween(_ context.Context, system string, start, end time.Time) ([]*execution.ReactionResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*execution.ReactionResult
	for _, res := range r.results {
		if res.System != system {
			continue
		}
		if !res.CreatedAt.Before(start) && !res.CreatedAt.After(end) {
			matches = append(matches, res)
		}
	}
	sortNewestFirst(matches)
	return matches, nil
}

// Delete removes a result.
func (r *ReactionResultRepository) Delete(_ context.Context, id values.QueryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := id.UUID()
	if _, ok := r.results[key]; !ok {
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	delete(r.results, key)
	for i, existing := range r.order {
		if existing == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored results.
func (r *ReactionResultRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

func sortNewestFirst(results []*execution.ReactionResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
}
