package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/repositories"
	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResult(a, b string, createdAt time.Time) *execution.ReactionResult {
	r := execution.NewReactionResult(entities.MustNewBinarySystem(a, b))
	r.CreatedAt = createdAt
	return r
}

func TestReactionResultRepository_SaveAndFind(t *testing.T) {
	repo := NewReactionResultRepository(0)
	ctx := context.Background()

	result := newResult("Li", "O", time.Now())
	require.NoError(t, repo.Save(ctx, result))

	found, err := repo.FindByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Same(t, result, found)

	_, err = repo.FindByID(ctx, values.NewQueryID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestReactionResultRepository_SaveWithoutID(t *testing.T) {
	repo := NewReactionResultRepository(0)
	assert.Error(t, repo.Save(context.Background(), &execution.ReactionResult{}))
	assert.Error(t, repo.Save(context.Background(), nil))
}

func TestReactionResultRepository_FindBySystem(t *testing.T) {
	repo := NewReactionResultRepository(0)
	ctx := context.Background()
	now := time.Now()

	r1 := newResult("Li", "O", now.Add(-2*time.Hour))
	r2 := newResult("Li", "O", now.Add(-1*time.Hour))
	r3 := newResult("Li", "O", now)
	other := newResult("Fe", "O", now)
	for _, r := range []*execution.ReactionResult{r1, r2, r3, other} {
		require.NoError(t, repo.Save(ctx, r))
	}

	results, err := repo.FindBySystem(ctx, "Li-O", 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, r3.ID, results[0].ID)
	assert.Equal(t, r1.ID, results[2].ID)

	results, err = repo.FindBySystem(ctx, "Li-O", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.FindBySystem(ctx, "O-Li", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReactionResultRepository_FindBetween(t *testing.T) {
	repo := NewReactionResultRepository(0)
	ctx := context.Background()
	now := time.Now()

	old := newResult("Na", "Cl", now.Add(-48*time.Hour))
	recent := newResult("Na", "Cl", now.Add(-1*time.Hour))
	require.NoError(t, repo.Save(ctx, old))
	require.NoError(t, repo.Save(ctx, recent))

	results, err := repo.FindBetween(ctx, "Na-Cl", now.Add(-2*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, recent.ID, results[0].ID)
}

func TestReactionResultRepository_Delete(t *testing.T) {
	repo := NewReactionResultRepository(0)
	ctx := context.Background()

	result := newResult("Li", "O", time.Now())
	require.NoError(t, repo.Save(ctx, result))
	require.NoError(t, repo.Delete(ctx, result.ID))
	assert.Equal(t, 0, repo.Len())

	assert.ErrorIs(t, repo.Delete(ctx, result.ID), repositories.ErrNotFound)
}

func TestReactionResultRepository_Capacity(t *testing.T) {
	repo := NewReactionResultRepository(2)
	ctx := context.Background()

	first := newResult("Li", "O", time.Now())
	second := newResult("Li", "O", time.Now())
	third := newResult("Li", "O", time.Now())
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, first)) // replace keeps position
	require.NoError(t, repo.Save(ctx, third))

	assert.Equal(t, 2, repo.Len())
	_, err := repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.FindByID(ctx, third.ID)
	assert.NoError(t, err)
}

func TestReactionResultRepository_Concurrent(t *testing.T) {
	repo := NewReactionResultRepository(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := newResult("Li", "O", time.Now())
			assert.NoError(t, repo.Save(ctx, r))
			_, err := repo.FindByID(ctx, r.ID)
			assert.NoError(t, err)
			_, err = repo.FindBySystem(ctx, "Li-O", 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, repo.Len())
}
