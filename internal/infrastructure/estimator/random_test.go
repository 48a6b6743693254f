package estimator

import (
	"context"
	"testing"

	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comps(formulas ...string) []entities.Composition {
	out := make([]entities.Composition, len(formulas))
	for i, f := range formulas {
		out[i] = entities.MustParseComposition(f)
	}
	return out
}

func TestRandom_Deterministic(t *testing.T) {
	t.Parallel()
	r, err := NewRandom(7, -3.0, 0.5, 0)
	require.NoError(t, err)

	input := comps("Li2O1", "Li4O2", "Li1O1", "Fe2O3")
	first, err := r.PredictEnergies(context.Background(), input)
	require.NoError(t, err)
	second, err := r.PredictEnergies(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, first, 4)
	assert.Equal(t, first, second)
	// Proportional formulas share an energy.
	assert.Equal(t, first[0], first[1])
	assert.NotEqual(t, first[0], first[2])

	for _, e := range first {
		assert.GreaterOrEqual(t, e, -3.0)
		assert.Less(t, e, 0.5)
	}
}

func TestRandom_SeedChangesEnergies(t *testing.T) {
	t.Parallel()
	a, err := NewRandom(1, -3.0, 0.5, 0)
	require.NoError(t, err)
	b, err := NewRandom(2, -3.0, 0.5, 0)
	require.NoError(t, err)

	input := comps("Li2O1")
	ea, _ := a.PredictEnergies(context.Background(), input)
	eb, _ := b.PredictEnergies(context.Background(), input)
	assert.NotEqual(t, ea, eb)
}

func TestRandom_InvalidRange(t *testing.T) {
	t.Parallel()
	_, err := NewRandom(0, 1, 1, 0)
	assert.Error(t, err)
}

func TestRandom_Screen(t *testing.T) {
	t.Parallel()
	r, err := NewRandom(0, -1, 0, 86)
	require.NoError(t, err)

	s := r.Screen(comps("Li2O1", "U1O2", "Fe2O3"))
	assert.Equal(t, comps("Li2O1", "Fe2O3"), s.Valid)
	require.Len(t, s.Rejected, 1)
	assert.Equal(t, "O2U", s.Rejected[0].Composition.ReducedFormula())
	assert.Contains(t, s.Rejected[0].Reason, "Z=92")
}

func TestRandom_Canceled(t *testing.T) {
	t.Parallel()
	r, err := NewRandom(0, -1, 0, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.PredictEnergies(ctx, comps("Li2O1"))
	assert.ErrorIs(t, err, context.Canceled)
}
