package services

import (
	"testing"

	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDiagram(t *testing.T, system entities.BinarySystem, candidates map[string]float64) *entities.PhaseDiagram {
	t.Helper()
	entries := []entities.Entry{
		entities.ReferenceEntry(system.A()),
		entities.ReferenceEntry(system.B()),
	}
	for formula, energy := range candidates {
		e, err := entities.NewEntry(entities.MustParseComposition(formula), energy, values.SourceCandidate)
		require.NoError(t, err)
		entries = append(entries, e)
	}
	d, err := entities.NewPhaseDiagram(system, entries)
	require.NoError(t, err)
	return d
}

func Test_StableSetExtractor_ExcludesReferences(t *testing.T) {
	system := entities.MustNewBinarySystem("Li", "O")
	d := buildDiagram(t, system, map[string]float64{
		"Li2O1": -2.0,
		"Li1O1": -1.8,
		"Li1O2": -0.2,
	})

	products := NewStableSetExtractor().Extract(d)
	require.Len(t, products, 2)

	assert.Equal(t, "Li2O", products[0].Formula)
	assert.InDelta(t, 1.0/3.0, products[0].Fraction, 1e-12)
	assert.Equal(t, "LiO", products[1].Formula)
	for _, p := range products {
		assert.True(t, p.IsStable)
		assert.NotEqual(t, "Li", p.Formula)
		assert.NotEqual(t, "O", p.Formula)
	}
}

func Test_StableSetExtractor_DedupesByReducedFormula(t *testing.T) {
	system := entities.MustNewBinarySystem("Li", "O")
	d := buildDiagram(t, system, map[string]float64{
		"Li5O5": -1.0,
		"Li1O1": -1.0,
	})

	products := NewStableSetExtractor().Extract(d)
	require.Len(t, products, 1)
	assert.Equal(t, "LiO", products[0].Formula)
	assert.Equal(t, -1.0, products[0].EnergyPerAtom)
}

func Test_StableSetExtractor_PositiveEnergiesGiveEmptyList(t *testing.T) {
	system := entities.MustNewBinarySystem("Fe", "O")
	d := buildDiagram(t, system, map[string]float64{
		"Fe1O1": 0.3,
		"Fe2O3": 0.01,
		"Fe3O4": 0.2,
	})

	products := NewStableSetExtractor().Extract(d)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func Test_StableSetExtractor_OrderedByFraction(t *testing.T) {
	system := entities.MustNewBinarySystem("O", "Li") // x measures Li
	d := buildDiagram(t, system, map[string]float64{
		"Li2O1": -2.0,
		"Li1O1": -1.8,
		"Li1O2": -1.5,
	})

	products := NewStableSetExtractor().Extract(d)
	require.Len(t, products, 3)
	for i := 1; i < len(products); i++ {
		assert.Less(t, products[i-1].Fraction, products[i].Fraction)
	}
	assert.Equal(t, "LiO2", products[0].Formula)
}

func Test_StableSetExtractor_NilAndEmpty(t *testing.T) {
	x := NewStableSetExtractor()
	assert.Empty(t, x.Extract(nil))

	d, err := entities.NewPhaseDiagram(entities.MustNewBinarySystem("Li", "O"), nil)
	require.NoError(t, err)
	assert.Empty(t, x.Extract(d))
}
