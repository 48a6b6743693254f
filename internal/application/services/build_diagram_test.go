package services

import (
	"context"
	"testing"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDiagram_AddsReferences(t *testing.T) {
	t.Parallel()
	uc := NewBuildDiagramUseCase(nil)

	resp, err := uc.Execute(context.Background(), dto.DiagramRequest{
		Elements: []string{"Li", "O"},
		Entries: []dto.EntryInput{
			{Formula: "Li2O", EnergyPerAtom: -2.07},
			{Formula: "Li2O2", EnergyPerAtom: -1.65},
			{Formula: "LiO2", EnergyPerAtom: -1.2},
		},
	})
	require.NoError(t, err)

	result := resp.Result
	assert.Equal(t, 5, result.Diagram.Len())
	require.Len(t, result.Entries, 5)
	assert.Equal(t, values.SourceReference, result.Entries[0].Source)
	assert.Equal(t, values.SourceReference, result.Entries[4].Source)

	require.Len(t, result.Products, 3)
	assert.Equal(t, "Li2O", result.Products[0].Formula)
	assert.Equal(t, "LiO", result.Products[1].Formula)
	assert.Equal(t, "LiO2", result.Products[2].Formula)
}

func TestBuildDiagram_UsesSuppliedElementEntry(t *testing.T) {
	t.Parallel()
	uc := NewBuildDiagramUseCase(nil)

	resp, err := uc.Execute(context.Background(), dto.DiagramRequest{
		Elements: []string{"Fe", "O"},
		Entries: []dto.EntryInput{
			{Formula: "Fe", EnergyPerAtom: 0},
			{Formula: "Fe2O3", EnergyPerAtom: -1.7},
		},
	})
	require.NoError(t, err)

	// Fe is supplied, only the O reference is added.
	assert.Equal(t, 3, resp.Result.Diagram.Len())
	require.Len(t, resp.Result.Products, 1)
	assert.Equal(t, "Fe2O3", resp.Result.Products[0].Formula)
}

func TestBuildDiagram_Errors(t *testing.T) {
	t.Parallel()
	uc := NewBuildDiagramUseCase(nil)

	_, err := uc.Execute(context.Background(), dto.DiagramRequest{Elements: []string{"Li"}})
	var valErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &valErr)

	_, err = uc.Execute(context.Background(), dto.DiagramRequest{
		Elements: []string{"Li", "O"},
		Entries:  []dto.EntryInput{{Formula: "Li2S", EnergyPerAtom: -1}},
	})
	assert.ErrorAs(t, err, &valErr)

	_, err = uc.Execute(context.Background(), dto.DiagramRequest{
		Elements: []string{"Li", "O"},
		Entries:  []dto.EntryInput{{Formula: "Li2Oq", EnergyPerAtom: -1}},
	})
	var parseErr *entities.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestBuildDiagram_RejectsShiftedElementEntry(t *testing.T) {
	t.Parallel()
	uc := NewBuildDiagramUseCase(nil)

	_, err := uc.Execute(context.Background(), dto.DiagramRequest{
		Elements: []string{"Li", "O"},
		Entries: []dto.EntryInput{
			{Formula: "Li2O", EnergyPerAtom: -2.07},
			{Formula: "O2", EnergyPerAtom: -0.5},
		},
	})
	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "entries[1]", valErr.Field)
	assert.Contains(t, valErr.Message, "pure element O must have energy 0")
}
