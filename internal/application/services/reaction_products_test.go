package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEstimator returns energies by reduced formula and a default otherwise.
type fakeEstimator struct {
	energies map[string]float64
	reject   map[string]bool
	fallback float64
	err      error
	drop     int // energies removed from the end of each prediction

	mu    sync.Mutex
	calls int
}

func (f *fakeEstimator) Name() string { return "fake" }

func (f *fakeEstimator) Screen(comps []entities.Composition) entities.Screening {
	var s entities.Screening
	for _, c := range comps {
		if f.reject[c.ReducedFormula()] {
			s.Rejected = append(s.Rejected, entities.Rejection{Composition: c, Reason: "unsupported"})
			continue
		}
		s.Valid = append(s.Valid, c)
	}
	return s
}

func (f *fakeEstimator) PredictEnergies(ctx context.Context, comps []entities.Composition) ([]float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(comps))
	for _, c := range comps {
		if e, ok := f.energies[c.ReducedFormula()]; ok {
			out = append(out, e)
			continue
		}
		out = append(out, f.fallback)
	}
	return out[:len(out)-min(f.drop, len(out))], nil
}

// fakeRepository records saved results.
type fakeRepository struct {
	mu    sync.Mutex
	saved []*execution.ReactionResult
	err   error
}

func (r *fakeRepository) Save(_ context.Context, result *execution.ReactionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, result)
	return nil
}

func (r *fakeRepository) FindByID(context.Context, values.QueryID) (*execution.ReactionResult, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeRepository) FindBySystem(context.Context, string, int) ([]*execution.ReactionResult, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeRepository) FindBetween(context.Context, string, time.Time, time.Time) ([]*execution.ReactionResult, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeRepository) Delete(context.Context, values.QueryID) error {
	return errors.New("not implemented")
}

func lithiumOxide() *fakeEstimator {
	return &fakeEstimator{
		energies: map[string]float64{"Li2O": -2.0, "LiO": -1.6},
		fallback: 0.1,
	}
}

func TestReactionProducts_Execute(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	uc := NewReactionProductsUseCase(lithiumOxide(), nil, repo, nil)

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{
		ElementA: "Li",
		ElementB: "O",
		Metadata: dto.RequestMetadata{RequestID: "req-1"},
	})
	require.NoError(t, err)

	result := resp.Result
	assert.Equal(t, "Li-O", result.System)
	assert.Equal(t, []string{"Li", "O"}, result.Reactants)
	assert.Equal(t, "fake", result.Estimator)
	assert.Equal(t, 16, result.CandidateCount)
	assert.Equal(t, 16, result.Screening.Valid)
	assert.Equal(t, 0, result.Screening.Rejected)
	assert.Empty(t, result.Warnings)
	assert.Nil(t, result.Entries)
	require.NotNil(t, result.Diagram)
	assert.Equal(t, 18, result.Diagram.Len())

	require.Len(t, result.Products, 2)
	assert.Equal(t, "Li2O", result.Products[0].Formula)
	assert.InDelta(t, 1.0/3.0, result.Products[0].Fraction, 1e-12)
	assert.Equal(t, -2.0, result.Products[0].EnergyPerAtom)
	assert.True(t, result.Products[0].IsStable)
	assert.Equal(t, "LiO", result.Products[1].Formula)

	assert.Equal(t, "req-1", resp.Metadata.RequestID)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, result.ID, repo.saved[0].ID)
}

func TestReactionProducts_OrderOfReactantsKept(t *testing.T) {
	t.Parallel()
	uc := NewReactionProductsUseCase(lithiumOxide(), nil, nil, nil)

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "O", ElementB: "Li"})
	require.NoError(t, err)

	assert.Equal(t, []string{"O", "Li"}, resp.Result.Reactants)
	require.Len(t, resp.Result.Products, 2)
	// Fractions are measured toward the second element.
	assert.Equal(t, "LiO", resp.Result.Products[0].Formula)
	assert.Equal(t, "Li2O", resp.Result.Products[1].Formula)
	assert.InDelta(t, 2.0/3.0, resp.Result.Products[1].Fraction, 1e-12)
}

func TestReactionProducts_IncludeEntries(t *testing.T) {
	t.Parallel()
	uc := NewReactionProductsUseCase(lithiumOxide(), nil, nil, nil)

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{
		ElementA:       "Li",
		ElementB:       "O",
		IncludeEntries: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Result.Entries, 18)

	stable := 0
	for _, e := range resp.Result.Entries {
		if e.Stability.IsStable() {
			stable++
			assert.Equal(t, 0.0, e.EnergyAboveHull)
		} else {
			assert.Greater(t, e.EnergyAboveHull, 0.0)
		}
	}
	// Li, O, Li2O1 and two LiO candidates (Li5O5, Li1O1).
	assert.Equal(t, 5, stable)
}

func TestReactionProducts_Filter(t *testing.T) {
	t.Parallel()
	uc := NewReactionProductsUseCase(lithiumOxide(), nil, nil, nil)

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{
		ElementA: "Li",
		ElementB: "O",
		Filter:   "energy_per_atom < -1.8",
	})
	require.NoError(t, err)
	require.Len(t, resp.Result.Products, 1)
	assert.Equal(t, "Li2O", resp.Result.Products[0].Formula)
}

func TestReactionProducts_InvalidFilter(t *testing.T) {
	t.Parallel()
	est := lithiumOxide()
	uc := NewReactionProductsUseCase(est, nil, nil, nil)

	_, err := uc.Execute(context.Background(), dto.ReactionRequest{
		ElementA: "Li",
		ElementB: "O",
		Filter:   "energy_per_atom <",
	})

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "filter", valErr.Field)
	assert.Equal(t, 0, est.calls)
}

func TestReactionProducts_InvalidReactants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		a, b      string
		wantParse bool
	}{
		{name: "unknown symbol", a: "Xx", b: "O", wantParse: true},
		{name: "lowercase symbol", a: "li", b: "O", wantParse: true},
		{name: "empty", a: "Li", b: "", wantParse: true},
		{name: "same element", a: "Fe", b: "Fe"},
		{name: "compound", a: "Li2O", b: "O"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			est := lithiumOxide()
			uc := NewReactionProductsUseCase(est, nil, nil, nil)

			_, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: tt.a, ElementB: tt.b})
			require.Error(t, err)

			if tt.wantParse {
				var parseErr *entities.ParseError
				assert.ErrorAs(t, err, &parseErr)
			} else {
				var valErr *apperrors.ValidationError
				assert.ErrorAs(t, err, &valErr)
			}
			assert.Equal(t, 0, est.calls)
		})
	}
}

func TestReactionProducts_Rejections(t *testing.T) {
	t.Parallel()
	est := lithiumOxide()
	est.reject = map[string]bool{"LiO": true, "LiO4": true}
	uc := NewReactionProductsUseCase(est, nil, nil, nil)

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Li", ElementB: "O"})
	require.NoError(t, err)

	// Li5O5, Li1O1 and Li2O8 are rejected.
	assert.Equal(t, 3, resp.Result.Screening.Rejected)
	assert.Equal(t, 13, resp.Result.Screening.Valid)
	assert.Len(t, resp.Result.Screening.SampleReasons, 3)
	require.Len(t, resp.Result.Products, 1)
	assert.Equal(t, "Li2O", resp.Result.Products[0].Formula)
}

func TestReactionProducts_NoValidCandidates(t *testing.T) {
	t.Parallel()
	est := &fakeEstimator{}
	est.reject = map[string]bool{}
	uc := NewReactionProductsUseCase(est, nil, nil, nil)
	for _, f := range uc.grid.Generate(values.MustNewElement("Li"), values.MustNewElement("O")) {
		est.reject[entities.MustParseComposition(f).ReducedFormula()] = true
	}

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Li", ElementB: "O"})
	require.NoError(t, err)

	assert.NotNil(t, resp.Result.Products)
	assert.Empty(t, resp.Result.Products)
	assert.Nil(t, resp.Result.Diagram)
	assert.Len(t, resp.Result.Warnings, 1)
	assert.Equal(t, 16, resp.Result.Screening.Rejected)
	assert.Equal(t, 0, est.calls)
}

func TestReactionProducts_AlignmentMismatch(t *testing.T) {
	t.Parallel()
	est := lithiumOxide()
	est.drop = 1
	uc := NewReactionProductsUseCase(est, nil, nil, nil)

	_, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Li", ElementB: "O"})

	var alignErr *apperrors.AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Equal(t, 16, alignErr.Expected)
	assert.Equal(t, 15, alignErr.Got)
}

func TestReactionProducts_EstimatorFailure(t *testing.T) {
	t.Parallel()
	cause := errors.New("model offline")
	est := lithiumOxide()
	est.err = cause
	uc := NewReactionProductsUseCase(est, nil, nil, nil)

	_, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Li", ElementB: "O"})

	var estErr *apperrors.EstimationError
	require.ErrorAs(t, err, &estErr)
	assert.ErrorIs(t, err, cause)
}

func TestReactionProducts_NonFiniteEnergy(t *testing.T) {
	t.Parallel()
	est := lithiumOxide()
	est.energies["Li2O"] = math.Inf(1)
	uc := NewReactionProductsUseCase(est, nil, nil, nil)

	_, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Li", ElementB: "O"})

	var estErr *apperrors.EstimationError
	assert.ErrorAs(t, err, &estErr)
}

func TestReactionProducts_AllAboveReferences(t *testing.T) {
	t.Parallel()
	uc := NewReactionProductsUseCase(&fakeEstimator{fallback: 0.4}, nil, nil, nil)

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Ag", ElementB: "Au"})
	require.NoError(t, err)
	assert.Empty(t, resp.Result.Products)
	assert.NotNil(t, resp.Result.Diagram)
}

func TestReactionProducts_StoreFailureIsWarning(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{err: errors.New("disk full")}
	uc := NewReactionProductsUseCase(lithiumOxide(), nil, repo, nil)

	resp, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Li", ElementB: "O"})
	require.NoError(t, err)
	require.Len(t, resp.Result.Warnings, 1)
	assert.Contains(t, resp.Result.Warnings[0], "disk full")
}

func TestReactionProducts_Concurrent(t *testing.T) {
	t.Parallel()
	uc := NewReactionProductsUseCase(lithiumOxide(), nil, &fakeRepository{}, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := uc.Execute(context.Background(), dto.ReactionRequest{ElementA: "Li", ElementB: "O"})
			assert.NoError(t, err)
			assert.Len(t, resp.Result.Products, 2)
		}()
	}
	wg.Wait()
}
