package estimator

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/reglet-dev/phasehull/internal/domain/entities"
)

// defaultSeed is used when the configured seed is 0.
const defaultSeed int64 = 1

// Random assigns every composition a reproducible pseudo-random energy in
// [min, max). The draw depends only on the seed and the reduced formula, so
// proportional formulas get the same energy and concurrent calls need no lock.
type Random struct {
	seed     int64
	min, max float64
	maxZ     int
}

// NewRandom creates a random estimator.
func NewRandom(seed int64, minEnergy, maxEnergy float64, maxZ int) (*Random, error) {
	if minEnergy >= maxEnergy {
		return nil, fmt.Errorf("min energy %g must be below max energy %g", minEnergy, maxEnergy)
	}
	if seed == 0 {
		seed = defaultSeed
	}
	return &Random{seed: seed, min: minEnergy, max: maxEnergy, maxZ: maxZ}, nil
}

// Name implements ports.EnergyEstimator.
func (r *Random) Name() string { return "random" }

// Screen implements ports.EnergyEstimator.
func (r *Random) Screen(comps []entities.Composition) entities.Screening {
	return screen(comps, r.maxZ, nil)
}

// PredictEnergies implements ports.EnergyEstimator.
func (r *Random) PredictEnergies(ctx context.Context, comps []entities.Composition) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(comps))
	for i, c := range comps {
		rng := rand.New(rand.NewSource(deriveSeed(r.seed, streamID(c.ReducedFormula())))) //nolint:gosec // G404: not security sensitive
		out[i] = r.min + (r.max-r.min)*rng.Float64()
	}
	return out, nil
}

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64
// finalizer.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

func streamID(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}
