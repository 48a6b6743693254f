package estimator

import (
	"context"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
)

// PredictionTable is the on-disk format of precomputed model predictions.
// JSON files decode with the same YAML decoder.
type PredictionTable struct {
	Model   string       `yaml:"model" json:"model"`
	Version string       `yaml:"version" json:"version"`
	Entries []TableEntry `yaml:"entries" json:"entries"`
}

// TableEntry is one tabulated prediction.
type TableEntry struct {
	Formula       string  `yaml:"formula" json:"formula"`
	EnergyPerAtom float64 `yaml:"energy_per_atom" json:"energy_per_atom"`
}

// Table looks energies up by reduced formula. It is read-only after
// construction.
type Table struct {
	energies map[string]float64
	model    string
	version  *semver.Version
	maxZ     int
}

// LoadTable reads a prediction table file and checks its version against
// constraint (empty means any version).
func LoadTable(path, constraint string, maxZ int) (*Table, error) {
	//nolint:gosec // G304: path comes from the system config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction table: %w", err)
	}
	var pt PredictionTable
	if err := yaml.Unmarshal(data, &pt); err != nil {
		return nil, fmt.Errorf("failed to parse prediction table: %w", err)
	}
	return NewTable(pt, constraint, maxZ)
}

// NewTable indexes a prediction table. Entries with proportional formulas
// must agree on the energy.
func NewTable(pt PredictionTable, constraint string, maxZ int) (*Table, error) {
	version, err := semver.NewVersion(pt.Version)
	if err != nil {
		return nil, fmt.Errorf("prediction table %q has invalid version %q: %w", pt.Model, pt.Version, err)
	}
	if constraint != "" {
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
		}
		if !c.Check(version) {
			return nil, fmt.Errorf("prediction table %q version %s does not satisfy %q", pt.Model, version, constraint)
		}
	}

	energies := make(map[string]float64, len(pt.Entries))
	for i, e := range pt.Entries {
		c, err := entities.ParseComposition(e.Formula)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		key := c.ReducedFormula()
		if prev, ok := energies[key]; ok && prev != e.EnergyPerAtom {
			return nil, fmt.Errorf("entry %d: conflicting energies for %s (%g, %g)", i, key, prev, e.EnergyPerAtom)
		}
		energies[key] = e.EnergyPerAtom
	}

	return &Table{energies: energies, model: pt.Model, version: version, maxZ: maxZ}, nil
}

// Name implements ports.EnergyEstimator.
func (t *Table) Name() string {
	if t.model == "" {
		return "table"
	}
	return "table:" + t.model + "@" + t.version.String()
}

// Len returns the number of tabulated formulas.
func (t *Table) Len() int { return len(t.energies) }

// Screen implements ports.EnergyEstimator. Formulas without a tabulated
// energy are rejected.
func (t *Table) Screen(comps []entities.Composition) entities.Screening {
	return screen(comps, t.maxZ, func(c entities.Composition) (string, bool) {
		if _, ok := t.energies[c.ReducedFormula()]; !ok {
			return "no tabulated energy", false
		}
		return "", true
	})
}

// PredictEnergies implements ports.EnergyEstimator.
func (t *Table) PredictEnergies(ctx context.Context, comps []entities.Composition) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(comps))
	for i, c := range comps {
		e, ok := t.energies[c.ReducedFormula()]
		if !ok {
			return nil, fmt.Errorf("no tabulated energy for %s", c.ReducedFormula())
		}
		out[i] = e
	}
	return out, nil
}
