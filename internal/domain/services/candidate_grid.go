// Package services contains domain services that operate on entities.
package services

import (
	"fmt"

	"github.com/reglet-dev/phasehull/internal/domain/values"
)

// DefaultRampTotal is the atom count of every dense ramp stoichiometry.
const DefaultRampTotal = 10

// Ratio is an A:B integer stoichiometry.
type Ratio struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
}

// DefaultCommonRatios are chemically common small-integer ratios tried in
// addition to the dense ramp.
func DefaultCommonRatios() []Ratio {
	return []Ratio{{1, 1}, {1, 2}, {2, 1}, {2, 3}, {3, 2}, {2, 5}, {1, 3}}
}

// CandidateGrid enumerates hypothetical binary stoichiometries. The grid is
// fixed and independent of predicted energies.
type CandidateGrid struct {
	commonRatios []Ratio
	rampTotal    int
}

// NewCandidateGrid creates the default grid: A_x B_(10-x) for x in 1..9 plus
// DefaultCommonRatios, 16 candidates.
func NewCandidateGrid() *CandidateGrid {
	return &CandidateGrid{
		rampTotal:    DefaultRampTotal,
		commonRatios: DefaultCommonRatios(),
	}
}

// WithRampTotal sets the atom count of the dense ramp.
func (g *CandidateGrid) WithRampTotal(total int) *CandidateGrid {
	g.rampTotal = total
	return g
}

// WithCommonRatios replaces the common ratio list.
func (g *CandidateGrid) WithCommonRatios(ratios []Ratio) *CandidateGrid {
	g.commonRatios = append([]Ratio(nil), ratios...)
	return g
}

// Validate checks the grid parameters.
func (g *CandidateGrid) Validate() error {
	if g.rampTotal < 2 {
		return fmt.Errorf("ramp total must be at least 2, got %d", g.rampTotal)
	}
	for _, r := range g.commonRatios {
		if r.A < 1 || r.B < 1 {
			return fmt.Errorf("common ratio %d:%d must have positive members", r.A, r.B)
		}
	}
	return nil
}

// Ratios returns the deduplicated stoichiometries of the grid: the dense ramp
// in order, then the common ratios. Duplicates are removed by formula string,
// which for fixed elements is exact equality of the pair.
func (g *CandidateGrid) Ratios() []Ratio {
	out := make([]Ratio, 0, g.rampTotal-1+len(g.commonRatios))
	seen := make(map[Ratio]bool, cap(out))
	add := func(r Ratio) {
		if seen[r] {
			return
		}
		seen[r] = true
		out = append(out, r)
	}
	for x := 1; x < g.rampTotal; x++ {
		add(Ratio{A: x, B: g.rampTotal - x})
	}
	for _, r := range g.commonRatios {
		add(r)
	}
	return out
}

// Generate returns the candidate formula strings for a and b, e.g. "Li1O9".
// Counts of 1 are written explicitly.
func (g *CandidateGrid) Generate(a, b values.Element) []string {
	ratios := g.Ratios()
	formulas := make([]string, 0, len(ratios))
	seen := make(map[string]bool, len(ratios))
	for _, r := range ratios {
		f := fmt.Sprintf("%s%d%s%d", a.Symbol(), r.A, b.Symbol(), r.B)
		if seen[f] {
			continue
		}
		seen[f] = true
		formulas = append(formulas, f)
	}
	return formulas
}
