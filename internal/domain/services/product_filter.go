package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
)

// ProductEnv defines the variables available during filter expression evaluation.
type ProductEnv struct {
	Formula       string  `expr:"formula"`
	EnergyPerAtom float64 `expr:"energy_per_atom"`
	Fraction      float64 `expr:"fraction"`
}

// ProductFilter selects stable products with a compiled expr program.
// The zero value and a nil filter keep every product.
type ProductFilter struct {
	program *vm.Program
	source  string
}

// CompileProductFilter compiles a boolean expression such as
// "energy_per_atom < -1.0 && fraction >= 0.5". An empty expression yields
// a filter that keeps everything.
func CompileProductFilter(expression string) (*ProductFilter, error) {
	if expression == "" {
		return &ProductFilter{}, nil
	}
	program, err := expr.Compile(expression,
		expr.Env(ProductEnv{}),
		expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &ProductFilter{program: program, source: expression}, nil
}

// String returns the source expression.
func (f *ProductFilter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the filter against one product.
func (f *ProductFilter) Match(p entities.StableProduct) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	env := ProductEnv{
		Formula:       p.Formula,
		EnergyPerAtom: p.EnergyPerAtom,
		Fraction:      p.Fraction,
	}
	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("filter expression error: %w", err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression did not return boolean: %v", output)
	}
	return result, nil
}

// Apply returns the products the filter keeps, preserving order.
func (f *ProductFilter) Apply(products []entities.StableProduct) ([]entities.StableProduct, error) {
	if f == nil || f.program == nil {
		return products, nil
	}
	kept := make([]entities.StableProduct, 0, len(products))
	for _, p := range products {
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, p)
		}
	}
	return kept, nil
}
