package entities

import (
	"math/big"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reglet-dev/phasehull/internal/domain/values"
)

var countPattern = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)

type component struct {
	element values.Element
	amount  *big.Rat
}

// Composition is an immutable multiset of elements with positive amounts.
// Amounts are exact rationals so proportional compositions reduce to the
// same formula key.
type Composition struct {
	components []component // sorted by symbol, unique, amount > 0
	reduced    string
}

// ParseComposition parses a formula such as "Li2O", "Fe3O4" or "Li0.5O".
// Element symbols are case-sensitive; a missing count means 1 and repeated
// symbols accumulate.
func ParseComposition(formula string) (Composition, error) {
	s := strings.TrimSpace(formula)
	if s == "" {
		return Composition{}, newParseError(formula, -1, "no elements")
	}

	amounts := make(map[string]*big.Rat)
	i := 0
	for i < len(s) {
		if c := s[i]; c < 'A' || c > 'Z' {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return Composition{}, newParseError(formula, i, "unexpected character %q", r)
		}

		start := i
		i++
		for i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
			i++
		}
		symbol := s[start:i]
		if !values.IsKnownSymbol(symbol) {
			return Composition{}, newParseError(formula, start, "unknown element symbol %q", symbol)
		}

		numStart := i
		for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
			i++
		}
		amount := big.NewRat(1, 1)
		if literal := s[numStart:i]; literal != "" {
			if !countPattern.MatchString(literal) {
				return Composition{}, newParseError(formula, numStart, "malformed count %q", literal)
			}
			if _, ok := amount.SetString(literal); !ok {
				return Composition{}, newParseError(formula, numStart, "malformed count %q", literal)
			}
			if amount.Sign() <= 0 {
				return Composition{}, newParseError(formula, numStart, "count must be positive")
			}
		}

		if acc, ok := amounts[symbol]; ok {
			acc.Add(acc, amount)
		} else {
			amounts[symbol] = amount
		}
	}

	return newComposition(amounts), nil
}

// MustParseComposition parses a formula or panics (for tests and constants)
func MustParseComposition(formula string) Composition {
	c, err := ParseComposition(formula)
	if err != nil {
		panic(err)
	}
	return c
}

// ElementComposition returns the one-element composition with count 1.
func ElementComposition(el values.Element) Composition {
	return newComposition(map[string]*big.Rat{el.Symbol(): big.NewRat(1, 1)})
}

func newComposition(amounts map[string]*big.Rat) Composition {
	comps := make([]component, 0, len(amounts))
	for sym, amt := range amounts {
		comps = append(comps, component{element: values.MustNewElement(sym), amount: amt})
	}
	sort.Slice(comps, func(i, j int) bool {
		return comps[i].element.Less(comps[j].element)
	})
	c := Composition{components: comps}
	c.reduced = c.reduce()
	return c
}

// reduce scales amounts to integers by the LCM of their denominators, then
// divides by the GCD of the results.
func (c Composition) reduce() string {
	if len(c.components) == 0 {
		return ""
	}

	lcm := big.NewInt(1)
	for _, comp := range c.components {
		d := comp.amount.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}

	ints := make([]*big.Int, len(c.components))
	gcd := new(big.Int)
	for i, comp := range c.components {
		n := new(big.Int).Mul(comp.amount.Num(), lcm)
		n.Quo(n, comp.amount.Denom())
		ints[i] = n
		gcd.GCD(nil, nil, gcd, n)
	}

	var b strings.Builder
	for i, comp := range c.components {
		b.WriteString(comp.element.Symbol())
		n := new(big.Int).Quo(ints[i], gcd)
		if n.Cmp(big.NewInt(1)) != 0 {
			b.WriteString(n.String())
		}
	}
	return b.String()
}

// ReducedFormula returns the lowest-integer-ratio formula with elements in
// alphabetical order. It is the identity key of a composition.
func (c Composition) ReducedFormula() string {
	return c.reduced
}

// Formula returns the unreduced amounts with elements in alphabetical order.
// Amounts of exactly 1 are omitted, so "Li1O9" prints as "LiO9".
func (c Composition) Formula() string {
	var b strings.Builder
	for _, comp := range c.components {
		b.WriteString(comp.element.Symbol())
		if comp.amount.Cmp(big.NewRat(1, 1)) != 0 {
			b.WriteString(formatAmount(comp.amount))
		}
	}
	return b.String()
}

// String returns Formula().
func (c Composition) String() string {
	return c.Formula()
}

func formatAmount(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsEmpty returns true for the zero value.
func (c Composition) IsEmpty() bool {
	return len(c.components) == 0
}

// Elements returns the elements in alphabetical order.
func (c Composition) Elements() []values.Element {
	out := make([]values.Element, len(c.components))
	for i, comp := range c.components {
		out[i] = comp.element
	}
	return out
}

// IsElement reports whether the composition is a single pure element.
func (c Composition) IsElement() bool {
	return len(c.components) == 1
}

// Contains reports whether el appears in the composition.
func (c Composition) Contains(el values.Element) bool {
	return c.find(el) >= 0
}

func (c Composition) find(el values.Element) int {
	for i, comp := range c.components {
		if comp.element.Equals(el) {
			return i
		}
	}
	return -1
}

func (c Composition) total() *big.Rat {
	sum := new(big.Rat)
	for _, comp := range c.components {
		sum.Add(sum, comp.amount)
	}
	return sum
}

// Fraction returns the atomic fraction of el. The value is computed from
// exact rationals, so proportional compositions yield identical floats.
func (c Composition) Fraction(el values.Element) float64 {
	i := c.find(el)
	if i < 0 {
		return 0
	}
	total := c.total()
	if total.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Rat).Quo(c.components[i].amount, total).Float64()
	return f
}

// Equal reports whether two compositions have proportional amounts.
func (c Composition) Equal(other Composition) bool {
	return c.reduced == other.reduced
}
