// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"fmt"
	"strings"
)

// periodicTable lists element symbols in atomic number order (index 0 is Z=1).
var periodicTable = [...]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(periodicTable))
	for i, sym := range periodicTable {
		m[sym] = i + 1
	}
	return m
}()

// Element is an atomic symbol from the periodic table.
// The zero value is not a valid element.
type Element struct {
	symbol string
}

// NewElement validates a case-sensitive atomic symbol.
func NewElement(symbol string) (Element, error) {
	symbol = strings.TrimSpace(symbol)
	if _, ok := atomicNumbers[symbol]; !ok {
		return Element{}, fmt.Errorf("unknown element symbol %q", symbol)
	}
	return Element{symbol: symbol}, nil
}

// MustNewElement creates an Element or panics (for tests and constants)
func MustNewElement(symbol string) Element {
	e, err := NewElement(symbol)
	if err != nil {
		panic(err)
	}
	return e
}

// IsKnownSymbol reports whether symbol names an element.
func IsKnownSymbol(symbol string) bool {
	_, ok := atomicNumbers[symbol]
	return ok
}

// Symbol returns the atomic symbol.
func (e Element) Symbol() string {
	return e.symbol
}

// String returns the atomic symbol.
func (e Element) String() string {
	return e.symbol
}

// AtomicNumber returns Z, or 0 for the zero value.
func (e Element) AtomicNumber() int {
	return atomicNumbers[e.symbol]
}

// IsZero returns true if this is the zero value
func (e Element) IsZero() bool {
	return e.symbol == ""
}

// Equals checks if two elements are the same
func (e Element) Equals(other Element) bool {
	return e.symbol == other.symbol
}

// Less orders elements alphabetically by symbol.
func (e Element) Less(other Element) bool {
	return e.symbol < other.symbol
}

// MarshalText implements encoding.TextMarshaler
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.symbol), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *Element) UnmarshalText(data []byte) error {
	el, err := NewElement(string(data))
	if err != nil {
		return err
	}
	*e = el
	return nil
}
