package entities

import (
	"errors"
	"fmt"
)

// ErrDegenerateHull indicates a phase diagram with fewer than two distinct
// compositions, for which no hull can be formed.
var ErrDegenerateHull = errors.New("phase diagram: fewer than two distinct compositions")

// ErrOutsideSystem indicates a composition containing an element that is not
// part of the binary system.
var ErrOutsideSystem = errors.New("composition outside binary system")

// ParseError indicates a malformed formula or unknown element symbol.
type ParseError struct {
	Formula  string
	Reason   string
	Position int
}

func (e *ParseError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("parse formula %q: %s", e.Formula, e.Reason)
	}
	return fmt.Sprintf("parse formula %q: %s at position %d", e.Formula, e.Reason, e.Position)
}

func newParseError(formula string, pos int, format string, args ...any) *ParseError {
	return &ParseError{
		Formula:  formula,
		Position: pos,
		Reason:   fmt.Sprintf(format, args...),
	}
}
