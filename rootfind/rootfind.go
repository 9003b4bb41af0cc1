// Package rootfind provides one-dimensional root bracketing and refinement
// for scalar real functions. It is independent of any pricing domain so the
// routines can be tested and reused on plain functions.
package rootfind

import "errors"

// Func is a scalar function of one real variable.
type Func func(x float64) float64

var (
	// ErrNotBracketed is returned when no sign change can be found.
	ErrNotBracketed = errors.New("root not bracketed")
	// ErrDidNotConverge is returned when the iteration budget is exhausted
	// before the tolerance is met.
	ErrDidNotConverge = errors.New("root finder did not converge")
)
