package rootfind

import (
	"fmt"
	"math"
)

const (
	// bracketRatio is the geometric expansion factor applied per step.
	bracketRatio    = 1.6
	bracketMaxSteps = 100
)

// Bracket searches outward from the interval [lo, hi] for a sign change of
// f, with no bound on how far the interval may grow.
func Bracket(f Func, lo, hi float64) (a, b float64, err error) {
	return BracketWithin(f, lo, hi, math.Inf(-1), math.Inf(1))
}

// BracketWithin searches outward from [lo, hi] for a sign change of f while
// keeping both endpoints inside [min, max].
//
// The endpoint with the smaller |f| is pushed outward by bracketRatio times
// the current width (clamped to the bounds) until f evaluates with opposite
// signs at the two endpoints. Returns the bracketing interval (a < b) or
// ErrNotBracketed once both endpoints are pinned at the bounds or
// bracketMaxSteps expansions have been spent.
func BracketWithin(f Func, lo, hi, min, max float64) (a, b float64, err error) {
	if lo >= hi {
		return 0, 0, fmt.Errorf("Bracket: invalid interval [%g, %g]", lo, hi)
	}
	if min > lo || max < hi {
		return 0, 0, fmt.Errorf("Bracket: interval [%g, %g] outside bounds [%g, %g]", lo, hi, min, max)
	}

	x1, x2 := lo, hi
	f1, f2 := f(x1), f(x2)

	for step := 0; step < bracketMaxSteps; step++ {
		if f1*f2 <= 0 {
			return x1, x2, nil
		}
		if x1 <= min && x2 >= max {
			return 0, 0, fmt.Errorf("Bracket: %w within [%g, %g]", ErrNotBracketed, min, max)
		}

		moveLo := math.Abs(f1) < math.Abs(f2)
		if moveLo && x1 <= min {
			moveLo = false
		} else if !moveLo && x2 >= max {
			moveLo = true
		}

		if moveLo {
			x1 = math.Max(min, x1+bracketRatio*(x1-x2))
			f1 = f(x1)
		} else {
			x2 = math.Min(max, x2+bracketRatio*(x2-x1))
			f2 = f(x2)
		}
	}

	return 0, 0, fmt.Errorf("Bracket: %w after %d expansions from [%g, %g]",
		ErrNotBracketed, bracketMaxSteps, lo, hi)
}
