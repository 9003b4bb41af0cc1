package rootfind

import (
	"fmt"
	"math"
)

const (
	// brentTol is the absolute tolerance on the root abscissa.
	brentTol = 1e-12
	// brentMaxIter covers Brent's worst case (pure bisection interleaved
	// with rejected interpolation steps) down to brentTol on wide brackets;
	// a triple root on a width-10 bracket already needs ~130 iterations.
	brentMaxIter = 200

	machineEps = 2.220446049250313e-16
)

// Brent refines a bracketed root of f to within brentTol using Brent's
// method (bisection combined with secant and inverse quadratic
// interpolation). f(x1) and f(x2) must have opposite signs; otherwise
// ErrNotBracketed is returned. Guaranteed to converge for a valid bracket
// unless the iteration budget runs out (ErrDidNotConverge).
func Brent(f Func, x1, x2 float64) (float64, error) {
	a, b := x1, x2
	fa, fb := f(a), f(b)

	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, fmt.Errorf("Brent: %w: f(%g)=%g, f(%g)=%g", ErrNotBracketed, a, fa, b, fb)
	}

	c, fc := b, fb
	var d, e float64

	for iter := 0; iter < brentMaxIter; iter++ {
		if (fb > 0) == (fc > 0) {
			// Rename so that the root stays bracketed by [b, c].
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*machineEps*math.Abs(b) + 0.5*brentTol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Attempt inverse quadratic interpolation (secant if a == c).
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				// Interpolation acceptable.
				e = d
				d = p / q
			} else {
				// Fall back to bisection.
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return b, fmt.Errorf("Brent: %w after %d iterations", ErrDidNotConverge, brentMaxIter)
}
