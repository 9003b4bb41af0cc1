// Package curve provides discount curves on a year-fraction time axis.
//
// Curves are built directly from zero-rate nodes. Par-quote bootstrap is out
// of scope here: spread analytics consume already-built curves.
package curve

import (
	"fmt"
	"math"
	"sort"
)

// DiscountCurve provides discount factors and zero rates for valuation.
//
// Times are year fractions from the valuation date; rates are continuously
// compounded decimals (0.025 == 2.5%).
type DiscountCurve interface {
	DF(t float64) float64
	ZeroRate(t float64) float64
}

// Bundle maps curve names to curves. Names are unique; the bundle is
// read-only from the point of view of pricing code.
type Bundle map[string]DiscountCurve

// Node is a single (time, zero-rate) pillar.
type Node struct {
	Time float64
	Zero float64
}

// Curve is a zero curve with linear interpolation in the zero rate and flat
// extrapolation beyond the first and last pillars.
type Curve struct {
	times []float64
	zeros []float64
}

// New builds a curve from zero-rate nodes. Nodes may be given in any order;
// they are sorted by time. Times must be non-negative and distinct.
func New(nodes []Node) (*Curve, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("curve.New: at least one node is required")
	}

	sorted := make([]Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	c := &Curve{
		times: make([]float64, len(sorted)),
		zeros: make([]float64, len(sorted)),
	}
	for i, n := range sorted {
		if n.Time < 0 {
			return nil, fmt.Errorf("curve.New: negative node time %g", n.Time)
		}
		if i > 0 && n.Time == sorted[i-1].Time {
			return nil, fmt.Errorf("curve.New: duplicate node time %g", n.Time)
		}
		c.times[i] = n.Time
		c.zeros[i] = n.Zero
	}
	return c, nil
}

// Flat returns a curve with the same zero rate at every tenor.
func Flat(zero float64) *Curve {
	return &Curve{times: []float64{0}, zeros: []float64{zero}}
}

// ZeroRate returns the continuously compounded zero rate at time t,
// linearly interpolated between pillars and held flat outside them.
func (c *Curve) ZeroRate(t float64) float64 {
	n := len(c.times)
	if t <= c.times[0] {
		return c.zeros[0]
	}
	if t >= c.times[n-1] {
		return c.zeros[n-1]
	}

	// First pillar with time >= t.
	i := sort.SearchFloat64s(c.times, t)
	if c.times[i] == t {
		return c.zeros[i]
	}

	t1, t2 := c.times[i-1], c.times[i]
	z1, z2 := c.zeros[i-1], c.zeros[i]
	w := (t - t1) / (t2 - t1)
	return z1 + w*(z2-z1)
}

// DF returns the discount factor exp(-z(t) * t).
func (c *Curve) DF(t float64) float64 {
	return math.Exp(-c.ZeroRate(t) * t)
}
