package annuity

import (
	"fmt"
	"math"

	"github.com/meenmo/zspread/curve"
)

// PriceSensitivityToCurve converts the oracle's raw curve sensitivities into
// spread-adjusted sensitivities at the given z-spread.
//
// A spread applied multiplicatively on every discount factor attenuates the
// rate sensitivity of each cash flow by the same factor, so each ladder node
// (t, s) becomes (t, s·exp(−zSpread·t)). When zSpread is exactly zero the
// oracle output is returned unchanged. Curve-name set, ladder order and
// ladder times are preserved.
func (c *Calculator) PriceSensitivityToCurve(a *Annuity, curves curve.Bundle, zSpread float64) (CurveSensitivity, error) {
	if a == nil {
		return nil, fmt.Errorf("PriceSensitivityToCurve: %w", ErrNilAnnuity)
	}
	if curves == nil {
		return nil, fmt.Errorf("PriceSensitivityToCurve: %w", ErrNilCurves)
	}

	raw, err := c.sens.Sensitivities(a, curves)
	if err != nil {
		return nil, fmt.Errorf("PriceSensitivityToCurve: %w", err)
	}
	if math.Float64bits(zSpread) == 0 {
		return raw, nil
	}

	result := make(CurveSensitivity, len(raw))
	for name, ladder := range raw {
		adjusted := make([]TimeValue, 0, len(ladder))
		for _, node := range ladder {
			adjusted = append(adjusted, TimeValue{
				Time:  node.Time,
				Value: node.Value * math.Exp(-zSpread*node.Time),
			})
		}
		result[name] = adjusted
	}
	return result, nil
}

// ZSpreadSensitivityToCurve converts price-to-curve sensitivities into
// z-spread-to-curve sensitivities via the implicit function theorem.
//
// With the market price held fixed, price(curveInput, z(curveInput)) is
// constant, so for each raw ladder node (t, s):
//
//	∂z/∂curveInput = −s · exp(−zSpread·t) / D
//
// where D = PriceSensitivityToZSpread. Returns ErrDegenerateSensitivity when
// D is exactly zero (a flat price-vs-spread relation cannot be inverted).
func (c *Calculator) ZSpreadSensitivityToCurve(a *Annuity, curves curve.Bundle, zSpread float64) (CurveSensitivity, error) {
	if a == nil {
		return nil, fmt.Errorf("ZSpreadSensitivityToCurve: %w", ErrNilAnnuity)
	}
	if curves == nil {
		return nil, fmt.Errorf("ZSpreadSensitivityToCurve: %w", ErrNilCurves)
	}

	dPriceDz, err := c.PriceSensitivityToZSpread(a, curves, zSpread)
	if err != nil {
		return nil, fmt.Errorf("ZSpreadSensitivityToCurve: %w", err)
	}
	if math.Float64bits(dPriceDz) == 0 {
		return nil, fmt.Errorf("ZSpreadSensitivityToCurve: %w", ErrDegenerateSensitivity)
	}

	raw, err := c.sens.Sensitivities(a, curves)
	if err != nil {
		return nil, fmt.Errorf("ZSpreadSensitivityToCurve: %w", err)
	}

	result := make(CurveSensitivity, len(raw))
	for name, ladder := range raw {
		adjusted := make([]TimeValue, 0, len(ladder))
		for _, node := range ladder {
			adjusted = append(adjusted, TimeValue{
				Time:  node.Time,
				Value: -node.Value * math.Exp(-zSpread*node.Time) / dPriceDz,
			})
		}
		result[name] = adjusted
	}
	return result, nil
}
