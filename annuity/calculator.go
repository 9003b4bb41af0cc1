package annuity

import (
	"fmt"
	"math"

	"github.com/meenmo/zspread/curve"
	"github.com/meenmo/zspread/rootfind"
)

// Z-spread bracket seed: a single-sided continuously compounded spread is
// economically bounded to roughly [0%, 120%]. The bracketer may expand
// outward from here.
const (
	zSpreadBracketLo = 0.0
	zSpreadBracketHi = 1.2
)

// Calculator computes z-spread prices, spreads and sensitivities for an
// annuity off a curve bundle. It is stateless apart from its two oracle
// references and is safe for concurrent use.
type Calculator struct {
	pv   PresentValuer
	sens SensitivityCalculator
}

// NewCalculator builds a calculator on the given oracles.
func NewCalculator(pv PresentValuer, sens SensitivityCalculator) *Calculator {
	return &Calculator{pv: pv, sens: sens}
}

// NewCurveCalculator builds a calculator on the bundled CurveDiscounter
// oracle, which values FixedPayments directly off their named curve.
func NewCurveCalculator() *Calculator {
	d := CurveDiscounter{}
	return NewCalculator(d, d)
}

// Price computes the instrument price under a constant continuously
// compounded z-spread:
//
//	price = Σ pv_i · exp(−zSpread · t_i)
//
// where pv_i is the raw present value of payment i from the oracle and t_i
// its payment time. There is no bound on zSpread.
func (c *Calculator) Price(a *Annuity, curves curve.Bundle, zSpread float64) (float64, error) {
	if a == nil {
		return 0, fmt.Errorf("Price: %w", ErrNilAnnuity)
	}
	if curves == nil {
		return 0, fmt.Errorf("Price: %w", ErrNilCurves)
	}

	sum := 0.0
	for i := 0; i < a.NumPayments(); i++ {
		p := a.Payment(i)
		pv, err := c.pv.PresentValue(p, curves)
		if err != nil {
			return 0, fmt.Errorf("Price: payment %d: %w", i, err)
		}
		sum += pv * math.Exp(-zSpread*p.PaymentTime())
	}
	return sum, nil
}

// SolveZSpread finds the z-spread at which Price matches targetPrice.
//
// The objective f(z) = Price(z) − targetPrice is bracketed outward from
// [0, 1.2] and then refined with Brent's method. For a forward-starting
// annuity (all t_i > 0 with positive raw present values) the price is
// strictly decreasing in z, so there is at most one root.
func (c *Calculator) SolveZSpread(a *Annuity, curves curve.Bundle, targetPrice float64) (float64, error) {
	if a == nil {
		return 0, fmt.Errorf("SolveZSpread: %w", ErrNilAnnuity)
	}
	if curves == nil {
		return 0, fmt.Errorf("SolveZSpread: %w", ErrNilCurves)
	}

	var oracleErr error
	f := func(z float64) float64 {
		price, err := c.Price(a, curves, z)
		if err != nil && oracleErr == nil {
			oracleErr = err
		}
		return price - targetPrice
	}

	// The spread domain is one-sided: a target above the zero-spread price
	// is unreachable and must fail rather than solve to a negative spread.
	lo, hi, err := rootfind.BracketWithin(f, zSpreadBracketLo, zSpreadBracketHi, 0, math.Inf(1))
	if oracleErr != nil {
		return 0, fmt.Errorf("SolveZSpread: %w", oracleErr)
	}
	if err != nil {
		return 0, fmt.Errorf("SolveZSpread: %w", err)
	}

	root, err := rootfind.Brent(f, lo, hi)
	if oracleErr != nil {
		return 0, fmt.Errorf("SolveZSpread: %w", oracleErr)
	}
	if err != nil {
		return 0, fmt.Errorf("SolveZSpread: %w", err)
	}
	return root, nil
}

// PriceSensitivityToZSpread computes the analytic partial derivative of
// Price with respect to the z-spread:
//
//	∂price/∂z = Σ −t_i · pv_i · exp(−zSpread · t_i)
//
// Finite for finite inputs; exactly zero only when every payment time is
// zero (see ZSpreadSensitivityToCurve for the divisor case).
func (c *Calculator) PriceSensitivityToZSpread(a *Annuity, curves curve.Bundle, zSpread float64) (float64, error) {
	if a == nil {
		return 0, fmt.Errorf("PriceSensitivityToZSpread: %w", ErrNilAnnuity)
	}
	if curves == nil {
		return 0, fmt.Errorf("PriceSensitivityToZSpread: %w", ErrNilCurves)
	}

	sum := 0.0
	for i := 0; i < a.NumPayments(); i++ {
		p := a.Payment(i)
		pv, err := c.pv.PresentValue(p, curves)
		if err != nil {
			return 0, fmt.Errorf("PriceSensitivityToZSpread: payment %d: %w", i, err)
		}
		t := p.PaymentTime()
		sum -= t * pv * math.Exp(-zSpread*t)
	}
	return sum, nil
}
