package annuity

import (
	"fmt"

	"github.com/meenmo/zspread/curve"
)

// CurveDiscounter is the bundled oracle pair for FixedPayments: present
// value is the amount discounted off the payment's named curve, and the
// zero-rate sensitivity of each payment is −t·pv at its payment time.
//
// It holds no state; the zero value is ready to use.
type CurveDiscounter struct{}

// PresentValue returns amount · DF(t) off the payment's named curve.
func (CurveDiscounter) PresentValue(p Payment, curves curve.Bundle) (float64, error) {
	fp, ok := p.(FixedPayment)
	if !ok {
		return 0, fmt.Errorf("PresentValue: unsupported payment type %T", p)
	}
	crv, ok := curves[fp.Curve]
	if !ok {
		return 0, fmt.Errorf("PresentValue: %w %q", ErrUnknownCurve, fp.Curve)
	}
	return fp.Amount * crv.DF(fp.Time), nil
}

// Sensitivities returns one ladder node per payment, grouped by curve name
// in payment order. For a continuously compounded zero rate z(t),
// pv = amount·exp(−z(t)·t), so ∂pv/∂z(t) = −t·pv.
func (CurveDiscounter) Sensitivities(a *Annuity, curves curve.Bundle) (CurveSensitivity, error) {
	if a == nil {
		return nil, fmt.Errorf("Sensitivities: %w", ErrNilAnnuity)
	}
	if curves == nil {
		return nil, fmt.Errorf("Sensitivities: %w", ErrNilCurves)
	}

	out := make(CurveSensitivity)
	for i := 0; i < a.NumPayments(); i++ {
		fp, ok := a.Payment(i).(FixedPayment)
		if !ok {
			return nil, fmt.Errorf("Sensitivities: payment %d: unsupported payment type %T", i, a.Payment(i))
		}
		crv, ok := curves[fp.Curve]
		if !ok {
			return nil, fmt.Errorf("Sensitivities: payment %d: %w %q", i, ErrUnknownCurve, fp.Curve)
		}
		pv := fp.Amount * crv.DF(fp.Time)
		out[fp.Curve] = append(out[fp.Curve], TimeValue{Time: fp.Time, Value: -fp.Time * pv})
	}
	return out, nil
}
