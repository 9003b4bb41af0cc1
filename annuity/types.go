// Package annuity provides z-spread analytics for annuity-style cash-flow
// instruments: pricing under a constant continuously compounded spread,
// solving the spread that matches a market price, and the spread and curve
// sensitivities needed to feed risk reports.
package annuity

import (
	"errors"

	"github.com/meenmo/zspread/curve"
)

var (
	// ErrNilAnnuity is returned when a required annuity argument is nil.
	ErrNilAnnuity = errors.New("nil annuity")
	// ErrNilCurves is returned when a required curve bundle argument is nil.
	ErrNilCurves = errors.New("nil curve bundle")
	// ErrDegenerateSensitivity is returned when the price sensitivity to the
	// z-spread is exactly zero and would be used as a divisor.
	ErrDegenerateSensitivity = errors.New("price sensitivity to z-spread is zero")
	// ErrUnknownCurve is returned when a payment references a curve name
	// missing from the bundle.
	ErrUnknownCurve = errors.New("unknown curve")
)

// Payment is a single scheduled cash flow. PaymentTime is the payment date
// as a year fraction from the valuation date; the present-value oracle sees
// the concrete type and extracts whatever else it needs.
type Payment interface {
	PaymentTime() float64
}

// FixedPayment is a known cash amount paid at a fixed time, valued off a
// named discount curve. Amount is in currency units.
type FixedPayment struct {
	Time   float64
	Amount float64
	Curve  string
}

func (p FixedPayment) PaymentTime() float64 { return p.Time }

// Annuity is an ordered, fixed sequence of payments in coupon date order.
// The order is significant: payment times are read positionally. The
// payment slice is copied on construction and never mutated.
type Annuity struct {
	payments []Payment
}

// NewAnnuity builds an annuity from payments in coupon date order.
func NewAnnuity(payments ...Payment) *Annuity {
	copied := make([]Payment, len(payments))
	copy(copied, payments)
	return &Annuity{payments: copied}
}

// NumPayments returns the number of payments.
func (a *Annuity) NumPayments() int { return len(a.payments) }

// Payment returns the i-th payment in coupon date order.
func (a *Annuity) Payment(i int) Payment { return a.payments[i] }

// TimeValue is a (time, sensitivity) node on a curve sensitivity ladder.
type TimeValue struct {
	Time  float64
	Value float64
}

// CurveSensitivity maps a curve name to its sensitivity ladder. Every
// transform in this package returns a freshly built map; curve-name sets,
// ladder lengths and ladder times are preserved across transforms, only the
// values change.
type CurveSensitivity map[string][]TimeValue

// PresentValuer is the payment present-value oracle. It must be
// deterministic and side-effect-free for a given (payment, curves) pair.
type PresentValuer interface {
	PresentValue(p Payment, curves curve.Bundle) (float64, error)
}

// SensitivityCalculator is the curve-sensitivity oracle. Each call must
// return a fresh map and fresh ladders; callers may retain the result.
type SensitivityCalculator interface {
	Sensitivities(a *Annuity, curves curve.Bundle) (CurveSensitivity, error)
}
