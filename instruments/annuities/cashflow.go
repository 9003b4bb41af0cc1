// Package annuities converts dated cash-flow feeds into the fixed-payment
// annuities consumed by the z-spread calculator.
package annuities

import (
	"time"

	"github.com/meenmo/zspread/annuity"
	"github.com/meenmo/zspread/utils"
)

// timeDayCount is the convention for the payment-time axis, matching the
// curve time axis.
const timeDayCount = "ACT/365F"

// CashflowCents mirrors the Bloomberg-style cashflow feed where coupon and
// principal are stored as integer minor units (e.g., cents for EUR).
type CashflowCents struct {
	Date           time.Time
	CouponCents    int64
	PrincipalCents int64
}

// Amount returns the total cash amount in currency units.
func (c CashflowCents) Amount() float64 {
	return float64(c.CouponCents+c.PrincipalCents) / 100.0
}

// ToPayments converts cashflow rows into fixed payments valued off
// curveName. Payment times are ACT/365F year fractions from valuationDate;
// rows on or before valuationDate carry no value and are dropped. Rows must
// already be in coupon date order.
func ToPayments(valuationDate time.Time, rows []CashflowCents, curveName string) []annuity.FixedPayment {
	out := make([]annuity.FixedPayment, 0, len(rows))
	for _, row := range rows {
		if !row.Date.After(valuationDate) {
			continue
		}
		out = append(out, annuity.FixedPayment{
			Time:   utils.YearFraction(valuationDate, row.Date, timeDayCount),
			Amount: row.Amount(),
			Curve:  curveName,
		})
	}
	return out
}

// ToAnnuity builds the annuity directly.
func ToAnnuity(valuationDate time.Time, rows []CashflowCents, curveName string) *annuity.Annuity {
	payments := ToPayments(valuationDate, rows, curveName)
	converted := make([]annuity.Payment, len(payments))
	for i, p := range payments {
		converted[i] = p
	}
	return annuity.NewAnnuity(converted...)
}
