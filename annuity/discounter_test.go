package annuity_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/zspread/annuity"
	"github.com/meenmo/zspread/curve"
)

func testBundle() curve.Bundle {
	return curve.Bundle{
		"EUR-OIS": curve.Flat(0.02),
		"EUR-6M":  curve.Flat(0.025),
	}
}

func TestCurveDiscounter_PresentValue(t *testing.T) {
	t.Parallel()

	var d annuity.CurveDiscounter

	pv, err := d.PresentValue(annuity.FixedPayment{Time: 2, Amount: 100, Curve: "EUR-OIS"}, testBundle())
	if err != nil {
		t.Fatalf("PresentValue error: %v", err)
	}
	want := 100 * math.Exp(-0.02*2)
	if math.Abs(pv-want) > 1e-12 {
		t.Fatalf("PresentValue = %.12f, want %.12f", pv, want)
	}
}

func TestCurveDiscounter_UnknownCurve(t *testing.T) {
	t.Parallel()

	var d annuity.CurveDiscounter

	_, err := d.PresentValue(annuity.FixedPayment{Time: 1, Amount: 100, Curve: "KRW-CD"}, testBundle())
	if !errors.Is(err, annuity.ErrUnknownCurve) {
		t.Fatalf("expected ErrUnknownCurve, got %v", err)
	}
}

func TestCurveDiscounter_Sensitivities(t *testing.T) {
	t.Parallel()

	var d annuity.CurveDiscounter
	bundle := testBundle()

	ann := annuity.NewAnnuity(
		annuity.FixedPayment{Time: 1, Amount: 100, Curve: "EUR-OIS"},
		annuity.FixedPayment{Time: 0.5, Amount: 2.5, Curve: "EUR-6M"},
		annuity.FixedPayment{Time: 2, Amount: 100, Curve: "EUR-OIS"},
	)

	got, err := d.Sensitivities(ann, bundle)
	if err != nil {
		t.Fatalf("Sensitivities error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 curves, got %d", len(got))
	}
	ois := got["EUR-OIS"]
	if len(ois) != 2 || ois[0].Time != 1 || ois[1].Time != 2 {
		t.Fatalf("EUR-OIS ladder not in payment order: %+v", ois)
	}

	// ∂pv/∂z = −t·pv for a continuously compounded zero.
	wantFirst := -1 * 100 * math.Exp(-0.02*1)
	if math.Abs(ois[0].Value-wantFirst) > 1e-12 {
		t.Fatalf("EUR-OIS node 0 value: got %.12f want %.12f", ois[0].Value, wantFirst)
	}

	sixM := got["EUR-6M"]
	if len(sixM) != 1 || sixM[0].Time != 0.5 {
		t.Fatalf("EUR-6M ladder mismatch: %+v", sixM)
	}
}

func TestCurveCalculator_EndToEnd(t *testing.T) {
	t.Parallel()

	calc := annuity.NewCurveCalculator()
	bundle := testBundle()

	ann := annuity.NewAnnuity(
		annuity.FixedPayment{Time: 1, Amount: 2.5, Curve: "EUR-OIS"},
		annuity.FixedPayment{Time: 2, Amount: 102.5, Curve: "EUR-OIS"},
	)

	const z0 = 0.0135
	target, err := calc.Price(ann, bundle, z0)
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	got, err := calc.SolveZSpread(ann, bundle, target)
	if err != nil {
		t.Fatalf("SolveZSpread error: %v", err)
	}
	if math.Abs(got-z0) > 1e-9 {
		t.Fatalf("SolveZSpread = %.12f, want %.6f", got, z0)
	}
}
