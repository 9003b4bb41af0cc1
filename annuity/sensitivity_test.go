package annuity_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/zspread/annuity"
	"github.com/meenmo/zspread/curve"
)

func testLadders() annuity.CurveSensitivity {
	return annuity.CurveSensitivity{
		"EUR-OIS": {
			{Time: 1, Value: -95.0},
			{Time: 2, Value: -181.0},
		},
		"EUR-6M": {
			{Time: 0.5, Value: 12.4},
		},
	}
}

func TestPriceSensitivityToCurve_IdentityAtZeroSpread(t *testing.T) {
	t.Parallel()

	calc := staticCalculator(testLadders())

	got, err := calc.PriceSensitivityToCurve(twoPaymentAnnuity(), curve.Bundle{}, 0)
	if err != nil {
		t.Fatalf("PriceSensitivityToCurve error: %v", err)
	}

	want := testLadders()
	if len(got) != len(want) {
		t.Fatalf("curve set size mismatch: got %d want %d", len(got), len(want))
	}
	for name, ladder := range want {
		gotLadder, ok := got[name]
		if !ok {
			t.Fatalf("missing curve %q", name)
		}
		if len(gotLadder) != len(ladder) {
			t.Fatalf("curve %q ladder length mismatch: got %d want %d", name, len(gotLadder), len(ladder))
		}
		for i := range ladder {
			if gotLadder[i] != ladder[i] {
				t.Fatalf("curve %q node %d changed at zero spread: got %+v want %+v", name, i, gotLadder[i], ladder[i])
			}
		}
	}
}

func TestPriceSensitivityToCurve_AdjustsByDiscountFactor(t *testing.T) {
	t.Parallel()

	calc := staticCalculator(testLadders())

	const z = 0.07
	got, err := calc.PriceSensitivityToCurve(twoPaymentAnnuity(), curve.Bundle{}, z)
	if err != nil {
		t.Fatalf("PriceSensitivityToCurve error: %v", err)
	}

	for name, ladder := range testLadders() {
		gotLadder := got[name]
		if len(gotLadder) != len(ladder) {
			t.Fatalf("curve %q ladder length mismatch: got %d want %d", name, len(gotLadder), len(ladder))
		}
		for i, node := range ladder {
			if gotLadder[i].Time != node.Time {
				t.Fatalf("curve %q node %d time changed: got %g want %g", name, i, gotLadder[i].Time, node.Time)
			}
			want := node.Value * math.Exp(-z*node.Time)
			if math.Abs(gotLadder[i].Value-want) > 1e-12 {
				t.Fatalf("curve %q node %d value: got %.12f want %.12f", name, i, gotLadder[i].Value, want)
			}
		}
	}
}

func TestPriceSensitivityToCurve_ReturnsFreshMap(t *testing.T) {
	t.Parallel()

	calc := staticCalculator(testLadders())

	first, err := calc.PriceSensitivityToCurve(twoPaymentAnnuity(), curve.Bundle{}, 0.07)
	if err != nil {
		t.Fatalf("PriceSensitivityToCurve error: %v", err)
	}
	first["EUR-OIS"][0].Value = 1e9
	delete(first, "EUR-6M")

	second, err := calc.PriceSensitivityToCurve(twoPaymentAnnuity(), curve.Bundle{}, 0.07)
	if err != nil {
		t.Fatalf("PriceSensitivityToCurve error: %v", err)
	}
	if _, ok := second["EUR-6M"]; !ok {
		t.Fatalf("second call missing curve present in oracle output")
	}
	if second["EUR-OIS"][0].Value == 1e9 {
		t.Fatalf("second call sees mutation of the first result")
	}
}

func TestPriceSensitivityToCurve_NilArguments(t *testing.T) {
	t.Parallel()

	calc := staticCalculator(testLadders())

	if _, err := calc.PriceSensitivityToCurve(nil, curve.Bundle{}, 0.05); !errors.Is(err, annuity.ErrNilAnnuity) {
		t.Fatalf("expected ErrNilAnnuity, got %v", err)
	}
	if _, err := calc.PriceSensitivityToCurve(twoPaymentAnnuity(), nil, 0.05); !errors.Is(err, annuity.ErrNilCurves) {
		t.Fatalf("expected ErrNilCurves, got %v", err)
	}
}

func TestZSpreadSensitivityToCurve_ImplicitFunctionRelation(t *testing.T) {
	t.Parallel()

	calc := staticCalculator(testLadders())
	bundle := curve.Bundle{}
	ann := twoPaymentAnnuity()

	const z = 0.05
	dPriceDz, err := calc.PriceSensitivityToZSpread(ann, bundle, z)
	if err != nil {
		t.Fatalf("PriceSensitivityToZSpread error: %v", err)
	}

	got, err := calc.ZSpreadSensitivityToCurve(ann, bundle, z)
	if err != nil {
		t.Fatalf("ZSpreadSensitivityToCurve error: %v", err)
	}

	for name, ladder := range testLadders() {
		gotLadder := got[name]
		if len(gotLadder) != len(ladder) {
			t.Fatalf("curve %q ladder length mismatch: got %d want %d", name, len(gotLadder), len(ladder))
		}
		for i, node := range ladder {
			if gotLadder[i].Time != node.Time {
				t.Fatalf("curve %q node %d time changed: got %g want %g", name, i, gotLadder[i].Time, node.Time)
			}
			want := -node.Value * math.Exp(-z*node.Time) / dPriceDz
			if math.Abs(gotLadder[i].Value-want) > 1e-12 {
				t.Fatalf("curve %q node %d value: got %.12f want %.12f", name, i, gotLadder[i].Value, want)
			}
		}
	}
}

func TestZSpreadSensitivityToCurve_DegenerateAtAllZeroTimes(t *testing.T) {
	t.Parallel()

	calc := staticCalculator(testLadders())

	// Every payment at t=0 makes the price flat in the spread.
	ann := annuity.NewAnnuity(
		staticPayment{time: 0, pv: 100},
		staticPayment{time: 0, pv: 100},
	)

	_, err := calc.ZSpreadSensitivityToCurve(ann, curve.Bundle{}, 0.05)
	if !errors.Is(err, annuity.ErrDegenerateSensitivity) {
		t.Fatalf("expected ErrDegenerateSensitivity, got %v", err)
	}
}

func TestZSpreadSensitivityToCurve_NilArguments(t *testing.T) {
	t.Parallel()

	calc := staticCalculator(testLadders())

	if _, err := calc.ZSpreadSensitivityToCurve(nil, curve.Bundle{}, 0.05); !errors.Is(err, annuity.ErrNilAnnuity) {
		t.Fatalf("expected ErrNilAnnuity, got %v", err)
	}
	if _, err := calc.ZSpreadSensitivityToCurve(twoPaymentAnnuity(), nil, 0.05); !errors.Is(err, annuity.ErrNilCurves) {
		t.Fatalf("expected ErrNilCurves, got %v", err)
	}
}
