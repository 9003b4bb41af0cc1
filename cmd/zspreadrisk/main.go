// Command zspreadrisk reports z-spread risk figures for an annuity: the
// analytic price sensitivity to the spread, the spread-adjusted curve
// sensitivities, and the z-spread sensitivity to each curve.
//
// The spread is taken from -zspread, or solved from the fixture's target
// dirty price when the flag is not set.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/meenmo/zspread/annuity"
	"github.com/meenmo/zspread/curve"
	"github.com/meenmo/zspread/instruments/annuities"
	"github.com/meenmo/zspread/utils"
)

type fixture struct {
	ValuationDate string                 `json:"valuation_date"`
	Curves        map[string][]curveNode `json:"curves"`
	Instrument    instrumentSpec         `json:"instrument"`
	TargetPrice   float64                `json:"target_dirty_price"`
}

type curveNode struct {
	Time float64 `json:"time"`
	Zero float64 `json:"zero"`
}

type instrumentSpec struct {
	ISIN      string        `json:"isin"`
	Curve     string        `json:"curve"`
	Cashflows []cashflowRow `json:"cashflows"`
}

type cashflowRow struct {
	Date      string `json:"date"`
	Coupon    int64  `json:"coupon"`
	Principal int64  `json:"principal"`
}

type ladderNode struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

type output struct {
	ValuationDate  string                  `json:"valuation_date"`
	ISIN           string                  `json:"isin,omitempty"`
	ZSpread        float64                 `json:"z_spread"`
	ZSpreadSolved  bool                    `json:"z_spread_solved"`
	ModelPrice     float64                 `json:"model_price"`
	DPriceDZSpread float64                 `json:"dprice_dzspread"`
	PriceToCurve   map[string][]ladderNode `json:"price_sensitivity_to_curve"`
	ZSpreadToCurve map[string][]ladderNode `json:"zspread_sensitivity_to_curve"`
}

func main() {
	input := flag.String("input", "", "fixture JSON path")
	zFlag := flag.Float64("zspread", math.NaN(), "z-spread (decimal); solved from target_dirty_price if unset")
	flag.Parse()

	path := strings.TrimSpace(*input)
	if path == "" {
		fmt.Fprintf(os.Stderr, "usage: zspreadrisk -input /path/to/input.json [-zspread 0.0125]\n")
		os.Exit(2)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		fmt.Fprintf(os.Stderr, "parse input: %v\n", err)
		os.Exit(1)
	}

	valuation, bundle, ann, err := buildScenario(fx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	calc := annuity.NewCurveCalculator()

	z := *zFlag
	solved := false
	if math.IsNaN(z) {
		z, err = calc.SolveZSpread(ann, bundle, fx.TargetPrice)
		if err != nil {
			fmt.Fprintf(os.Stderr, "solve: %v\n", err)
			os.Exit(1)
		}
		solved = true
	}

	price, err := calc.Price(ann, bundle, z)
	if err != nil {
		fmt.Fprintf(os.Stderr, "price: %v\n", err)
		os.Exit(1)
	}
	dPdz, err := calc.PriceSensitivityToZSpread(ann, bundle, z)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spread sensitivity: %v\n", err)
		os.Exit(1)
	}
	priceToCurve, err := calc.PriceSensitivityToCurve(ann, bundle, z)
	if err != nil {
		fmt.Fprintf(os.Stderr, "curve sensitivity: %v\n", err)
		os.Exit(1)
	}
	zToCurve, err := calc.ZSpreadSensitivityToCurve(ann, bundle, z)
	if err != nil {
		fmt.Fprintf(os.Stderr, "z-spread curve sensitivity: %v\n", err)
		os.Exit(1)
	}

	out := output{
		ValuationDate:  valuation.Format("2006-01-02"),
		ISIN:           fx.Instrument.ISIN,
		ZSpread:        z,
		ZSpreadSolved:  solved,
		ModelPrice:     price,
		DPriceDZSpread: dPdz,
		PriceToCurve:   toLadderNodes(priceToCurve),
		ZSpreadToCurve: toLadderNodes(zToCurve),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}

func toLadderNodes(s annuity.CurveSensitivity) map[string][]ladderNode {
	out := make(map[string][]ladderNode, len(s))
	for name, ladder := range s {
		nodes := make([]ladderNode, 0, len(ladder))
		for _, tv := range ladder {
			nodes = append(nodes, ladderNode{Time: tv.Time, Value: tv.Value})
		}
		out[name] = nodes
	}
	return out
}

func buildScenario(fx fixture) (time.Time, curve.Bundle, *annuity.Annuity, error) {
	valuation, err := utils.ParseDate(fx.ValuationDate)
	if err != nil {
		return time.Time{}, nil, nil, fmt.Errorf("valuation_date: %w", err)
	}
	if len(fx.Curves) == 0 {
		return time.Time{}, nil, nil, fmt.Errorf("input: curves are required")
	}
	if fx.Instrument.Curve == "" {
		return time.Time{}, nil, nil, fmt.Errorf("input: instrument.curve is required")
	}
	if len(fx.Instrument.Cashflows) == 0 {
		return time.Time{}, nil, nil, fmt.Errorf("input: instrument.cashflows are required")
	}

	bundle := make(curve.Bundle, len(fx.Curves))
	for name, rawNodes := range fx.Curves {
		nodes := make([]curve.Node, 0, len(rawNodes))
		for _, n := range rawNodes {
			nodes = append(nodes, curve.Node{Time: n.Time, Zero: n.Zero})
		}
		c, err := curve.New(nodes)
		if err != nil {
			return time.Time{}, nil, nil, fmt.Errorf("curve %q: %w", name, err)
		}
		bundle[name] = c
	}
	if _, ok := bundle[fx.Instrument.Curve]; !ok {
		return time.Time{}, nil, nil, fmt.Errorf("input: instrument.curve %q not among curves", fx.Instrument.Curve)
	}

	rows := make([]annuities.CashflowCents, 0, len(fx.Instrument.Cashflows))
	for _, r := range fx.Instrument.Cashflows {
		d, err := utils.ParseDate(r.Date)
		if err != nil {
			return time.Time{}, nil, nil, fmt.Errorf("cashflow date: %w", err)
		}
		rows = append(rows, annuities.CashflowCents{
			Date:           d,
			CouponCents:    r.Coupon,
			PrincipalCents: r.Principal,
		})
	}

	ann := annuities.ToAnnuity(valuation, rows, fx.Instrument.Curve)
	if ann.NumPayments() == 0 {
		return time.Time{}, nil, nil, fmt.Errorf("input: no cashflows after valuation date")
	}
	return valuation, bundle, ann, nil
}
