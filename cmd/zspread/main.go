// Command zspread solves the z-spread that reconciles an annuity's model
// price with a target dirty price.
//
// Input is either a JSON fixture (-input) or Postgres market data
// (-dsn/-isin/-curve/-curve-date, schema per marketdata/pg).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/meenmo/zspread/annuity"
	"github.com/meenmo/zspread/curve"
	"github.com/meenmo/zspread/instruments/annuities"
	"github.com/meenmo/zspread/marketdata/pg"
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

type output struct {
	ValuationDate    string  `json:"valuation_date"`
	ISIN             string  `json:"isin,omitempty"`
	TargetDirtyPrice float64 `json:"target_dirty_price"`
	ModelPriceNoZ    float64 `json:"model_price_zero_spread"`
	ZSpread          float64 `json:"z_spread"`
	ZSpreadBP        float64 `json:"z_spread_bp"`
}

func main() {
	input := flag.String("input", "", "fixture JSON path")
	dsn := flag.String("dsn", "", "Postgres DSN (alternative to -input)")
	isin := flag.String("isin", "", "instrument ISIN (with -dsn)")
	curveName := flag.String("curve", "", "discount curve name (with -dsn)")
	curveDate := flag.String("curve-date", "", "curve date YYYY-MM-DD (with -dsn)")
	target := flag.Float64("target", 0, "target dirty price (with -dsn)")
	flag.Parse()

	var (
		valuation time.Time
		bundle    curve.Bundle
		ann       *annuity.Annuity
		tgt       float64
		id        string
		err       error
	)

	switch {
	case strings.TrimSpace(*input) != "":
		valuation, bundle, ann, tgt, id, err = loadFixture(strings.TrimSpace(*input))
	case strings.TrimSpace(*dsn) != "":
		valuation, bundle, ann, err = loadFromPostgres(*dsn, *isin, *curveName, *curveDate)
		tgt, id = *target, *isin
	default:
		fmt.Fprintf(os.Stderr, "usage: zspread -input /path/to/input.json\n")
		fmt.Fprintf(os.Stderr, "       zspread -dsn postgres://... -isin XS... -curve EUR-OIS -curve-date 2025-11-21 -target 98.35\n")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	calc := annuity.NewCurveCalculator()

	base, err := calc.Price(ann, bundle, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "price: %v\n", err)
		os.Exit(1)
	}
	z, err := calc.SolveZSpread(ann, bundle, tgt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "solve: %v\n", err)
		os.Exit(1)
	}

	out := output{
		ValuationDate:    valuation.Format("2006-01-02"),
		ISIN:             id,
		TargetDirtyPrice: tgt,
		ModelPriceNoZ:    base,
		ZSpread:          z,
		ZSpreadBP:        utils.RoundTo(z*1e4, 6),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (time.Time, curve.Bundle, *annuity.Annuity, float64, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, nil, nil, 0, "", fmt.Errorf("read input: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return time.Time{}, nil, nil, 0, "", fmt.Errorf("parse input: %w", err)
	}

	valuation, bundle, ann, err := buildScenario(fx)
	if err != nil {
		return time.Time{}, nil, nil, 0, "", err
	}
	return valuation, bundle, ann, fx.TargetPrice, fx.Instrument.ISIN, nil
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

func loadFromPostgres(dsn, isin, curveName, curveDate string) (time.Time, curve.Bundle, *annuity.Annuity, error) {
	if isin == "" || curveName == "" || curveDate == "" {
		return time.Time{}, nil, nil, fmt.Errorf("-isin, -curve and -curve-date are required with -dsn")
	}
	valuation, err := utils.ParseDate(curveDate)
	if err != nil {
		return time.Time{}, nil, nil, fmt.Errorf("curve-date: %w", err)
	}

	store, err := pg.Open(dsn)
	if err != nil {
		return time.Time{}, nil, nil, err
	}
	defer store.Close()

	crv, err := store.ZeroCurve(curveName, valuation)
	if err != nil {
		return time.Time{}, nil, nil, err
	}
	rows, err := store.Cashflows(isin)
	if err != nil {
		return time.Time{}, nil, nil, err
	}

	ann := annuities.ToAnnuity(valuation, rows, curveName)
	if ann.NumPayments() == 0 {
		return time.Time{}, nil, nil, fmt.Errorf("no cashflows after %s for %q", curveDate, isin)
	}
	return valuation, curve.Bundle{curveName: crv}, ann, nil
}
