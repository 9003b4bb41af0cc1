package main

import (
	"fmt"
	"log"

	"github.com/meenmo/zspread/annuity"
	"github.com/meenmo/zspread/curve"
)

func main() {
	bundle := curve.Bundle{
		"EUR-OIS": curve.Flat(0.0215),
	}

	ann := annuity.NewAnnuity(
		annuity.FixedPayment{Time: 1, Amount: 2.5, Curve: "EUR-OIS"},
		annuity.FixedPayment{Time: 2, Amount: 102.5, Curve: "EUR-OIS"},
	)

	calc := annuity.NewCurveCalculator()

	modelPrice, err := calc.Price(ann, bundle, 0)
	if err != nil {
		log.Fatal(err)
	}

	marketPrice := 98.35
	z, err := calc.SolveZSpread(ann, bundle, marketPrice)
	if err != nil {
		log.Fatal(err)
	}

	dPdz, err := calc.PriceSensitivityToZSpread(ann, bundle, z)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Model price (no spread): %.6f\n", modelPrice)
	fmt.Printf("Market price:            %.6f\n", marketPrice)
	fmt.Printf("Z-spread:                %.6f (%.2f bp)\n", z, z*1e4)
	fmt.Printf("dPrice/dz:               %.6f\n", dPdz)
}
