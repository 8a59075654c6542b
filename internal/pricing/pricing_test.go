package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/wrapworks/estimator/internal/geometry"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func area(sqft float64) geometry.Measurement {
	return geometry.Measurement{Type: geometry.BoxTruck, Area: sqft}
}

func TestCalculate_PercentLaborSolvesTarget(t *testing.T) {
	in := Inputs{MaterialRate: 2, DesignFee: 150, LaborMode: LaborPercentOfSale, LaborPercent: 10, TargetMarginPercent: 40}

	calc, err := Calculate(area(100), in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// (200 + 150) / (1 - 0.4 - 0.1)
	nearlyEqual(t, "materialCost", calc.MaterialCost, 200)
	nearlyEqual(t, "salePrice", calc.SalePrice, 700)
	nearlyEqual(t, "laborCost", calc.LaborCost, 70)
	nearlyEqual(t, "cogs", calc.COGS, 420)
	nearlyEqual(t, "grossProfit", calc.GrossProfit, 280)
	nearlyEqual(t, "grossMarginPercent", calc.GrossMarginPercent, 40)
	nearlyEqual(t, "effectiveLaborPercent", calc.EffectiveLaborPercent, 10)
}

func TestCalculate_FlatLaborSolvesTarget(t *testing.T) {
	in := Inputs{MaterialRate: 2, DesignFee: 100, LaborMode: LaborFlatAmount, LaborFlat: 200, TargetMarginPercent: 50}

	calc, err := Calculate(area(50), in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	nearlyEqual(t, "salePrice", calc.SalePrice, 800)
	nearlyEqual(t, "laborCost", calc.LaborCost, 200)
	nearlyEqual(t, "effectiveLaborPercent", calc.EffectiveLaborPercent, 25)
	nearlyEqual(t, "grossMarginPercent", calc.GrossMarginPercent, 50)
}

func TestCalculate_MarginRoundTrip(t *testing.T) {
	for _, target := range []float64{0, 12.5, 40, 60, 75, 85} {
		for _, mode := range []LaborMode{LaborPercentOfSale, LaborFlatAmount} {
			in := Inputs{
				MaterialRate:        2.1,
				DesignFee:           150,
				LaborMode:           mode,
				LaborPercent:        10,
				LaborFlat:           325,
				TargetMarginPercent: target,
			}
			calc, err := Calculate(area(237), in)
			if err != nil {
				t.Fatalf("target %v mode %s: %v", target, mode, err)
			}
			if math.Abs(calc.GrossMarginPercent-target) > 1e-6 {
				t.Fatalf("target %v mode %s: margin = %v", target, mode, calc.GrossMarginPercent)
			}
		}
	}
}

func TestCalculate_Identities(t *testing.T) {
	cases := []Inputs{
		{MaterialRate: 2.5, DesignFee: 75, LaborPercent: 12, TargetMarginPercent: 70},
		{MaterialRate: 1.85, DesignFee: 0, LaborMode: LaborFlatAmount, LaborFlat: 500, TargetMarginPercent: 30},
		{MaterialRate: 2.1, DesignFee: 150, LaborPercent: 10, ManualSale: true, ManualSalePrice: 333.33},
		{MaterialRate: 2.1, DesignFee: 150, LaborPercent: 10, ManualSale: true, ManualSalePrice: 100},
	}
	for i, in := range cases {
		calc, err := Calculate(area(143), in)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if calc.COGS != calc.MaterialCost+calc.LaborCost+calc.DesignCost {
			t.Fatalf("case %d: cogs identity broken: %+v", i, calc)
		}
		if calc.GrossProfit != calc.SalePrice-calc.COGS {
			t.Fatalf("case %d: profit identity broken: %+v", i, calc)
		}
	}
}

func TestCalculate_ManualSaleIsAuthoritative(t *testing.T) {
	in := Inputs{MaterialRate: 2, DesignFee: 150, LaborPercent: 10, TargetMarginPercent: 75, ManualSale: true, ManualSalePrice: 1000}

	calc, err := Calculate(area(100), in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	nearlyEqual(t, "salePrice", calc.SalePrice, 1000)
	nearlyEqual(t, "laborCost", calc.LaborCost, 100)
	nearlyEqual(t, "grossProfit", calc.GrossProfit, 550)
	nearlyEqual(t, "grossMarginPercent", calc.GrossMarginPercent, 55)
}

func TestCalculate_ZeroSalePriceHasZeroMargin(t *testing.T) {
	calc, err := Calculate(area(0), Inputs{LaborPercent: 10, TargetMarginPercent: 75})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	nearlyEqual(t, "salePrice", calc.SalePrice, 0)
	nearlyEqual(t, "grossMarginPercent", calc.GrossMarginPercent, 0)
	nearlyEqual(t, "effectiveLaborPercent", calc.EffectiveLaborPercent, 0)
	if math.IsNaN(calc.GrossMarginPercent) {
		t.Fatalf("margin is NaN")
	}
}

func TestCalculate_Unpriceable(t *testing.T) {
	cases := []Inputs{
		{MaterialRate: 2, LaborPercent: 30, TargetMarginPercent: 70},
		{MaterialRate: 2, LaborPercent: 30, TargetMarginPercent: 80},
		{MaterialRate: 2, LaborMode: LaborFlatAmount, LaborFlat: 100, TargetMarginPercent: 100},
	}
	for i, in := range cases {
		calc, err := Calculate(area(100), in)
		if !errors.Is(err, ErrUnpriceable) {
			t.Fatalf("case %d: err = %v, want ErrUnpriceable", i, err)
		}
		if !calc.Unpriceable || calc.SalePrice != 0 || calc.GrossProfit != 0 {
			t.Fatalf("case %d: unexpected calc %+v", i, calc)
		}
		nearlyEqual(t, "quantity", calc.Quantity, 100)
	}
}

func TestCalculate_ManualSaleIgnoresUnsolvableTarget(t *testing.T) {
	in := Inputs{MaterialRate: 2, LaborPercent: 30, TargetMarginPercent: 90, ManualSale: true, ManualSalePrice: 500}

	calc, err := Calculate(area(100), in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	nearlyEqual(t, "salePrice", calc.SalePrice, 500)
}

func TestCalculate_FixedPackages(t *testing.T) {
	m := geometry.Measurement{
		Type:  geometry.PPF,
		Fixed: &geometry.Fixed{Sale: 2200, MaterialCost: 660, LaborPay: 262, InstallHours: 8.5},
	}

	calc, err := Calculate(m, Inputs{MaterialRate: 2.1, TargetMarginPercent: 99, LaborPercent: 50})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	nearlyEqual(t, "salePrice", calc.SalePrice, 2200)
	nearlyEqual(t, "materialCost", calc.MaterialCost, 660)
	nearlyEqual(t, "laborCost", calc.LaborCost, 262)
	nearlyEqual(t, "cogs", calc.COGS, 922)
	nearlyEqual(t, "grossProfit", calc.GrossProfit, 1278)
	nearlyEqual(t, "installHours", calc.InstallHours, 8.5)
}

func TestCalculate_InstallHours(t *testing.T) {
	m := geometry.Measurement{Type: geometry.Vehicle, Area: 200, InstallHours: 14}
	in := Inputs{MaterialRate: 2, LaborMode: LaborFlatAmount, LaborFlat: 600, TargetMarginPercent: 50}

	calc, err := Calculate(m, in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	nearlyEqual(t, "vehicle installHours", calc.InstallHours, 14)

	in.InstallHours = 17
	calc, err = Calculate(m, in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	nearlyEqual(t, "labor rate installHours", calc.InstallHours, 17)
	nearlyEqual(t, "laborCost", calc.LaborCost, 600)
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		margin float64
		want   Quality
	}{
		{80, QualityExcellent},
		{73, QualityExcellent},
		{72.9, QualityGood},
		{65, QualityGood},
		{64.9, QualityLow},
		{0, QualityLow},
	}
	for _, tt := range tests {
		if got := Classify(tt.margin, th); got != tt.want {
			t.Fatalf("Classify(%v) = %q, want %q", tt.margin, got, tt.want)
		}
	}

	custom := Thresholds{AtRisk: 60, Excellent: 73}
	if got := Classify(62, custom); got != QualityGood {
		t.Fatalf("custom Classify(62) = %q", got)
	}
}
