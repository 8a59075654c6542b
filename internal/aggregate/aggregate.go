// Package aggregate rolls priced line items up into order totals.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/wrapworks/estimator/internal/pricing"
)

// View selects which entries count toward a total.
type View int

const (
	// RequiredOnly leaves optional items out.
	RequiredOnly View = iota
	// AllSelected counts every entry given, optional or not.
	AllSelected
)

// Entry is one priced line item.
type Entry struct {
	Calc     pricing.Calc
	Optional bool
}

// Totals contains roll-up values over a set of line items.
type Totals struct {
	Revenue              float64 `json:"revenue"`
	MaterialCost         float64 `json:"material_cost"`
	LaborCost            float64 `json:"labor_cost"`
	DesignCost           float64 `json:"design_cost"`
	COGS                 float64 `json:"cogs"`
	GrossProfit          float64 `json:"gross_profit"`
	BlendedMarginPercent float64 `json:"blended_margin_percent"`
	InstallHours         float64 `json:"install_hours"`
	Items                int     `json:"items"`
	// Unpriceable counts entries left out because no price could be solved.
	Unpriceable int `json:"unpriceable"`
}

// Sum adds up the entries the view selects. The blended margin is profit
// over revenue, so large items weigh in proportion to their sale price.
func Sum(entries []Entry, view View) Totals {
	var (
		revenue, material, labor, design, cogs, profit, hours decimal.Decimal
		t                                                     Totals
	)
	for _, e := range entries {
		if view == RequiredOnly && e.Optional {
			continue
		}
		if e.Calc.Unpriceable {
			t.Unpriceable++
			continue
		}
		t.Items++
		revenue = revenue.Add(decimal.NewFromFloat(e.Calc.SalePrice))
		material = material.Add(decimal.NewFromFloat(e.Calc.MaterialCost))
		labor = labor.Add(decimal.NewFromFloat(e.Calc.LaborCost))
		design = design.Add(decimal.NewFromFloat(e.Calc.DesignCost))
		cogs = cogs.Add(decimal.NewFromFloat(e.Calc.COGS))
		profit = profit.Add(decimal.NewFromFloat(e.Calc.GrossProfit))
		hours = hours.Add(decimal.NewFromFloat(e.Calc.InstallHours))
	}

	t.Revenue = revenue.InexactFloat64()
	t.MaterialCost = material.InexactFloat64()
	t.LaborCost = labor.InexactFloat64()
	t.DesignCost = design.InexactFloat64()
	t.COGS = cogs.InexactFloat64()
	t.GrossProfit = profit.InexactFloat64()
	t.InstallHours = hours.InexactFloat64()
	if revenue.IsPositive() {
		t.BlendedMarginPercent = profit.Mul(decimal.NewFromInt(100)).Div(revenue).InexactFloat64()
	}
	return t
}
