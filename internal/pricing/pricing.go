package pricing

import (
	"errors"

	"github.com/wrapworks/estimator/internal/geometry"
)

// ErrUnpriceable is returned when labor and target margin together leave no
// room for cost, so no positive sale price can hit the target.
var ErrUnpriceable = errors.New("unpriceable: labor percent plus target margin must be below 100")

// LaborMode selects how labor cost is derived.
type LaborMode string

const (
	LaborPercentOfSale LaborMode = "percent"
	LaborFlatAmount    LaborMode = "flat"
)

// Inputs represents the pricing knobs of one line item.
type Inputs struct {
	MaterialRate        float64   `json:"material_rate"`
	DesignFee           float64   `json:"design_fee"`
	LaborMode           LaborMode `json:"labor_mode"`
	LaborPercent        float64   `json:"labor_percent"`
	LaborFlat           float64   `json:"labor_flat"`
	TargetMarginPercent float64   `json:"target_margin_percent"`
	ManualSale          bool      `json:"manual_sale"`
	ManualSalePrice     float64   `json:"manual_sale_price"`
	// InstallHours comes with a standard labor rate and takes precedence
	// over the hours a measurement carries.
	InstallHours float64 `json:"install_hours,omitempty"`
}

// Calc contains all derived values of a priced line item.
type Calc struct {
	Quantity              float64 `json:"quantity"`
	InstallHours          float64 `json:"install_hours,omitempty"`
	MaterialCost          float64 `json:"material_cost"`
	LaborCost             float64 `json:"labor_cost"`
	DesignCost            float64 `json:"design_cost"`
	COGS                  float64 `json:"cogs"`
	SalePrice             float64 `json:"sale_price"`
	GrossProfit           float64 `json:"gross_profit"`
	GrossMarginPercent    float64 `json:"gross_margin_percent"`
	EffectiveLaborPercent float64 `json:"effective_labor_percent"`
	Unpriceable           bool    `json:"unpriceable,omitempty"`
}

// Calculate prices a measurement. Area products solve the sale price from
// the target margin unless a manual sale price is set; PPF takes its sale,
// material and labor from the summed packages.
//
// When the target cannot be solved the returned Calc carries only the
// quantity, has Unpriceable set, and the error is ErrUnpriceable.
func Calculate(m geometry.Measurement, in Inputs) (Calc, error) {
	if m.Fixed != nil {
		return calculateFixed(m, in), nil
	}

	materialCost := m.Area * in.MaterialRate
	flat := in.LaborMode == LaborFlatAmount

	salePrice := in.ManualSalePrice
	if !in.ManualSale {
		// Solved in percent points so 70 + 30 lands exactly on zero.
		numerator := materialCost + in.DesignFee
		costShare := 100.0 - in.TargetMarginPercent
		if flat {
			numerator += in.LaborFlat
		} else {
			costShare -= in.LaborPercent
		}
		if costShare <= 0 {
			return Calc{Quantity: m.Area, Unpriceable: true}, ErrUnpriceable
		}
		salePrice = numerator * 100.0 / costShare
	}

	laborCost := in.LaborFlat
	if !flat {
		laborCost = in.LaborPercent / 100.0 * salePrice
	}

	return finish(Calc{
		Quantity:     m.Area,
		InstallHours: installHours(m, in),
		MaterialCost: materialCost,
		LaborCost:    laborCost,
		DesignCost:   in.DesignFee,
		SalePrice:    salePrice,
	}), nil
}

func calculateFixed(m geometry.Measurement, in Inputs) Calc {
	salePrice := m.Fixed.Sale
	if in.ManualSale {
		salePrice = in.ManualSalePrice
	}
	return finish(Calc{
		Quantity:     m.Area,
		InstallHours: m.Fixed.InstallHours,
		MaterialCost: m.Fixed.MaterialCost,
		LaborCost:    m.Fixed.LaborPay,
		DesignCost:   in.DesignFee,
		SalePrice:    salePrice,
	})
}

func installHours(m geometry.Measurement, in Inputs) float64 {
	if in.InstallHours > 0 {
		return in.InstallHours
	}
	return m.InstallHours
}

func finish(c Calc) Calc {
	c.COGS = c.MaterialCost + c.LaborCost + c.DesignCost
	c.GrossProfit = c.SalePrice - c.COGS
	if c.SalePrice > 0 {
		c.GrossMarginPercent = c.GrossProfit / c.SalePrice * 100.0
		c.EffectiveLaborPercent = c.LaborCost / c.SalePrice * 100.0
	}
	return c
}
