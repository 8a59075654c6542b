package geometry

import (
	"math"

	"github.com/wrapworks/estimator/internal/catalog"
)

// Line is one display subtotal of a measurement (a panel, a side, a cab).
type Line struct {
	Label string  `json:"label"`
	Sqft  float64 `json:"sqft"`
}

// Fixed carries summed catalog values for products that are not priced by
// area.
type Fixed struct {
	Sale         float64 `json:"sale"`
	MaterialCost float64 `json:"material_cost"`
	LaborPay     float64 `json:"labor_pay"`
	InstallHours float64 `json:"install_hours"`
}

// VehicleSource says which table a vehicle area came from.
type VehicleSource string

const (
	SourcePanels VehicleSource = "panels"
	SourceLegacy VehicleSource = "legacy"
	SourceNone   VehicleSource = "none"
)

// Measurement is the output of a geometry calculator.
type Measurement struct {
	Type  ProductType `json:"type"`
	Area  float64     `json:"area"`
	Lines []Line      `json:"lines,omitempty"`

	// Fixed is set for PPF only.
	Fixed *Fixed `json:"fixed,omitempty"`

	Source     VehicleSource     `json:"source,omitempty"`
	SizeClass  catalog.SizeClass `json:"size_class,omitempty"`
	NetArea    float64           `json:"net_area,omitempty"`
	LinearFeet float64           `json:"linear_feet,omitempty"`

	// InstallHours is the catalog install time of a vehicle found in the
	// panel database.
	InstallHours float64 `json:"install_hours,omitempty"`
}

// Measure runs the calculator for the job's product type.
func Measure(cat *catalog.Catalog, job Job) Measurement {
	switch j := job.(type) {
	case VehicleJob:
		return measureVehicle(cat, j)
	case BoxTruckJob:
		return measureBoxTruck(j)
	case TrailerJob:
		return measureTrailer(j)
	case MarineJob:
		return measureMarine(j)
	case PPFJob:
		return measurePPF(cat, j)
	case CustomJob:
		return Measurement{Type: j.ProductType(), Area: nonNegative(j.Sqft)}
	}
	return Measurement{}
}

// CustomJob is an area entered directly by the caller (decking, wall wraps,
// signage, apparel, print and one-off custom work).
type CustomJob struct {
	Type ProductType `json:"-"`
	Sqft float64     `json:"sqft"`
}

// nonNegative clamps a caller-entered dimension at zero.
func nonNegative(v float64) float64 {
	return math.Max(0, v)
}

// roundSqft rounds an area to whole square feet.
func roundSqft(v float64) float64 {
	return math.Round(v)
}
