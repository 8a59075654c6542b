package catalog

import "strings"

// SizeClass buckets vehicles that have no panel-level data.
type SizeClass string

const (
	SizeSmallCar  SizeClass = "small_car"
	SizeMedCar    SizeClass = "med_car"
	SizeFullCar   SizeClass = "full_car"
	SizeSmTruck   SizeClass = "sm_truck"
	SizeMedTruck  SizeClass = "med_truck"
	SizeFullTruck SizeClass = "full_truck"
	SizeMedVan    SizeClass = "med_van"
	SizeLargeVan  SizeClass = "large_van"
	SizeXLVan     SizeClass = "xl_van"
)

// Coverage is a legacy coverage level.
type Coverage string

const (
	CoverageHalf         Coverage = "half"
	CoverageThreeQuarter Coverage = "threequarter"
	CoverageFull         Coverage = "full"
)

// CoverageSqft holds the three coverage areas of a size class plus the roof,
// which is quoted separately.
type CoverageSqft struct {
	Half         float64
	ThreeQuarter float64
	Full         float64
	Roof         float64
}

// Area returns the verbatim area for a coverage level.
func (c CoverageSqft) Area(cov Coverage) float64 {
	switch cov {
	case CoverageHalf:
		return c.Half
	case CoverageThreeQuarter:
		return c.ThreeQuarter
	case CoverageFull:
		return c.Full
	}
	return 0
}

// LegacyVehicle is a flat (year, make, model) -> size class row.
type LegacyVehicle struct {
	Year  int
	Make  string
	Model string
	Size  SizeClass
}

// FindLegacy resolves a vehicle in the legacy table, preferring an exact
// year and falling back to any year of the same make and model.
func (c *Catalog) FindLegacy(year int, vehicleMake, model string) (SizeClass, CoverageSqft, bool) {
	var found *LegacyVehicle
	for i, v := range c.Legacy {
		if !strings.EqualFold(v.Make, vehicleMake) || !strings.EqualFold(v.Model, model) {
			continue
		}
		if year > 0 && v.Year == year {
			found = &c.Legacy[i]
			break
		}
		if found == nil {
			found = &c.Legacy[i]
		}
	}
	if found == nil {
		return "", CoverageSqft{}, false
	}
	sqft, ok := c.SizeSqft[found.Size]
	if !ok {
		return "", CoverageSqft{}, false
	}
	return found.Size, sqft, true
}

func defaultSizeSqft() map[SizeClass]CoverageSqft {
	return map[SizeClass]CoverageSqft{
		SizeSmallCar:  {Half: 90, ThreeQuarter: 135, Full: 180, Roof: 16},
		SizeMedCar:    {Half: 110, ThreeQuarter: 165, Full: 220, Roof: 18},
		SizeFullCar:   {Half: 130, ThreeQuarter: 195, Full: 260, Roof: 20},
		SizeSmTruck:   {Half: 100, ThreeQuarter: 150, Full: 200, Roof: 22},
		SizeMedTruck:  {Half: 125, ThreeQuarter: 188, Full: 250, Roof: 26},
		SizeFullTruck: {Half: 150, ThreeQuarter: 225, Full: 300, Roof: 30},
		SizeMedVan:    {Half: 120, ThreeQuarter: 180, Full: 240, Roof: 35},
		SizeLargeVan:  {Half: 155, ThreeQuarter: 233, Full: 310, Roof: 42},
		SizeXLVan:     {Half: 180, ThreeQuarter: 270, Full: 360, Roof: 48},
	}
}

func defaultLegacy() []LegacyVehicle {
	return []LegacyVehicle{
		{Year: 2020, Make: "Nissan", Model: "Altima", Size: SizeMedCar},
		{Year: 2022, Make: "Nissan", Model: "Altima", Size: SizeMedCar},
		{Year: 2021, Make: "Hyundai", Model: "Elantra", Size: SizeSmallCar},
		{Year: 2019, Make: "Dodge", Model: "Charger", Size: SizeFullCar},
		{Year: 2021, Make: "Nissan", Model: "Frontier", Size: SizeSmTruck},
		{Year: 2020, Make: "Chevrolet", Model: "Colorado", Size: SizeMedTruck},
		{Year: 2023, Make: "Chevrolet", Model: "Silverado", Size: SizeFullTruck},
		{Year: 2018, Make: "Nissan", Model: "NV200", Size: SizeMedVan},
		{Year: 2019, Make: "Nissan", Model: "NV3500", Size: SizeLargeVan},
		{Year: 2022, Make: "Chevrolet", Model: "Express", Size: SizeLargeVan},
		{Year: 2020, Make: "RAM", Model: "ProMaster", Size: SizeXLVan},
	}
}
