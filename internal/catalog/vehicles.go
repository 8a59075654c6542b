package catalog

// TierID names a wrap tier.
type TierID string

const (
	TierGood   TierID = "good"
	TierBetter TierID = "better"
	TierBest   TierID = "best"
)

// WrapTier is a preset panel selection. All selects every panel of the
// vehicle; otherwise PanelIDs lists the panels the tier covers.
type WrapTier struct {
	ID       TierID
	Name     string
	Label    string
	All      bool
	PanelIDs []string
}

// Tier returns the tier with the given id.
func (c *Catalog) Tier(id TierID) (WrapTier, bool) {
	for _, t := range c.Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return WrapTier{}, false
}

// ResolvePanels resolves the tier against a vehicle, dropping ids the vehicle
// does not have.
func (t WrapTier) ResolvePanels(v VehicleSpec) []string {
	ids := make([]string, 0, len(v.Panels))
	if t.All {
		for _, p := range v.Panels {
			ids = append(ids, p.ID)
		}
		return ids
	}
	for _, id := range t.PanelIDs {
		if _, ok := v.Panel(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func defaultTiers() []WrapTier {
	return []WrapTier{
		{
			ID: TierGood, Name: "Good", Label: "Partial Accent",
			PanelIDs: []string{"hood", "roof", "driver_mirror", "passenger_mirror"},
		},
		{
			ID: TierBetter, Name: "Better", Label: "Half / Commercial",
			PanelIDs: []string{
				"hood", "roof",
				"driver_front_door", "driver_rear_door",
				"passenger_front_door", "passenger_rear_door",
				"driver_mirror", "passenger_mirror",
			},
		},
		{ID: TierBest, Name: "Best", Label: "Full Wrap", All: true},
	}
}

var panelDefs = map[string]struct {
	label string
	group PanelGroup
}{
	"hood":                   {"Hood", GroupExterior},
	"roof":                   {"Roof", GroupExterior},
	"trunk":                  {"Trunk / Tailgate", GroupExterior},
	"driver_front_door":      {"Driver Front Door", GroupExterior},
	"driver_rear_door":       {"Driver Rear Door", GroupExterior},
	"passenger_front_door":   {"Passenger Front Door", GroupExterior},
	"passenger_rear_door":    {"Passenger Rear Door", GroupExterior},
	"front_bumper":           {"Front Bumper", GroupTrim},
	"rear_bumper":            {"Rear Bumper", GroupTrim},
	"driver_mirror":          {"Driver Mirror", GroupTrim},
	"passenger_mirror":       {"Passenger Mirror", GroupTrim},
	"driver_rocker":          {"Driver Rocker Panel", GroupTrim},
	"passenger_rocker":       {"Passenger Rocker Panel", GroupTrim},
	"a_pillars":              {"A-Pillars", GroupStructural},
	"b_pillars":              {"B-Pillars", GroupStructural},
	"c_pillars":              {"C-Pillars", GroupStructural},
	"spoiler":                {"Spoiler", GroupTrim},
	"fender_front_driver":    {"Front Fender (Driver)", GroupExterior},
	"fender_front_passenger": {"Front Fender (Pass.)", GroupExterior},
	"quarter_rear_driver":    {"Quarter Panel (Driver)", GroupExterior},
	"quarter_rear_passenger": {"Quarter Panel (Pass.)", GroupExterior},
	"cargo_driver_side":      {"Cargo Driver Side", GroupExterior},
	"cargo_passenger_side":   {"Cargo Passenger Side", GroupExterior},
	"cargo_rear_doors":       {"Cargo Rear Doors", GroupExterior},
	"box_driver_side":        {"Box Driver Side", GroupExterior},
	"box_passenger_side":     {"Box Passenger Side", GroupExterior},
	"box_rear":               {"Box Rear", GroupExterior},
	"box_roof":               {"Box Roof", GroupExterior},
	"cab_driver_side":        {"Cab Driver Side", GroupExterior},
	"cab_passenger_side":     {"Cab Passenger Side", GroupExterior},
	"bed_driver_side":        {"Bed Driver Side", GroupExterior},
	"bed_passenger_side":     {"Bed Passenger Side", GroupExterior},
}

func p(id string, sqft float64) Panel {
	def, ok := panelDefs[id]
	if !ok {
		return Panel{ID: id, Label: id, Sqft: sqft, Group: GroupExterior}
	}
	return Panel{ID: id, Label: def.label, Sqft: sqft, Group: def.group}
}

func defaultVehicles() []VehicleSpec {
	return []VehicleSpec{
		{
			Make: "Honda", Model: "Civic", YearStart: 2016, YearEnd: 2026,
			Category: "sedan", InstallHours: 14,
			Panels: []Panel{
				p("hood", 14), p("roof", 16), p("trunk", 10),
				p("driver_front_door", 14), p("driver_rear_door", 12),
				p("passenger_front_door", 14), p("passenger_rear_door", 12),
				p("front_bumper", 10), p("rear_bumper", 9),
				p("driver_mirror", 1), p("passenger_mirror", 1),
				p("driver_rocker", 4), p("passenger_rocker", 4),
				p("a_pillars", 2), p("b_pillars", 2), p("c_pillars", 2),
				p("spoiler", 2),
				p("fender_front_driver", 8), p("fender_front_passenger", 8),
				p("quarter_rear_driver", 10), p("quarter_rear_passenger", 10),
			},
		},
		{
			Make: "Toyota", Model: "Camry", YearStart: 2018, YearEnd: 2026,
			Category: "sedan", InstallHours: 16,
			Panels: []Panel{
				p("hood", 16), p("roof", 18), p("trunk", 12),
				p("driver_front_door", 15), p("driver_rear_door", 13),
				p("passenger_front_door", 15), p("passenger_rear_door", 13),
				p("front_bumper", 11), p("rear_bumper", 10),
				p("driver_mirror", 1.5), p("passenger_mirror", 1.5),
				p("driver_rocker", 5), p("passenger_rocker", 5),
				p("a_pillars", 2.5), p("b_pillars", 2.5), p("c_pillars", 2.5),
				p("spoiler", 2),
				p("fender_front_driver", 9), p("fender_front_passenger", 9),
				p("quarter_rear_driver", 11), p("quarter_rear_passenger", 11),
			},
		},
		{
			Make: "Tesla", Model: "Model 3", YearStart: 2017, YearEnd: 2026,
			Category: "sedan", InstallHours: 16,
			Panels: []Panel{
				p("hood", 18), p("roof", 20), p("trunk", 12),
				p("driver_front_door", 14), p("driver_rear_door", 12),
				p("passenger_front_door", 14), p("passenger_rear_door", 12),
				p("front_bumper", 12), p("rear_bumper", 10),
				p("driver_mirror", 1), p("passenger_mirror", 1),
				p("driver_rocker", 5), p("passenger_rocker", 5),
				p("a_pillars", 2), p("b_pillars", 2), p("c_pillars", 2),
				p("fender_front_driver", 9), p("fender_front_passenger", 9),
				p("quarter_rear_driver", 11), p("quarter_rear_passenger", 11),
			},
		},
		{
			Make: "Ford", Model: "F-150", YearStart: 2015, YearEnd: 2026,
			Category: "truck", InstallHours: 20,
			Panels: []Panel{
				p("hood", 22), p("roof", 28),
				p("driver_front_door", 17), p("driver_rear_door", 15),
				p("passenger_front_door", 17), p("passenger_rear_door", 15),
				p("front_bumper", 14), p("rear_bumper", 12),
				p("driver_mirror", 2), p("passenger_mirror", 2),
				p("driver_rocker", 7), p("passenger_rocker", 7),
				p("a_pillars", 3), p("b_pillars", 3), p("c_pillars", 2),
				p("fender_front_driver", 12), p("fender_front_passenger", 12),
				p("quarter_rear_driver", 14), p("quarter_rear_passenger", 14),
				p("bed_driver_side", 18), p("bed_passenger_side", 18),
				p("trunk", 10),
			},
		},
		{
			Make: "Ford", Model: "Transit", Variant: "Low Roof", YearStart: 2015, YearEnd: 2026,
			Category: "van", InstallHours: 22,
			Panels: []Panel{
				p("hood", 18), p("roof", 35),
				p("driver_front_door", 14), p("passenger_front_door", 14),
				p("cargo_driver_side", 42), p("cargo_passenger_side", 42),
				p("cargo_rear_doors", 28),
				p("front_bumper", 14), p("rear_bumper", 12),
				p("driver_mirror", 2), p("passenger_mirror", 2),
				p("driver_rocker", 8), p("passenger_rocker", 8),
				p("a_pillars", 3), p("b_pillars", 3),
				p("fender_front_driver", 10), p("fender_front_passenger", 10),
			},
		},
		{
			Make: "Ford", Model: "Transit", Variant: "Med Roof", YearStart: 2015, YearEnd: 2026,
			Category: "van", InstallHours: 26,
			Panels: []Panel{
				p("hood", 18), p("roof", 40),
				p("driver_front_door", 14), p("passenger_front_door", 14),
				p("cargo_driver_side", 52), p("cargo_passenger_side", 52),
				p("cargo_rear_doors", 32),
				p("front_bumper", 14), p("rear_bumper", 12),
				p("driver_mirror", 2), p("passenger_mirror", 2),
				p("driver_rocker", 8), p("passenger_rocker", 8),
				p("a_pillars", 3), p("b_pillars", 3),
				p("fender_front_driver", 10), p("fender_front_passenger", 10),
			},
		},
		{
			Make: "Mercedes-Benz", Model: "Sprinter", Variant: `144" WB`, YearStart: 2019, YearEnd: 2026,
			Category: "van", InstallHours: 26,
			Panels: []Panel{
				p("hood", 16), p("roof", 42),
				p("driver_front_door", 14), p("passenger_front_door", 14),
				p("cargo_driver_side", 48), p("cargo_passenger_side", 48),
				p("cargo_rear_doors", 34),
				p("front_bumper", 14), p("rear_bumper", 12),
				p("driver_mirror", 2), p("passenger_mirror", 2),
				p("driver_rocker", 8), p("passenger_rocker", 8),
				p("a_pillars", 3), p("b_pillars", 3),
				p("fender_front_driver", 9), p("fender_front_passenger", 9),
			},
		},
		{
			Make: "Isuzu", Model: "NPR", YearStart: 2016, YearEnd: 2026,
			Category: "box_truck", InstallHours: 24,
			Panels: []Panel{
				p("hood", 14), p("cab_driver_side", 18), p("cab_passenger_side", 18),
				p("box_driver_side", 80), p("box_passenger_side", 80),
				p("box_rear", 48), p("box_roof", 75),
				p("front_bumper", 10),
				p("driver_mirror", 2), p("passenger_mirror", 2),
			},
		},
	}
}
