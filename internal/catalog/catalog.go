// Package catalog holds the static reference data the estimator reads: the
// vehicle panel database, the legacy size-class table, material rates,
// standard install rates and the fixed PPF packages.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownMaterial is returned when a material id is not in the catalog.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrUnknownLaborRate is returned when no standard labor rate has the
	// given name.
	ErrUnknownLaborRate = errors.New("unknown labor rate")
)

// PanelGroup classifies a vehicle panel.
type PanelGroup string

const (
	GroupExterior   PanelGroup = "exterior"
	GroupTrim       PanelGroup = "trim"
	GroupStructural PanelGroup = "structural"
)

// Panel is one wrappable surface of a vehicle with a fixed area.
type Panel struct {
	ID    string
	Label string
	Sqft  float64
	Group PanelGroup
}

// VehicleSpec is a catalog entry with per-panel areas.
type VehicleSpec struct {
	Make         string
	Model        string
	Variant      string
	YearStart    int
	YearEnd      int
	Category     string
	InstallHours float64
	Panels       []Panel
}

// TotalSqft sums every panel of the vehicle.
func (v VehicleSpec) TotalSqft() float64 {
	var total float64
	for _, p := range v.Panels {
		total += p.Sqft
	}
	return total
}

// Panel returns the panel with the given id.
func (v VehicleSpec) Panel(id string) (Panel, bool) {
	for _, p := range v.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

// Material is a wrap film with a cost per square foot.
type Material struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// LaborRate is a standard flat install pay for a vehicle class.
type LaborRate struct {
	Name  string  `json:"name"`
	Pay   float64 `json:"pay"`
	Hours float64 `json:"hours"`
	Class string  `json:"class"`
}

// PPFPackage is a fixed-price paint protection film package.
type PPFPackage struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Sale         float64 `json:"sale"`
	MaterialCost float64 `json:"material_cost"`
	LaborPay     float64 `json:"labor_pay"`
	InstallHours float64 `json:"install_hours"`
}

// Catalog bundles every static table. The zero value is empty; use Default
// for the built-in data.
type Catalog struct {
	Vehicles    []VehicleSpec
	Tiers       []WrapTier
	Legacy      []LegacyVehicle
	SizeSqft    map[SizeClass]CoverageSqft
	Materials   []Material
	LaborRates  []LaborRate
	PPFPackages []PPFPackage
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Vehicles:    defaultVehicles(),
		Tiers:       defaultTiers(),
		Legacy:      defaultLegacy(),
		SizeSqft:    defaultSizeSqft(),
		Materials:   defaultMaterials(),
		LaborRates:  defaultLaborRates(),
		PPFPackages: defaultPPFPackages(),
	}
}

// WithMaterials returns a shallow copy of c whose material table is ms.
func (c *Catalog) WithMaterials(ms []Material) *Catalog {
	cp := *c
	cp.Materials = append([]Material(nil), ms...)
	return &cp
}

// FindVehicle looks up a panel spec. A year inside the spec's range wins;
// otherwise any year of the same make, model and variant matches.
func (c *Catalog) FindVehicle(vehicleMake, model, variant string, year int) (VehicleSpec, bool) {
	match := func(v VehicleSpec) bool {
		return strings.EqualFold(v.Make, vehicleMake) &&
			strings.EqualFold(v.Model, model) &&
			strings.EqualFold(v.Variant, variant)
	}
	if year > 0 {
		for _, v := range c.Vehicles {
			if match(v) && year >= v.YearStart && year <= v.YearEnd {
				return v, true
			}
		}
	}
	for _, v := range c.Vehicles {
		if match(v) {
			return v, true
		}
	}
	return VehicleSpec{}, false
}

// Makes lists the distinct makes of the panel database and the legacy table.
func (c *Catalog) Makes() []string {
	seen := map[string]bool{}
	for _, v := range c.Vehicles {
		seen[v.Make] = true
	}
	for _, v := range c.Legacy {
		seen[v.Make] = true
	}
	makes := make([]string, 0, len(seen))
	for m := range seen {
		makes = append(makes, m)
	}
	sort.Strings(makes)
	return makes
}

// ModelRef names a model and optional variant.
type ModelRef struct {
	Model   string `json:"model"`
	Variant string `json:"variant,omitempty"`
	Legacy  bool   `json:"legacy"`
}

// ModelsForMake lists the models known for a make, panel entries first.
func (c *Catalog) ModelsForMake(vehicleMake string) []ModelRef {
	seen := map[string]bool{}
	refs := make([]ModelRef, 0)
	for _, v := range c.Vehicles {
		if !strings.EqualFold(v.Make, vehicleMake) {
			continue
		}
		key := v.Model + "|" + v.Variant
		if seen[key] {
			continue
		}
		seen[key] = true
		refs = append(refs, ModelRef{Model: v.Model, Variant: v.Variant})
	}
	for _, v := range c.Legacy {
		if !strings.EqualFold(v.Make, vehicleMake) || seen[v.Model+"|"] {
			continue
		}
		seen[v.Model+"|"] = true
		refs = append(refs, ModelRef{Model: v.Model, Legacy: true})
	}
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Model != refs[j].Model {
			return refs[i].Model < refs[j].Model
		}
		return refs[i].Variant < refs[j].Variant
	})
	return refs
}

// Material returns the material with the given id.
func (c *Catalog) Material(id string) (Material, error) {
	for _, m := range c.Materials {
		if m.ID == id {
			return m, nil
		}
	}
	return Material{}, fmt.Errorf("%w: %s", ErrUnknownMaterial, id)
}

// LaborRate returns the standard labor rate with the given name, ignoring
// case.
func (c *Catalog) LaborRate(name string) (LaborRate, error) {
	name = strings.TrimSpace(name)
	for _, r := range c.LaborRates {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return LaborRate{}, fmt.Errorf("%w: %s", ErrUnknownLaborRate, name)
}

// PPFPackage returns the package with the given id.
func (c *Catalog) PPFPackage(id string) (PPFPackage, bool) {
	for _, p := range c.PPFPackages {
		if p.ID == id {
			return p, true
		}
	}
	return PPFPackage{}, false
}
