package geometry

import (
	"slices"

	"github.com/wrapworks/estimator/internal/catalog"
)

// VehicleJob quotes a car, truck or van.
//
// When the vehicle is in the panel database the tier picks the default
// panels and Panels, once set, replaces that default. Otherwise the legacy
// size table supplies one of three coverage areas and an optional roof.
type VehicleJob struct {
	Year    int    `json:"year,omitempty"`
	Make    string `json:"make"`
	Model   string `json:"model"`
	Variant string `json:"variant,omitempty"`

	Tier   catalog.TierID `json:"tier"`
	Panels []string       `json:"panels,omitempty"`

	Coverage    catalog.Coverage `json:"coverage"`
	IncludeRoof bool             `json:"include_roof,omitempty"`
}

// SelectedPanels returns the panel ids the job covers on spec.
func (j VehicleJob) SelectedPanels(cat *catalog.Catalog, spec catalog.VehicleSpec) []string {
	if j.Panels != nil {
		ids := make([]string, 0, len(j.Panels))
		for _, id := range j.Panels {
			if _, ok := spec.Panel(id); ok && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		return ids
	}
	tier, ok := cat.Tier(j.Tier)
	if !ok {
		tier, _ = cat.Tier(DefaultVehicleTier)
	}
	return tier.ResolvePanels(spec)
}

// TogglePanel flips one panel, materializing the tier default first so the
// explicit selection starts from what the customer saw.
func (j VehicleJob) TogglePanel(cat *catalog.Catalog, id string) VehicleJob {
	spec, ok := cat.FindVehicle(j.Make, j.Model, j.Variant, j.Year)
	if !ok {
		return j
	}
	if _, ok := spec.Panel(id); !ok {
		return j
	}
	selected := j.SelectedPanels(cat, spec)
	if i := slices.Index(selected, id); i >= 0 {
		selected = slices.Delete(selected, i, i+1)
	} else {
		selected = append(selected, id)
	}
	j.Panels = selected
	return j
}

// WithTier switches the tier and drops any explicit panel selection.
func (j VehicleJob) WithTier(tier catalog.TierID) VehicleJob {
	j.Tier = tier
	j.Panels = nil
	return j
}

func measureVehicle(cat *catalog.Catalog, j VehicleJob) Measurement {
	m := Measurement{Type: Vehicle, Source: SourceNone}

	if spec, ok := cat.FindVehicle(j.Make, j.Model, j.Variant, j.Year); ok {
		m.Source = SourcePanels
		m.InstallHours = spec.InstallHours
		for _, id := range j.SelectedPanels(cat, spec) {
			panel, _ := spec.Panel(id)
			m.Area += panel.Sqft
			m.Lines = append(m.Lines, Line{Label: panel.Label, Sqft: panel.Sqft})
		}
		return m
	}

	size, sqft, ok := cat.FindLegacy(j.Year, j.Make, j.Model)
	if !ok {
		return m
	}
	m.Source = SourceLegacy
	m.SizeClass = size
	coverage := j.Coverage
	if coverage == "" {
		coverage = DefaultVehicleCoverage
	}
	area := sqft.Area(coverage)
	m.Area = area
	m.Lines = append(m.Lines, Line{Label: coverageLabel(coverage), Sqft: area})
	if j.IncludeRoof && sqft.Roof > 0 {
		m.Area += sqft.Roof
		m.Lines = append(m.Lines, Line{Label: "Roof", Sqft: sqft.Roof})
	}
	return m
}

func coverageLabel(c catalog.Coverage) string {
	switch c {
	case catalog.CoverageHalf:
		return "Half Wrap"
	case catalog.CoverageThreeQuarter:
		return "3/4 Wrap"
	}
	return "Full Wrap"
}
