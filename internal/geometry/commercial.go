package geometry

import (
	"math"

	"github.com/wrapworks/estimator/internal/catalog"
)

const (
	// DefaultBoxHeightIn is the usual box height of a straight truck.
	DefaultBoxHeightIn = 96
	// BoxRearWidthFt is the width of a box truck's rear roll-up door.
	BoxRearWidthFt = 8
	// CabWrapSqft is the flat area added when the cab is wrapped too.
	CabWrapSqft = 56

	// TrailerEndWidthFt is the width of a trailer's front and rear panels.
	TrailerEndWidthFt = 8

	// MaterialRollWidthFt is the usable width of a 54" film roll.
	MaterialRollWidthFt = 4.5
	// DefaultMarinePasses is the number of film passes up a typical hull side.
	DefaultMarinePasses = 2
	// DefaultMarineWastePercent is the waste buffer new marine items start with.
	DefaultMarineWastePercent = 20
)

// BoxTruckJob quotes the box of a straight truck. Length is in feet and
// height in inches, the way box sizes are read off a spec sheet.
type BoxTruckJob struct {
	LengthFt float64 `json:"length_ft"`
	HeightIn float64 `json:"height_in"`
	Left     bool    `json:"left"`
	Right    bool    `json:"right"`
	Rear     bool    `json:"rear"`
	Cab      bool    `json:"cab"`
}

func measureBoxTruck(j BoxTruckJob) Measurement {
	m := Measurement{Type: BoxTruck}
	heightFt := nonNegative(j.HeightIn) / 12
	side := nonNegative(j.LengthFt) * heightFt

	var total float64
	if j.Left {
		total += side
		m.Lines = append(m.Lines, Line{Label: "Left Side", Sqft: roundSqft(side)})
	}
	if j.Right {
		total += side
		m.Lines = append(m.Lines, Line{Label: "Right Side", Sqft: roundSqft(side)})
	}
	if j.Rear {
		rear := BoxRearWidthFt * heightFt
		total += rear
		m.Lines = append(m.Lines, Line{Label: "Rear", Sqft: roundSqft(rear)})
	}
	if j.Cab {
		total += CabWrapSqft
		m.Lines = append(m.Lines, Line{Label: "Cab", Sqft: CabWrapSqft})
	}
	m.Area = roundSqft(total)
	return m
}

// FrontCoverage is how much of a trailer's front panel is wrapped.
type FrontCoverage string

const (
	FrontFull         FrontCoverage = "full"
	FrontThreeQuarter FrontCoverage = "threequarter"
	FrontHalf         FrontCoverage = "half"
)

// Fraction returns the share of the front panel covered.
func (c FrontCoverage) Fraction() float64 {
	switch c {
	case FrontThreeQuarter:
		return 0.75
	case FrontHalf:
		return 0.5
	}
	return 1
}

// VNoseMode selects how the tapered nose of an enclosed trailer is quoted.
type VNoseMode string

const (
	VNoseNone         VNoseMode = "none"
	VNoseHalfStandard VNoseMode = "half_standard"
	VNoseCustom       VNoseMode = "custom"
)

// TrailerJob quotes an enclosed trailer. All dimensions are in feet.
type TrailerJob struct {
	LengthFt      float64       `json:"length_ft"`
	HeightFt      float64       `json:"height_ft"`
	Left          bool          `json:"left"`
	Right         bool          `json:"right"`
	Front         bool          `json:"front"`
	Rear          bool          `json:"rear"`
	FrontCoverage FrontCoverage `json:"front_coverage"`
	VNose         VNoseMode     `json:"vnose"`
	VNoseHeightFt float64       `json:"vnose_height_ft,omitempty"`
	VNoseLengthFt float64       `json:"vnose_length_ft,omitempty"`
}

func measureTrailer(j TrailerJob) Measurement {
	m := Measurement{Type: Trailer}
	length, height := nonNegative(j.LengthFt), nonNegative(j.HeightFt)
	side := length * height

	var total float64
	if j.Left {
		total += side
		m.Lines = append(m.Lines, Line{Label: "Left Side", Sqft: roundSqft(side)})
	}
	if j.Right {
		total += side
		m.Lines = append(m.Lines, Line{Label: "Right Side", Sqft: roundSqft(side)})
	}
	if j.Front {
		front := TrailerEndWidthFt * height * j.FrontCoverage.Fraction()
		total += front
		m.Lines = append(m.Lines, Line{Label: "Front", Sqft: roundSqft(front)})
	}
	if j.Rear {
		rear := TrailerEndWidthFt * height
		total += rear
		m.Lines = append(m.Lines, Line{Label: "Rear", Sqft: roundSqft(rear)})
	}

	var vnose float64
	switch j.VNose {
	case VNoseHalfStandard:
		vnose = length * 0.5 * 2
	case VNoseCustom:
		if j.VNoseHeightFt > 0 && j.VNoseLengthFt > 0 {
			vnose = j.VNoseHeightFt * j.VNoseLengthFt
		}
	}
	if vnose > 0 {
		total += vnose
		m.Lines = append(m.Lines, Line{Label: "V-Nose", Sqft: roundSqft(vnose)})
	}

	m.Area = roundSqft(total)
	return m
}

// MarineJob quotes a boat hull wrapped on both sides.
type MarineJob struct {
	HullLengthFt float64 `json:"hull_length_ft"`
	HullHeightFt float64 `json:"hull_height_ft"`
	Passes       int     `json:"passes"`
	Transom      bool    `json:"transom"`
	WastePercent float64 `json:"waste_percent"`
}

func measureMarine(j MarineJob) Measurement {
	passes := j.Passes
	if passes <= 0 {
		passes = DefaultMarinePasses
	}

	length, height := nonNegative(j.HullLengthFt), nonNegative(j.HullHeightFt)
	net := 2 * length * height * float64(passes)
	order := roundSqft(net * (1 + nonNegative(j.WastePercent)/100))

	m := Measurement{
		Type:    Marine,
		NetArea: roundSqft(net),
		Lines: []Line{
			{Label: "Hull (net)", Sqft: roundSqft(net)},
			{Label: "Waste Buffer", Sqft: order - roundSqft(net)},
		},
	}
	area := order
	if j.Transom {
		transom := roundSqft(height * MaterialRollWidthFt)
		area += transom
		m.Lines = append(m.Lines, Line{Label: "Transom", Sqft: transom})
	}
	m.Area = area
	m.LinearFeet = LinearFeet(area)
	return m
}

// LinearFeet converts an area to feet of roll to order, rounded up to a
// tenth of a foot.
func LinearFeet(sqft float64) float64 {
	if sqft <= 0 {
		return 0
	}
	return math.Ceil(sqft/MaterialRollWidthFt*10) / 10
}

// PPFJob is a set of fixed paint protection packages.
type PPFJob struct {
	Packages []string `json:"packages"`
}

func measurePPF(cat *catalog.Catalog, j PPFJob) Measurement {
	fixed := &Fixed{}
	m := Measurement{Type: PPF, Fixed: fixed}
	seen := make(map[string]bool, len(j.Packages))
	for _, id := range j.Packages {
		if seen[id] {
			continue
		}
		seen[id] = true
		pkg, ok := cat.PPFPackage(id)
		if !ok {
			continue
		}
		fixed.Sale += pkg.Sale
		fixed.MaterialCost += pkg.MaterialCost
		fixed.LaborPay += pkg.LaborPay
		fixed.InstallHours += pkg.InstallHours
		m.Lines = append(m.Lines, Line{Label: pkg.Name})
	}
	return m
}
