// Package geometry turns a physical job description into a quoted quantity:
// square footage for film products, or summed catalog values for PPF.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wrapworks/estimator/internal/catalog"
)

// ProductType is the closed set of things a line item can quote.
type ProductType string

const (
	Vehicle  ProductType = "vehicle"
	BoxTruck ProductType = "boxtruck"
	Trailer  ProductType = "trailer"
	Marine   ProductType = "marine"
	PPF      ProductType = "ppf"
	Custom   ProductType = "custom"
	Decking  ProductType = "decking"
	WallWrap ProductType = "wallwrap"
	Signage  ProductType = "signage"
	Apparel  ProductType = "apparel"
	Print    ProductType = "print"
)

var productTypes = []ProductType{
	Vehicle, BoxTruck, Trailer, Marine, PPF,
	Custom, Decking, WallWrap, Signage, Apparel, Print,
}

// ProductTypes lists every product type in display order.
func ProductTypes() []ProductType {
	return append([]ProductType(nil), productTypes...)
}

// ParseProductType validates s.
func ParseProductType(s string) (ProductType, error) {
	for _, t := range productTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown product type %q", s)
}

// IsAreaEntry reports whether the type is quoted from a caller-entered area.
func (t ProductType) IsAreaEntry() bool {
	switch t {
	case Custom, Decking, WallWrap, Signage, Apparel, Print:
		return true
	}
	return false
}

// Job is the type-specific input of a line item. The set of implementations
// is closed: VehicleJob, BoxTruckJob, TrailerJob, MarineJob, PPFJob and
// CustomJob.
type Job interface {
	ProductType() ProductType
	sealed()
}

func (VehicleJob) sealed()  {}
func (BoxTruckJob) sealed() {}
func (TrailerJob) sealed()  {}
func (MarineJob) sealed()   {}
func (PPFJob) sealed()      {}
func (CustomJob) sealed()   {}

func (VehicleJob) ProductType() ProductType  { return Vehicle }
func (BoxTruckJob) ProductType() ProductType { return BoxTruck }
func (TrailerJob) ProductType() ProductType  { return Trailer }
func (MarineJob) ProductType() ProductType   { return Marine }
func (PPFJob) ProductType() ProductType      { return PPF }

// ProductType returns the custom family member the job was created as.
func (j CustomJob) ProductType() ProductType {
	if j.Type.IsAreaEntry() {
		return j.Type
	}
	return Custom
}

// Defaults of a new vehicle job. The box truck and marine defaults sit with
// their calculators.
const (
	DefaultVehicleTier     = catalog.TierBest
	DefaultVehicleCoverage = catalog.CoverageFull
)

// NewJob returns the default job for a product type.
func NewJob(t ProductType) (Job, error) {
	switch t {
	case Vehicle:
		return VehicleJob{Tier: DefaultVehicleTier, Coverage: DefaultVehicleCoverage}, nil
	case BoxTruck:
		return BoxTruckJob{HeightIn: DefaultBoxHeightIn, Left: true, Right: true}, nil
	case Trailer:
		return TrailerJob{Left: true, Right: true, FrontCoverage: FrontFull, VNose: VNoseNone}, nil
	case Marine:
		return MarineJob{Passes: DefaultMarinePasses, WastePercent: DefaultMarineWastePercent}, nil
	case PPF:
		return PPFJob{}, nil
	}
	if t.IsAreaEntry() {
		return CustomJob{Type: t}, nil
	}
	return nil, fmt.Errorf("unknown product type %q", t)
}

type envelope struct {
	Type ProductType     `json:"type"`
	Job  json.RawMessage `json:"job"`
}

// Encode serializes a job with its type tag.
func Encode(job Job) ([]byte, error) {
	raw, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal %s job: %w", job.ProductType(), err)
	}
	return json.Marshal(envelope{Type: job.ProductType(), Job: raw})
}

// Decode reads a job written by Encode.
func Decode(data []byte) (Job, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal job envelope: %w", err)
	}
	return DecodeTyped(env.Type, env.Job)
}

// DecodeTyped reads the untagged job body of the given type. An empty body
// yields the type's default job.
func DecodeTyped(t ProductType, body []byte) (Job, error) {
	base, err := NewJob(t)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 || string(body) == "null" {
		return base, nil
	}

	var job Job
	switch j := base.(type) {
	case VehicleJob:
		err = json.Unmarshal(body, &j)
		job = j
	case BoxTruckJob:
		err = json.Unmarshal(body, &j)
		job = j
	case TrailerJob:
		err = json.Unmarshal(body, &j)
		job = j
	case MarineJob:
		err = json.Unmarshal(body, &j)
		job = j
	case PPFJob:
		err = json.Unmarshal(body, &j)
		job = j
	case CustomJob:
		err = json.Unmarshal(body, &j)
		j.Type = t
		job = j
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s job: %w", t, err)
	}
	return job, nil
}

// ErrNegativeDimension is returned by Validate for a job with a dimension
// below zero.
var ErrNegativeDimension = errors.New("dimensions must not be negative")

// Validate reports every negative dimension of job. Measure clamps them to
// zero; Validate lets callers reject them up front.
func Validate(job Job) error {
	var fields []string
	check := func(name string, v float64) {
		if v < 0 {
			fields = append(fields, name)
		}
	}
	switch j := job.(type) {
	case BoxTruckJob:
		check("length_ft", j.LengthFt)
		check("height_in", j.HeightIn)
	case TrailerJob:
		check("length_ft", j.LengthFt)
		check("height_ft", j.HeightFt)
		check("vnose_height_ft", j.VNoseHeightFt)
		check("vnose_length_ft", j.VNoseLengthFt)
	case MarineJob:
		check("hull_length_ft", j.HullLengthFt)
		check("hull_height_ft", j.HullHeightFt)
		check("passes", float64(j.Passes))
		check("waste_percent", j.WastePercent)
	case CustomJob:
		check("sqft", j.Sqft)
	}
	if len(fields) > 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDimension, strings.Join(fields, ", "))
	}
	return nil
}
