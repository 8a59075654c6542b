package estimate

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/wrapworks/estimator/internal/geometry"
	"github.com/wrapworks/estimator/internal/pricing"
)

// LineItem is one quoted product. It holds inputs only; prices are derived
// on every read.
type LineItem struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Job      geometry.Job   `json:"-"`
	Material string         `json:"material"`
	Pricing  pricing.Inputs `json:"pricing"`
	Optional bool           `json:"optional"`
	// LaborRate names the standard install rate the labor was taken from.
	LaborRate string `json:"labor_rate,omitempty"`
	// FollowUpDone records that the rep finished the follow-up process,
	// which raises their commission rate.
	FollowUpDone bool `json:"follow_up_done,omitempty"`
}

// ProductType returns the type of the item's job.
func (li LineItem) ProductType() geometry.ProductType {
	if li.Job == nil {
		return ""
	}
	return li.Job.ProductType()
}

type lineItemJSON struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Type         geometry.ProductType `json:"type"`
	Job          json.RawMessage      `json:"job"`
	Material     string               `json:"material"`
	Pricing      pricing.Inputs       `json:"pricing"`
	Optional     bool                 `json:"optional"`
	LaborRate    string               `json:"labor_rate,omitempty"`
	FollowUpDone bool                 `json:"follow_up_done,omitempty"`
}

// MarshalJSON writes the job inline with its type tag.
func (li LineItem) MarshalJSON() ([]byte, error) {
	if li.Job == nil {
		return nil, fmt.Errorf("line item %s has no job", li.ID)
	}
	job, err := json.Marshal(li.Job)
	if err != nil {
		return nil, fmt.Errorf("marshal job of %s: %w", li.ID, err)
	}
	return json.Marshal(lineItemJSON{
		ID:           li.ID,
		Name:         li.Name,
		Type:         li.Job.ProductType(),
		Job:          job,
		Material:     li.Material,
		Pricing:      li.Pricing,
		Optional:     li.Optional,
		LaborRate:    li.LaborRate,
		FollowUpDone: li.FollowUpDone,
	})
}

// UnmarshalJSON reads what MarshalJSON writes.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	job, err := geometry.DecodeTyped(raw.Type, raw.Job)
	if err != nil {
		return err
	}
	*li = LineItem{
		ID:           raw.ID,
		Name:         raw.Name,
		Job:          job,
		Material:     raw.Material,
		Pricing:      raw.Pricing,
		Optional:     raw.Optional,
		LaborRate:    raw.LaborRate,
		FollowUpDone: raw.FollowUpDone,
	}
	return nil
}

func defaultName(t geometry.ProductType) string {
	switch t {
	case geometry.Vehicle:
		return "Commercial Vehicle"
	case geometry.BoxTruck:
		return "Box Truck"
	case geometry.Trailer:
		return "Trailer"
	case geometry.Marine:
		return "Marine"
	case geometry.PPF:
		return "Paint Protection Film"
	case geometry.Decking:
		return "Decking"
	case geometry.WallWrap:
		return "Wall Wrap"
	case geometry.Signage:
		return "Signage"
	case geometry.Apparel:
		return "Apparel"
	case geometry.Print:
		return "Print"
	}
	return "Custom"
}

// cloneJob copies the slices a job carries so edits to a duplicate stay put.
func cloneJob(job geometry.Job) geometry.Job {
	switch j := job.(type) {
	case geometry.VehicleJob:
		j.Panels = slices.Clone(j.Panels)
		return j
	case geometry.PPFJob:
		j.Packages = slices.Clone(j.Packages)
		return j
	}
	return job
}
