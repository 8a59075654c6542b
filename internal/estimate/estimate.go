// Package estimate holds one organization's working estimate: its line
// items, their derived prices and the proposals built from them.
//
// An Estimate is not safe for concurrent use. Callers own one at a time and
// persist it through the store, where the last write wins.
package estimate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/geometry"
	"github.com/wrapworks/estimator/internal/pricing"
	"github.com/wrapworks/estimator/internal/proposal"
)

var (
	ErrItemNotFound = errors.New("line item not found")
	ErrNoOrg        = errors.New("organization id is required")
)

// Estimate is a collection of line items and proposals owned by one org.
type Estimate struct {
	ID    string
	OrgID string
	Name  string

	cat        *catalog.Catalog
	defaults   Defaults
	items      []*LineItem
	proposals  *proposal.Grouper
}

// Option configures an Estimate.
type Option func(*Estimate)

// New starts an empty estimate for orgID.
func New(orgID string, cat *catalog.Catalog, opts ...Option) (*Estimate, error) {
	return newEstimate(uuid.NewString(), orgID, cat, opts)
}

func newEstimate(id, orgID string, cat *catalog.Catalog, opts []Option) (*Estimate, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrNoOrg
	}
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Estimate{
		ID:         id,
		OrgID:      orgID,
		cat:        cat,
		defaults:   ShopDefaults(),
		proposals:  proposal.NewGrouper(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Snapshot is the persisted form of an estimate: inputs only.
type Snapshot struct {
	ID        string              `json:"id"`
	OrgID     string              `json:"org_id"`
	Name      string              `json:"name"`
	Items     []LineItem          `json:"items"`
	Proposals []proposal.Proposal `json:"proposals"`
}

// Restore rebuilds an estimate from a snapshot.
func Restore(s Snapshot, cat *catalog.Catalog, opts ...Option) (*Estimate, error) {
	e, err := newEstimate(s.ID, s.OrgID, cat, opts)
	if err != nil {
		return nil, err
	}
	e.Name = s.Name
	for _, li := range s.Items {
		if li.Job == nil {
			return nil, fmt.Errorf("restore item %s: missing job", li.ID)
		}
		li.Job = cloneJob(li.Job)
		e.items = append(e.items, &li)
	}
	e.proposals = proposal.NewGrouper(s.Proposals...)
	return e, nil
}

// Snapshot copies the estimate's inputs.
func (e *Estimate) Snapshot() Snapshot {
	return Snapshot{
		ID:        e.ID,
		OrgID:     e.OrgID,
		Name:      e.Name,
		Items:     e.Items(),
		Proposals: e.proposals.List(),
	}
}

// Catalog returns the catalog the estimate prices against.
func (e *Estimate) Catalog() *catalog.Catalog { return e.cat }

// Thresholds returns the margin cutoffs in effect.
func (e *Estimate) Thresholds() pricing.Thresholds { return e.defaults.Thresholds }

// AddItem appends a line item of type t with shop defaults.
func (e *Estimate) AddItem(t geometry.ProductType) (LineItem, error) {
	job, err := geometry.NewJob(t)
	if err != nil {
		return LineItem{}, err
	}
	li := &LineItem{
		ID:   uuid.NewString(),
		Name: defaultName(t),
		Job:  job,
		Pricing: e.defaults.inputs(),
	}
	if t == geometry.PPF {
		li.Pricing.DesignFee = 0
	} else if mat, ok := e.defaultMaterial(); ok {
		li.Material = mat.ID
		li.Pricing.MaterialRate = mat.Rate
	}
	e.items = append(e.items, li)
	return copyItem(li), nil
}

// defaultMaterial picks the default film, or the first one an org with its
// own material table lists.
func (e *Estimate) defaultMaterial() (catalog.Material, bool) {
	if mat, err := e.cat.Material(e.defaults.MaterialID); err == nil {
		return mat, true
	}
	if len(e.cat.Materials) > 0 {
		return e.cat.Materials[0], true
	}
	return catalog.Material{}, false
}

func (e *Estimate) find(id string) (*LineItem, int, error) {
	for i, li := range e.items {
		if li.ID == id {
			return li, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// Item returns a copy of one line item.
func (e *Estimate) Item(id string) (LineItem, error) {
	li, _, err := e.find(id)
	if err != nil {
		return LineItem{}, err
	}
	return copyItem(li), nil
}

// Items returns copies of every line item in order.
func (e *Estimate) Items() []LineItem {
	out := make([]LineItem, 0, len(e.items))
	for _, li := range e.items {
		out = append(out, copyItem(li))
	}
	return out
}

// Update applies fn to a copy of the item and keeps the result. The id
// cannot be changed and the job cannot be cleared.
func (e *Estimate) Update(id string, fn func(*LineItem)) (LineItem, error) {
	li, _, err := e.find(id)
	if err != nil {
		return LineItem{}, err
	}
	next := copyItem(li)
	fn(&next)
	next.ID = li.ID
	if next.Job == nil {
		return LineItem{}, fmt.Errorf("update %s: job is required", id)
	}
	*li = next
	return copyItem(li), nil
}

// SetMaterial switches the item's film and picks up its catalog rate.
func (e *Estimate) SetMaterial(id, materialID string) (LineItem, error) {
	mat, err := e.cat.Material(materialID)
	if err != nil {
		return LineItem{}, err
	}
	return e.Update(id, func(li *LineItem) {
		li.Material = mat.ID
		li.Pricing.MaterialRate = mat.Rate
	})
}

// SetLaborRate prices the item's labor as the flat pay of a standard rate
// and takes its install hours. A blank name drops the rate and its hours but
// leaves the labor amount as it is.
func (e *Estimate) SetLaborRate(id, name string) (LineItem, error) {
	if strings.TrimSpace(name) == "" {
		return e.Update(id, func(li *LineItem) {
			li.LaborRate = ""
			li.Pricing.InstallHours = 0
		})
	}
	rate, err := e.cat.LaborRate(name)
	if err != nil {
		return LineItem{}, err
	}
	return e.Update(id, func(li *LineItem) {
		li.LaborRate = rate.Name
		li.Pricing.LaborMode = pricing.LaborFlatAmount
		li.Pricing.LaborFlat = rate.Pay
		li.Pricing.InstallHours = rate.Hours
	})
}

// SetManualSale pins the item's sale price.
func (e *Estimate) SetManualSale(id string, price float64) (LineItem, error) {
	return e.Update(id, func(li *LineItem) {
		li.Pricing.ManualSale = true
		li.Pricing.ManualSalePrice = price
	})
}

// ClearManualSale returns the item to solving its price from the target.
func (e *Estimate) ClearManualSale(id string) (LineItem, error) {
	return e.Update(id, func(li *LineItem) {
		li.Pricing.ManualSale = false
		li.Pricing.ManualSalePrice = 0
	})
}

// Remove deletes a line item. Proposals that reference it are left alone.
func (e *Estimate) Remove(id string) error {
	_, i, err := e.find(id)
	if err != nil {
		return err
	}
	e.items = slices.Delete(e.items, i, i+1)
	return nil
}

// Duplicate inserts a copy of the item right after it.
func (e *Estimate) Duplicate(id string) (LineItem, error) {
	li, i, err := e.find(id)
	if err != nil {
		return LineItem{}, err
	}
	dup := copyItem(li)
	dup.ID = uuid.NewString()
	dup.Name = li.Name + " (Copy)"
	e.items = slices.Insert(e.items, i+1, &dup)
	return copyItem(&dup), nil
}

func copyItem(li *LineItem) LineItem {
	c := *li
	c.Job = cloneJob(li.Job)
	return c
}
