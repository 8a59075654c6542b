package estimate

import (
	"slices"

	"github.com/wrapworks/estimator/internal/aggregate"
	"github.com/wrapworks/estimator/internal/commission"
	"github.com/wrapworks/estimator/internal/geometry"
	"github.com/wrapworks/estimator/internal/pricing"
	"github.com/wrapworks/estimator/internal/proposal"
)

// ItemView is a line item with everything derived from it.
type ItemView struct {
	Item        LineItem             `json:"item"`
	Measurement geometry.Measurement `json:"measurement"`
	Calc        pricing.Calc         `json:"calc"`
	Quality     pricing.Quality      `json:"quality"`
	Proposals   []string             `json:"proposals"`
}

func (e *Estimate) price(li *LineItem) (geometry.Measurement, pricing.Calc) {
	m := geometry.Measure(e.cat, li.Job)
	// The only error is ErrUnpriceable, which the calc also carries.
	calc, _ := pricing.Calculate(m, li.Pricing)
	return m, calc
}

// Calc prices one item from its current inputs. An item whose target cannot
// be solved comes back with Unpriceable set rather than an error.
func (e *Estimate) Calc(id string) (pricing.Calc, error) {
	li, _, err := e.find(id)
	if err != nil {
		return pricing.Calc{}, err
	}
	_, calc := e.price(li)
	return calc, nil
}

// View prices one item and reports where it is used.
func (e *Estimate) View(id string) (ItemView, error) {
	li, _, err := e.find(id)
	if err != nil {
		return ItemView{}, err
	}
	return e.view(li), nil
}

// Views prices every item in order.
func (e *Estimate) Views() []ItemView {
	out := make([]ItemView, 0, len(e.items))
	for _, li := range e.items {
		out = append(out, e.view(li))
	}
	return out
}

func (e *Estimate) view(li *LineItem) ItemView {
	m, calc := e.price(li)
	v := ItemView{Item: copyItem(li), Measurement: m, Calc: calc, Proposals: []string{}}
	if !calc.Unpriceable {
		v.Quality = pricing.Classify(calc.GrossMarginPercent, e.defaults.Thresholds)
	}
	for _, p := range e.proposals.Containing(li.ID) {
		v.Proposals = append(v.Proposals, p.ID)
	}
	return v
}

// Entry implements proposal.Items.
func (e *Estimate) Entry(id string) (aggregate.Entry, bool) {
	li, _, err := e.find(id)
	if err != nil {
		return aggregate.Entry{}, false
	}
	_, calc := e.price(li)
	return aggregate.Entry{Calc: calc, Optional: li.Optional}, true
}

// Totals sums the required items.
func (e *Estimate) Totals() aggregate.Totals {
	entries := make([]aggregate.Entry, 0, len(e.items))
	for _, li := range e.items {
		_, calc := e.price(li)
		entries = append(entries, aggregate.Entry{Calc: calc, Optional: li.Optional})
	}
	return aggregate.Sum(entries, aggregate.RequiredOnly)
}

// SelectionTotals sums the given items as a single job, optional or not.
// Unknown and repeated ids are skipped.
func (e *Estimate) SelectionTotals(ids []string) aggregate.Totals {
	seen := make([]string, 0, len(ids))
	entries := make([]aggregate.Entry, 0, len(ids))
	for _, id := range ids {
		if slices.Contains(seen, id) {
			continue
		}
		seen = append(seen, id)
		if entry, ok := e.Entry(id); ok {
			entries = append(entries, entry)
		}
	}
	return aggregate.Sum(entries, aggregate.AllSelected)
}

// RequiredIDs lists the items that are not optional, the default selection
// when converting an estimate to a job.
func (e *Estimate) RequiredIDs() []string {
	var ids []string
	for _, li := range e.items {
		if !li.Optional {
			ids = append(ids, li.ID)
		}
	}
	return ids
}

// Commission computes the rep's payout on one item.
func (e *Estimate) Commission(id string, source commission.Source) (commission.Result, error) {
	li, _, err := e.find(id)
	if err != nil {
		return commission.Result{}, err
	}
	_, calc := e.price(li)
	if calc.Unpriceable {
		return commission.Result{}, pricing.ErrUnpriceable
	}
	return commission.DefaultRules(e.defaults.Thresholds).Calculate(commission.Deal{
		Source:             source,
		GrossProfit:        calc.GrossProfit,
		GrossMarginPercent: calc.GrossMarginPercent,
		Completed:          li.FollowUpDone,
		Unprotected:        li.ProductType() == geometry.PPF,
	})
}

// Proposals returns the estimate's proposal grouper.
func (e *Estimate) Proposals() *proposal.Grouper { return e.proposals }

// ToggleProposalItem adds or removes an item from a proposal. Only live
// items can be added; a dangling id can still be toggled off.
func (e *Estimate) ToggleProposalItem(proposalID, itemID string) (bool, error) {
	p, err := e.proposals.Get(proposalID)
	if err != nil {
		return false, err
	}
	if !slices.Contains(p.Members, itemID) {
		if _, _, err := e.find(itemID); err != nil {
			return false, err
		}
	}
	return e.proposals.Toggle(proposalID, itemID)
}

// ProposalTotals sums a proposal's live members.
func (e *Estimate) ProposalTotals(proposalID string) (aggregate.Totals, error) {
	return e.proposals.Totals(proposalID, e)
}
