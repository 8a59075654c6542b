// Package proposal groups line items into named customer-facing options.
//
// Proposals hold line item ids by weak reference: removing a line item never
// touches a proposal, and ids that no longer resolve are filtered when the
// proposal is read.
package proposal

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/wrapworks/estimator/internal/aggregate"
)

var ErrNotFound = errors.New("proposal not found")

// Proposal is a named subset of line items.
type Proposal struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Members []string `json:"members"`
}

// Items resolves line item ids to priced entries.
type Items interface {
	Entry(itemID string) (aggregate.Entry, bool)
}

// Grouper owns the proposals of one estimate.
type Grouper struct {
	proposals []*Proposal
}

// NewGrouper returns a grouper holding copies of ps.
func NewGrouper(ps ...Proposal) *Grouper {
	g := &Grouper{}
	for _, p := range ps {
		p.Members = slices.Clone(p.Members)
		g.proposals = append(g.proposals, &p)
	}
	return g
}

// Label returns the automatic label for the n-th proposal, counting from 0.
func Label(n int) string {
	if n >= 0 && n < 26 {
		return "Option " + string(rune('A'+n))
	}
	return fmt.Sprintf("Option %d", n+1)
}

// Create adds an empty proposal. A blank label gets the next automatic one.
func (g *Grouper) Create(label string) Proposal {
	label = strings.TrimSpace(label)
	if label == "" {
		label = Label(len(g.proposals))
	}
	p := &Proposal{ID: uuid.NewString(), Label: label, Members: []string{}}
	g.proposals = append(g.proposals, p)
	return clone(p)
}

func (g *Grouper) find(id string) (*Proposal, int, error) {
	for i, p := range g.proposals {
		if p.ID == id {
			return p, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Rename changes a proposal's label.
func (g *Grouper) Rename(id, label string) (Proposal, error) {
	p, _, err := g.find(id)
	if err != nil {
		return Proposal{}, err
	}
	if label = strings.TrimSpace(label); label != "" {
		p.Label = label
	}
	return clone(p), nil
}

// Delete removes a proposal. Its line items are untouched.
func (g *Grouper) Delete(id string) error {
	_, i, err := g.find(id)
	if err != nil {
		return err
	}
	g.proposals = slices.Delete(g.proposals, i, i+1)
	return nil
}

// Toggle adds itemID to the proposal or removes it if present, and reports
// whether the item is now a member.
func (g *Grouper) Toggle(id, itemID string) (bool, error) {
	p, _, err := g.find(id)
	if err != nil {
		return false, err
	}
	if i := slices.Index(p.Members, itemID); i >= 0 {
		p.Members = slices.Delete(p.Members, i, i+1)
		return false, nil
	}
	p.Members = append(p.Members, itemID)
	return true, nil
}

// Get returns one proposal as stored, dangling ids included.
func (g *Grouper) Get(id string) (Proposal, error) {
	p, _, err := g.find(id)
	if err != nil {
		return Proposal{}, err
	}
	return clone(p), nil
}

// List returns every proposal in creation order.
func (g *Grouper) List() []Proposal {
	out := make([]Proposal, 0, len(g.proposals))
	for _, p := range g.proposals {
		out = append(out, clone(p))
	}
	return out
}

// Containing lists the proposals itemID belongs to.
func (g *Grouper) Containing(itemID string) []Proposal {
	var out []Proposal
	for _, p := range g.proposals {
		if slices.Contains(p.Members, itemID) {
			out = append(out, clone(p))
		}
	}
	return out
}

// Members returns the member entries of a proposal that still resolve.
func (g *Grouper) Members(id string, items Items) ([]string, []aggregate.Entry, error) {
	p, _, err := g.find(id)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(p.Members))
	entries := make([]aggregate.Entry, 0, len(p.Members))
	for _, itemID := range p.Members {
		e, ok := items.Entry(itemID)
		if !ok {
			continue
		}
		ids = append(ids, itemID)
		entries = append(entries, e)
	}
	return ids, entries, nil
}

// Totals sums a proposal's live members. Every member counts, including
// items marked optional on the estimate.
func (g *Grouper) Totals(id string, items Items) (aggregate.Totals, error) {
	_, entries, err := g.Members(id, items)
	if err != nil {
		return aggregate.Totals{}, err
	}
	return aggregate.Sum(entries, aggregate.AllSelected), nil
}

func clone(p *Proposal) Proposal {
	c := *p
	c.Members = slices.Clone(p.Members)
	return c
}
