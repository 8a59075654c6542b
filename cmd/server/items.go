package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/commission"
	"github.com/wrapworks/estimator/internal/estimate"
	"github.com/wrapworks/estimator/internal/geometry"
	"github.com/wrapworks/estimator/internal/pricing"
)

// itemPatch changes the fields it sets and leaves the rest alone. Job
// replaces the whole job and is read as the item's product type. A labor
// rate overrides labor set in the same patch; a blank one drops the rate.
type itemPatch struct {
	Name         *string         `json:"name"`
	Optional     *bool           `json:"optional"`
	FollowUpDone *bool           `json:"follow_up_done"`
	Material     *string         `json:"material"`
	LaborRate    *string         `json:"labor_rate"`
	Job          json.RawMessage `json:"job"`
	Pricing      *pricingPatch   `json:"pricing"`
}

type pricingPatch struct {
	MaterialRate        *float64           `json:"material_rate"`
	DesignFee           *float64           `json:"design_fee"`
	LaborMode           *pricing.LaborMode `json:"labor_mode"`
	LaborPercent        *float64           `json:"labor_percent"`
	LaborFlat           *float64           `json:"labor_flat"`
	TargetMarginPercent *float64           `json:"target_margin_percent"`
	ManualSale          *bool              `json:"manual_sale"`
	ManualSalePrice     *float64           `json:"manual_sale_price"`
}

func (p *pricingPatch) validate() error {
	if p == nil {
		return nil
	}
	if p.LaborMode != nil && *p.LaborMode != pricing.LaborPercentOfSale && *p.LaborMode != pricing.LaborFlatAmount {
		return badRequest("labor_mode must be %q or %q", pricing.LaborPercentOfSale, pricing.LaborFlatAmount)
	}
	if v := p.TargetMarginPercent; v != nil && (*v < 0 || *v >= 100) {
		return badRequest("target_margin_percent must be at least 0 and below 100")
	}
	for name, v := range map[string]*float64{
		"material_rate":     p.MaterialRate,
		"design_fee":        p.DesignFee,
		"labor_percent":     p.LaborPercent,
		"labor_flat":        p.LaborFlat,
		"manual_sale_price": p.ManualSalePrice,
	} {
		if v != nil && *v < 0 {
			return badRequest("%s must not be negative", name)
		}
	}
	return nil
}

func (p *pricingPatch) apply(in *pricing.Inputs) {
	if p == nil {
		return
	}
	setFloat(&in.MaterialRate, p.MaterialRate)
	setFloat(&in.DesignFee, p.DesignFee)
	setFloat(&in.LaborPercent, p.LaborPercent)
	setFloat(&in.LaborFlat, p.LaborFlat)
	setFloat(&in.TargetMarginPercent, p.TargetMarginPercent)
	setFloat(&in.ManualSalePrice, p.ManualSalePrice)
	if p.LaborMode != nil {
		in.LaborMode = *p.LaborMode
	}
	if p.ManualSale != nil {
		in.ManualSale = *p.ManualSale
	}
	if !in.ManualSale {
		in.ManualSalePrice = 0
	}
}

// changesLabor reports whether the patch sets labor by hand.
func (p *pricingPatch) changesLabor() bool {
	return p != nil && (p.LaborMode != nil || p.LaborPercent != nil || p.LaborFlat != nil)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// applyItemPatch validates p against the item and the estimate's catalog,
// then applies it. Every lookup runs before the item changes.
func applyItemPatch(e *estimate.Estimate, itemID string, p itemPatch) error {
	li, err := e.Item(itemID)
	if err != nil {
		return err
	}
	if err := p.Pricing.validate(); err != nil {
		return err
	}

	var job geometry.Job
	if len(p.Job) > 0 {
		if job, err = geometry.DecodeTyped(li.ProductType(), p.Job); err != nil {
			return badRequest("%v", err)
		}
		if err := geometry.Validate(job); err != nil {
			return badRequest("%v", err)
		}
	}

	var mat *catalog.Material
	if p.Material != nil {
		m, err := e.Catalog().Material(*p.Material)
		if err != nil {
			return err
		}
		mat = &m
	}

	if p.LaborRate != nil && strings.TrimSpace(*p.LaborRate) != "" {
		if _, err := e.Catalog().LaborRate(*p.LaborRate); err != nil {
			return err
		}
	}

	_, err = e.Update(itemID, func(li *estimate.LineItem) {
		if p.Name != nil {
			li.Name = strings.TrimSpace(*p.Name)
		}
		if p.Optional != nil {
			li.Optional = *p.Optional
		}
		if p.FollowUpDone != nil {
			li.FollowUpDone = *p.FollowUpDone
		}
		if job != nil {
			li.Job = job
		}
		if mat != nil {
			li.Material = mat.ID
			li.Pricing.MaterialRate = mat.Rate
		}
		if p.Pricing.changesLabor() {
			li.LaborRate = ""
			li.Pricing.InstallHours = 0
		}
		p.Pricing.apply(&li.Pricing)
	})
	if err != nil || p.LaborRate == nil {
		return err
	}
	_, err = e.SetLaborRate(itemID, *p.LaborRate)
	return err
}

type addItemRequest struct {
	Type string `json:"type"`
	itemPatch
}

func parseProductType(s string) (geometry.ProductType, error) {
	if s == "" {
		return geometry.Vehicle, nil
	}
	t, err := geometry.ParseProductType(s)
	if err != nil {
		return "", badRequest("%v", err)
	}
	return t, nil
}

func (s *server) handleItemAdd(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := parseProductType(req.Type)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.mutateEstimate(w, r, http.StatusCreated, func(e *estimate.Estimate) (any, error) {
		li, err := e.AddItem(t)
		if err != nil {
			return nil, err
		}
		if err := applyItemPatch(e, li.ID, req.itemPatch); err != nil {
			return nil, err
		}
		return e.View(li.ID)
	})
}

func (s *server) handleItemUpdate(w http.ResponseWriter, r *http.Request) {
	var patch itemPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")

	s.mutateEstimate(w, r, http.StatusOK, func(e *estimate.Estimate) (any, error) {
		if err := applyItemPatch(e, itemID, patch); err != nil {
			return nil, err
		}
		return e.View(itemID)
	})
}

func (s *server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	s.mutateEstimate(w, r, http.StatusOK, func(e *estimate.Estimate) (any, error) {
		if err := e.Remove(itemID); err != nil {
			return nil, err
		}
		return newEstimateResponse(e)
	})
}

func (s *server) handleItemDuplicate(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	s.mutateEstimate(w, r, http.StatusCreated, func(e *estimate.Estimate) (any, error) {
		dup, err := e.Duplicate(itemID)
		if err != nil {
			return nil, err
		}
		return e.View(dup.ID)
	})
}

func (s *server) handleItemCommission(w http.ResponseWriter, r *http.Request) {
	source, err := commission.ParseSource(r.URL.Query().Get("source"))
	if err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}
	itemID := chi.URLParam(r, "itemID")
	s.readEstimate(w, r, func(e *estimate.Estimate) (any, error) {
		return e.Commission(itemID, source)
	})
}

// handleCalc prices one item without saving anything.
func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := parseProductType(req.Type)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cat, err := s.orgCatalog(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	e, err := estimate.New(orgID(r), cat, estimate.WithThresholds(s.thresholds))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	li, err := e.AddItem(t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := applyItemPatch(e, li.ID, req.itemPatch); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := e.View(li.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if view.Calc.Unpriceable {
		s.fail(w, r, pricing.ErrUnpriceable)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
