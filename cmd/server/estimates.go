package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wrapworks/estimator/internal/aggregate"
	"github.com/wrapworks/estimator/internal/estimate"
	"github.com/wrapworks/estimator/internal/export"
	"github.com/wrapworks/estimator/internal/proposal"
)

type proposalView struct {
	proposal.Proposal
	Totals aggregate.Totals `json:"totals"`
}

type estimateResponse struct {
	ID        string              `json:"id"`
	OrgID     string              `json:"org_id"`
	Name      string              `json:"name"`
	Items     []estimate.ItemView `json:"items"`
	Proposals []proposalView      `json:"proposals"`
	Totals    aggregate.Totals    `json:"totals"`
}

func newEstimateResponse(e *estimate.Estimate) (estimateResponse, error) {
	resp := estimateResponse{
		ID:        e.ID,
		OrgID:     e.OrgID,
		Name:      e.Name,
		Items:     e.Views(),
		Proposals: []proposalView{},
		Totals:    e.Totals(),
	}
	for _, p := range e.Proposals().List() {
		totals, err := e.ProposalTotals(p.ID)
		if err != nil {
			return estimateResponse{}, err
		}
		resp.Proposals = append(resp.Proposals, proposalView{Proposal: p, Totals: totals})
	}
	return resp, nil
}

// loadEstimate reads the estimate named in the route, priced against the
// org's catalog.
func (s *server) loadEstimate(r *http.Request) (*estimate.Estimate, error) {
	cat, err := s.orgCatalog(r)
	if err != nil {
		return nil, err
	}
	return s.store.LoadEstimate(r.Context(), orgID(r), chi.URLParam(r, "id"), cat, estimate.WithThresholds(s.thresholds))
}

// readEstimate loads the estimate and writes whatever fn returns.
func (s *server) readEstimate(w http.ResponseWriter, r *http.Request, fn func(*estimate.Estimate) (any, error)) {
	e, err := s.loadEstimate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := fn(e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// mutateEstimate loads the estimate, applies fn and saves the result before
// responding. Concurrent edits of one estimate resolve last write wins.
func (s *server) mutateEstimate(w http.ResponseWriter, r *http.Request, status int, fn func(*estimate.Estimate) (any, error)) {
	e, err := s.loadEstimate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := fn(e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.SaveEstimate(r.Context(), e.OrgID, e); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, status, out)
}

func (s *server) handleEstimatesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	list, err := s.store.ListEstimates(r.Context(), orgID(r), query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *server) handleEstimateCreate(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
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
	e.Name = strings.TrimSpace(req.Name)

	if err := s.store.SaveEstimate(r.Context(), e.OrgID, e); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("estimate created", zap.String("org_id", e.OrgID), zap.String("estimate_id", e.ID))

	resp, err := newEstimateResponse(e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *server) handleEstimateGet(w http.ResponseWriter, r *http.Request) {
	s.readEstimate(w, r, func(e *estimate.Estimate) (any, error) {
		return newEstimateResponse(e)
	})
}

func (s *server) handleEstimateRename(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutateEstimate(w, r, http.StatusOK, func(e *estimate.Estimate) (any, error) {
		e.Name = strings.TrimSpace(req.Name)
		return newEstimateResponse(e)
	})
}

func (s *server) handleEstimateDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEstimate(r.Context(), orgID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type totalsResponse struct {
	ItemIDs []string         `json:"item_ids"`
	Totals  aggregate.Totals `json:"totals"`
}

func (s *server) handleEstimateTotals(w http.ResponseWriter, r *http.Request) {
	s.readEstimate(w, r, func(e *estimate.Estimate) (any, error) {
		return totalsResponse{ItemIDs: nonNil(e.RequiredIDs()), Totals: e.Totals()}, nil
	})
}

type convertRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// handleEstimateConvert totals the items chosen for a job. Without a
// selection the required items are used.
func (s *server) handleEstimateConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.readEstimate(w, r, func(e *estimate.Estimate) (any, error) {
		ids := req.ItemIDs
		if ids == nil {
			ids = e.RequiredIDs()
		}
		return totalsResponse{ItemIDs: nonNil(ids), Totals: e.SelectionTotals(ids)}, nil
	})
}

func (s *server) handleEstimateExport(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEstimate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := export.Workbook(e)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate-%s.xlsx"`, e.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
