package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wrapworks/estimator/internal/estimate"
)

type labelRequest struct {
	Label string `json:"label"`
}

func proposalResponse(e *estimate.Estimate, id string) (proposalView, error) {
	p, err := e.Proposals().Get(id)
	if err != nil {
		return proposalView{}, err
	}
	totals, err := e.ProposalTotals(id)
	if err != nil {
		return proposalView{}, err
	}
	return proposalView{Proposal: p, Totals: totals}, nil
}

func (s *server) handleProposalCreate(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutateEstimate(w, r, http.StatusCreated, func(e *estimate.Estimate) (any, error) {
		p := e.Proposals().Create(req.Label)
		return proposalResponse(e, p.ID)
	})
}

func (s *server) handleProposalRename(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	pid := chi.URLParam(r, "pid")
	s.mutateEstimate(w, r, http.StatusOK, func(e *estimate.Estimate) (any, error) {
		if _, err := e.Proposals().Rename(pid, req.Label); err != nil {
			return nil, err
		}
		return proposalResponse(e, pid)
	})
}

func (s *server) handleProposalDelete(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")
	s.mutateEstimate(w, r, http.StatusOK, func(e *estimate.Estimate) (any, error) {
		if err := e.Proposals().Delete(pid); err != nil {
			return nil, err
		}
		return newEstimateResponse(e)
	})
}

type toggleResponse struct {
	Included bool         `json:"included"`
	Proposal proposalView `json:"proposal"`
}

func (s *server) handleProposalToggle(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")
	itemID := chi.URLParam(r, "itemID")
	s.mutateEstimate(w, r, http.StatusOK, func(e *estimate.Estimate) (any, error) {
		included, err := e.ToggleProposalItem(pid, itemID)
		if err != nil {
			return nil, err
		}
		p, err := proposalResponse(e, pid)
		if err != nil {
			return nil, err
		}
		return toggleResponse{Included: included, Proposal: p}, nil
	})
}

func (s *server) handleProposalTotals(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")
	s.readEstimate(w, r, func(e *estimate.Estimate) (any, error) {
		return proposalResponse(e, pid)
	})
}
