package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/store"
)

// orgCatalog is the built-in catalog with the org's material table applied.
func (s *server) orgCatalog(r *http.Request) (*catalog.Catalog, error) {
	return s.store.Catalog(r.Context(), orgID(r), s.cat)
}

func (s *server) handleMakes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Makes())
}

func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	vehicleMake, err := url.PathUnescape(chi.URLParam(r, "make"))
	if err != nil {
		s.fail(w, r, badRequest("invalid make: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, s.cat.ModelsForMake(vehicleMake))
}

func (s *server) handleCatalogMaterials(w http.ResponseWriter, r *http.Request) {
	cat, err := s.orgCatalog(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat.Materials)
}

func (s *server) handlePPFPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.PPFPackages)
}

func (s *server) handleLaborRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.LaborRates)
}

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "1"
	materials, err := s.store.ListMaterials(r.Context(), orgID(r), activeOnly)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

type materialRequest struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Notes  string  `json:"notes"`
	Active *bool   `json:"active"`
}

func (req materialRequest) material() store.Material {
	m := store.Material{Code: req.Code, Name: req.Name, Rate: req.Rate, Notes: req.Notes, Active: true}
	if req.Active != nil {
		m.Active = *req.Active
	}
	return m
}

func (s *server) handleMaterialsCreate(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m := req.material()
	if err := m.Validate(); err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}

	created, err := s.store.CreateMaterial(r.Context(), orgID(r), m)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleMaterialsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.fail(w, r, badRequest("invalid material id"))
		return
	}

	var req materialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m := req.material()
	m.ID = id
	if err := m.Validate(); err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}

	if err := s.store.UpdateMaterial(r.Context(), orgID(r), m); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
