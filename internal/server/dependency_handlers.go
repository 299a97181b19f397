package server

import (
	"net/http"
	"strings"

	"findata-api/internal/storage"
)

func (s *Server) handleListDependencies(w http.ResponseWriter, r *http.Request) {
	var filter storage.DependencyFilter
	var err error

	if filter.Page, err = queryPage(r); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.ParentSeriesID, err = queryInt64(r, "parent_series_id"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.ChildSeriesID, err = queryInt64(r, "child_series_id"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.DependencyType = strings.TrimSpace(r.URL.Query().Get("dependency_type"))
	includeInactive, err := queryBool(r, "include_inactive")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.IncludeInactive = includeInactive != nil && *includeInactive

	items, err := s.stores.Dependencies.ListDependencies(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err, "dependency not found")
		return
	}

	out := make([]dependencyResponse, 0, len(items))
	for _, d := range items {
		out = append(out, newDependencyResponse(d))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDependency(w http.ResponseWriter, r *http.Request) {
	var payload dependencyPayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.stores.Dependencies.CreateDependency(r.Context(), payload.toDependency())
	if err != nil {
		s.writeStoreError(w, err, "dependency not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, newDependencyResponse(created))
}

func (s *Server) handleListCalculations(w http.ResponseWriter, r *http.Request) {
	var filter storage.CalculationFilter
	var err error

	if filter.Page, err = queryPage(r); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.DerivedSeriesID, err = queryInt64(r, "derived_series_id"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Status = strings.TrimSpace(r.URL.Query().Get("status"))
	filter.Method = strings.TrimSpace(r.URL.Query().Get("calculation_method"))
	if filter.From, err = queryDate(r, "start_date"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.To, err = queryDate(r, "end_date"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.stores.Dependencies.ListCalculations(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err, "calculation not found")
		return
	}

	out := make([]calculationResponse, 0, len(items))
	for _, c := range items {
		out = append(out, newCalculationResponse(c))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCalculation(w http.ResponseWriter, r *http.Request) {
	var payload calculationPayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.stores.Dependencies.CreateCalculation(r.Context(), payload.toCalculation())
	if err != nil {
		s.writeStoreError(w, err, "calculation not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, newCalculationResponse(created))
}

func (s *Server) handleGetCalculation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "calculationID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.stores.Dependencies.GetCalculation(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "calculation not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newCalculationResponse(c))
}
