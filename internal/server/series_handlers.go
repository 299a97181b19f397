package server

import (
	"net/http"
	"strings"

	"findata-api/internal/storage"
)

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := storage.SeriesFilter{
		NameLike:   strings.TrimSpace(r.URL.Query().Get("name")),
		TickerLike: strings.TrimSpace(r.URL.Query().Get("ticker")),
		Page:       page,
	}
	if filter.IsDerived, err = queryBool(r, "is_derived"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.AssetClassID, err = queryInt64(r, "asset_class_id"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.ProductTypeID, err = queryInt64(r, "product_type_id"); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeInactive, err := queryBool(r, "include_inactive")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.IncludeInactive = includeInactive != nil && *includeInactive

	items, err := s.stores.Series.ListSeries(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err, "series not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newSeriesResponses(items))
}

func (s *Server) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var payload seriesPayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.stores.Series.CreateSeries(r.Context(), payload.toSeries())
	if err != nil {
		s.writeStoreError(w, err, "series not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, newSeriesResponse(created))
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "seriesID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	series, err := s.stores.Series.GetSeries(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "series not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newSeriesResponse(series))
}

func (s *Server) handleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "seriesID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload seriesPayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.stores.Series.UpdateSeries(r.Context(), id, payload.toSeries())
	if err != nil {
		s.writeStoreError(w, err, "series not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newSeriesResponse(updated))
}

func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "seriesID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.stores.Series.SoftDeleteSeries(r.Context(), id); err != nil {
		s.writeStoreError(w, err, "series not found")
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
