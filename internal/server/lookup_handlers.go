package server

import (
	"net/http"
	"strings"

	"findata-api/internal/storage"
)

func (s *Server) lookupFilter(r *http.Request) (storage.LookupFilter, error) {
	page, err := queryPage(r)
	if err != nil {
		return storage.LookupFilter{}, err
	}
	return storage.LookupFilter{
		NameLike: strings.TrimSpace(r.URL.Query().Get("name")),
		Page:     page,
	}, nil
}

func (s *Server) handleListAssetClasses(w http.ResponseWriter, r *http.Request) {
	filter, err := s.lookupFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.stores.Lookups.ListAssetClasses(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err, "asset class not found")
		return
	}

	out := make([]assetClassResponse, 0, len(items))
	for _, ac := range items {
		out = append(out, newAssetClassResponse(ac))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAssetClass(w http.ResponseWriter, r *http.Request) {
	var payload assetClassPayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.stores.Lookups.CreateAssetClass(r.Context(), storage.AssetClass{
		AssetClassName: strings.TrimSpace(payload.AssetClassName),
		Description:    payload.Description,
	})
	if err != nil {
		s.writeStoreError(w, err, "asset class not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, newAssetClassResponse(created))
}

func (s *Server) handleGetAssetClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "assetClassID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ac, err := s.stores.Lookups.GetAssetClass(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "asset class not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newAssetClassResponse(ac))
}

func (s *Server) handleListProductTypes(w http.ResponseWriter, r *http.Request) {
	filter, err := s.lookupFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.stores.Lookups.ListProductTypes(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err, "product type not found")
		return
	}

	out := make([]productTypeResponse, 0, len(items))
	for _, pt := range items {
		out = append(out, newProductTypeResponse(pt))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProductType(w http.ResponseWriter, r *http.Request) {
	var payload productTypePayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.stores.Lookups.CreateProductType(r.Context(), storage.ProductType{
		ProductTypeName: strings.TrimSpace(payload.ProductTypeName),
		Description:     payload.Description,
		IsDerived:       payload.IsDerived,
	})
	if err != nil {
		s.writeStoreError(w, err, "product type not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, newProductTypeResponse(created))
}

func (s *Server) handleGetProductType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productTypeID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pt, err := s.stores.Lookups.GetProductType(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "product type not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newProductTypeResponse(pt))
}
