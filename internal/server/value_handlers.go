package server

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"findata-api/internal/storage"
)

func (s *Server) observationFilter(r *http.Request) (storage.ObservationFilter, error) {
	var filter storage.ObservationFilter
	var err error

	if filter.Page, err = queryPage(r); err != nil {
		return filter, err
	}
	if filter.SeriesIDs, err = queryIDList(r, "series_ids"); err != nil {
		return filter, err
	}
	if filter.From, err = queryDate(r, "start_date"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(r, "end_date"); err != nil {
		return filter, err
	}
	if filter.IsDerived, err = queryBool(r, "is_derived"); err != nil {
		return filter, err
	}
	return filter, nil
}

// handleListValueData returns observations grouped by series, with each
// series' metadata alongside its points.
func (s *Server) handleListValueData(w http.ResponseWriter, r *http.Request) {
	filter, err := s.observationFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listGroupedValueData(w, r, filter)
}

func (s *Server) handleListDerivedValueData(w http.ResponseWriter, r *http.Request) {
	filter, err := s.observationFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	derived := true
	filter.IsDerived = &derived
	s.listGroupedValueData(w, r, filter)
}

func (s *Server) listGroupedValueData(w http.ResponseWriter, r *http.Request, filter storage.ObservationFilter) {
	observations, err := s.stores.Observations.ListObservations(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err, "value data not found")
		return
	}

	grouped := make(map[int64][]observationResponse)
	order := make([]int64, 0)
	for _, o := range observations {
		if _, seen := grouped[o.SeriesID]; !seen {
			order = append(order, o.SeriesID)
		}
		grouped[o.SeriesID] = append(grouped[o.SeriesID], newObservationResponse(o))
	}

	meta := make(map[int64]storage.Series, len(order))
	if len(order) > 0 {
		series, err := s.stores.Series.ListSeriesByIDs(r.Context(), order)
		if err != nil {
			s.writeStoreError(w, err, "series not found")
			return
		}
		for _, m := range series {
			meta[m.SeriesID] = m
		}
	}

	out := make([]seriesValuesResponse, 0, len(order))
	for _, id := range order {
		out = append(out, seriesValuesResponse{
			Metadata:  newSeriesResponse(meta[id]),
			ValueData: grouped[id],
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpsertValueData(w http.ResponseWriter, r *http.Request) {
	var payload observationPayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The ClickHouse backend has no foreign keys, so series existence is
	// checked up front on both backends for uniform behaviour.
	if _, err := s.stores.Series.GetSeries(r.Context(), payload.SeriesID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusUnprocessableEntity, "referenced series does not exist")
			return
		}
		s.writeStoreError(w, err, "series not found")
		return
	}

	stored, err := s.stores.Observations.UpsertObservation(r.Context(), payload.toObservation())
	if err != nil {
		s.writeStoreError(w, err, "value data not found")
		return
	}
	s.writeJSON(w, http.StatusCreated, newObservationResponse(stored))
}

func (s *Server) handleGetValueData(w http.ResponseWriter, r *http.Request) {
	seriesID, err := pathID(r, "seriesID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	observedAt, err := pathDate(r, "observationDate")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	observation, err := s.stores.Observations.GetObservation(r.Context(), seriesID, observedAt)
	if err != nil {
		s.writeStoreError(w, err, "value data not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newObservationResponse(observation))
}

type valueUpdatePayload struct {
	Value     *decimal.Decimal `json:"value"`
	IsDerived *bool            `json:"is_derived"`
}

func (s *Server) handleUpdateValueData(w http.ResponseWriter, r *http.Request) {
	seriesID, err := pathID(r, "seriesID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	observedAt, err := pathDate(r, "observationDate")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload valueUpdatePayload
	if !s.decodeBody(w, r, &payload) {
		return
	}
	if payload.Value == nil {
		s.writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	existing, err := s.stores.Observations.GetObservation(r.Context(), seriesID, observedAt)
	if err != nil {
		s.writeStoreError(w, err, "value data not found")
		return
	}

	existing.Value = *payload.Value
	if payload.IsDerived != nil {
		existing.IsDerived = *payload.IsDerived
	}

	stored, err := s.stores.Observations.UpsertObservation(r.Context(), existing)
	if err != nil {
		s.writeStoreError(w, err, "value data not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newObservationResponse(stored))
}
