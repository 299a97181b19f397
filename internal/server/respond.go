package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"findata-api/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeStoreError maps storage sentinel errors onto HTTP status codes.
func (s *Server) writeStoreError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, storage.ErrDuplicate):
		s.writeError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, storage.ErrForeignKey):
		s.writeError(w, http.StatusUnprocessableEntity, "referenced resource does not exist")
	default:
		s.log.Error().Err(err).Msg("storage error")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
