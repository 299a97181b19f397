package server

import (
	"net/http"

	"findata-api/internal/version"
)

const (
	backendConnected     = "connected"
	backendDisconnected  = "disconnected"
	backendNotConfigured = "not_configured"
)

type rootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	ClickHouse string `json:"clickhouse"`
	Version    string `json:"version"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, rootResponse{
		Name:    s.cfg.App.Name,
		Version: version.Version,
		Docs:    "/api/v1/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		Database:   backendConnected,
		ClickHouse: backendNotConfigured,
		Version:    version.Version,
	}

	if s.pingDB != nil {
		if err := s.pingDB(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("database health check failed")
			resp.Database = backendDisconnected
			resp.Status = "degraded"
		}
	}
	// A ClickHouse outage is reported but never fails the check; only the
	// primary database drives the overall status.
	if s.pingClickHouse != nil {
		resp.ClickHouse = backendConnected
		if err := s.pingClickHouse(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("clickhouse health check failed")
			resp.ClickHouse = backendDisconnected
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}
