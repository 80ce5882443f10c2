package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/gorilla/mux"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

type siteReadingsResponse struct {
	Station  domain.Station   `json:"station"`
	Readings []domain.Reading `json:"readings"`
}

func (s *Server) handleAPIMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.dash.Snapshot(r.Context())
	w.Header().Set("X-Snapshot-ID", snap.ID)
	writeJSON(w, http.StatusOK, snap.Metrics)
}

func (s *Server) handleAPIStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Stations(r.Context()))
}

func (s *Server) handleAPISiteReadings(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["site_id"]
	station, readings, ok := s.dash.SiteReadings(r.Context(), siteID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown site "+strconv.Quote(siteID))
		return
	}
	writeJSON(w, http.StatusOK, siteReadingsResponse{Station: station, Readings: readings})
}

func (s *Server) handleAPISiteHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSONError(w, http.StatusNotImplemented, "reading archive is disabled")
		return
	}

	siteID := mux.Vars(r)["site_id"]
	station, ok := s.dash.Directory().Lookup(siteID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown site "+strconv.Quote(siteID))
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	readings, err := s.history.History(r.Context(), siteID, limit)
	if err != nil {
		s.logger.Error("load history failed", "station_id", siteID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, siteReadingsResponse{Station: station, Readings: readings})
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	if n > maxHistoryLimit {
		n = maxHistoryLimit
	}
	return n, nil
}
