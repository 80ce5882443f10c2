package http

import (
	"net/http"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/gorilla/mux"
)

type homeView struct {
	Metrics  domain.DashboardMetrics
	Stations []domain.StationStatus
	Latest   *domain.Reading
	Sample   bool
}

type siteView struct {
	Station    domain.Station
	Level      domain.AlertLevel
	Latest     *domain.Reading
	Readings   []domain.Reading
	Thresholds domain.ThresholdSet
}

type staticView struct {
	Thresholds domain.ThresholdSet
}

type errorView struct {
	Code    int
	Message string
}

func (s *Server) homeView(snap domain.Snapshot, sample bool) homeView {
	v := homeView{
		Metrics:  snap.Metrics,
		Stations: domain.StationStatuses(snap.Stations, s.dash.Thresholds(), s.dash.Directory()),
		Sample:   sample,
	}
	if latest, ok := snap.Latest(); ok {
		v.Latest = &latest
	}
	return v
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap := s.dash.Snapshot(r.Context())
	s.page(w, r, "home.html", s.homeView(snap, false))
}

func (s *Server) handleTestDashboard(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "home.html", s.homeView(s.dash.Sample(), true))
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["site_id"]
	station, readings, ok := s.dash.SiteReadings(r.Context(), siteID)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "Unknown monitoring site.")
		return
	}

	v := siteView{
		Station:    station,
		Level:      domain.LevelNormal,
		Readings:   readings,
		Thresholds: s.dash.Thresholds(),
	}
	if latest, ok := domain.Latest(readings); ok {
		v.Latest = &latest
		v.Level = domain.ClassifyReading(latest, v.Thresholds)
	}
	s.page(w, r, "site.html", v)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "about.html", staticView{Thresholds: s.dash.Thresholds()})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "contact.html", staticView{Thresholds: s.dash.Thresholds()})
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.pages.render(w, http.StatusOK, name, data); err != nil {
		s.logger.Error("render page failed", "page", name, "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Something went wrong on our side.")
	}
}
