package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the read side the handlers render from.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Snapshot(ctx context.Context) domain.Snapshot
	Sample() domain.Snapshot
	SiteReadings(ctx context.Context, stationID string) (domain.Station, []domain.Reading, bool)
	Stations(ctx context.Context) []domain.StationStatus
	Directory() *domain.Directory
	Thresholds() domain.ThresholdSet
}

// History serves archived readings for a station, newest first.
type History interface {
	History(ctx context.Context, stationID string, limit int) ([]domain.Reading, error)
}

// Options configures optional parts of the HTTP surface.
type Options struct {
	// TrustProxy honours X-Forwarded-For/Proto from a reverse proxy.
	TrustProxy bool
	// History backs /api/v1/sites/{site_id}/history; nil answers 501.
	History History
	// Live is mounted at /ws when set.
	Live http.Handler
}

// Server exposes the dashboard pages, JSON API, health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	dash       Dashboard
	history    History
	pages      *renderer
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer builds the router and wraps it in proxy and compression handlers.
func NewServer(addr string, dash Dashboard, opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Server, error) {
	pages, err := newRenderer(dash.Directory())
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:  mux.NewRouter(),
		dash:    dash,
		history: opts.History,
		pages:   pages,
		logger:  logger,
		metrics: metrics,
	}
	s.routes(opts.Live)

	compressed := handlers.CompressHandler(s.router)
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Upgrades need the raw connection; skip the gzip writer.
		if isWebSocketUpgrade(r) {
			s.router.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
	if opts.TrustProxy {
		h = handlers.ProxyHeaders(h)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(live http.Handler) {
	r := s.router
	r.Use(s.observe, s.recoverPanic)

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(s.dash)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/sites/{site_id}", s.handleSite).Methods(http.MethodGet)
	r.HandleFunc("/about", s.handleAbout).Methods(http.MethodGet)
	r.HandleFunc("/contact", s.handleContact).Methods(http.MethodGet)
	r.HandleFunc("/test-dashboard", s.handleTestDashboard).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/metrics", s.handleAPIMetrics).Methods(http.MethodGet)
	api.HandleFunc("/stations", s.handleAPIStations).Methods(http.MethodGet)
	api.HandleFunc("/sites/{site_id}/readings", s.handleAPISiteReadings).Methods(http.MethodGet)
	api.HandleFunc("/sites/{site_id}/history", s.handleAPISiteHistory).Methods(http.MethodGet)

	if live != nil {
		r.Handle("/ws", live).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	sharedobs.WriteJSON(w, status, v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// renderError serves the HTML error page, or JSON for API paths.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if isAPIRequest(r) {
		writeJSONError(w, status, msg)
		return
	}
	data := errorView{Code: status, Message: msg}
	if err := s.pages.render(w, status, "error.html", data); err != nil {
		s.logger.Error("render error page failed", "error", err, "status", status)
		http.Error(w, fmt.Sprintf("%d %s", status, msg), status)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.metrics.HTTPRequests.WithLabelValues("not_found", "404").Inc()
	s.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.metrics.HTTPRequests.WithLabelValues("method_not_allowed", "405").Inc()
	s.renderError(w, r, http.StatusMethodNotAllowed, "Method not allowed.")
}
