package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/dashboard"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/logging"
	"droneops-dashboard/internal/metrics"
	"droneops-dashboard/internal/sim"
	"droneops-dashboard/internal/telemetry"
)

// Snapshot is the payload pushed over /ws on every interval.
type Snapshot struct {
	ClusterID string            `json:"cluster_id"`
	Tick      uint64            `json:"tick"`
	Drones    []telemetry.Drone `json:"drones"`
	Alerts    []alert.Alert     `json:"alerts"`
	Summary   alert.Summary     `json:"summary"`
	Active    int               `json:"active"`
	Timestamp time.Time         `json:"ts"`
}

// Server serves the fleet dashboard, its JSON API and the live feed.
type Server struct {
	Sim       *sim.Simulator
	clusterID string
	router    *mux.Router
	upgrader  websocket.Upgrader
	push      time.Duration
	status    sim.AdminStatusWriter
	now       func() time.Time
}

// NewServer creates a server reading from the simulator's store. The live
// feed pushes once per tick interval.
func NewServer(clusterID string, s *sim.Simulator) *Server {
	push := s.TickInterval()
	if push <= 0 {
		push = 2 * time.Second
	}
	srv := &Server{
		Sim:       s,
		clusterID: clusterID,
		push:      push,
		now:       time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	srv.router = srv.routes()
	return srv
}

// SetStatusWriter registers a writer told when the server starts and stops listening.
func (s *Server) SetStatusWriter(w sim.AdminStatusWriter) {
	s.status = w
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/ws", s.handleWS).Methods("GET")
	r.HandleFunc("/metrics", metrics.HandleMetrics).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/drones", s.handleDrones).Methods("GET")
	api.HandleFunc("/drones/{id}", s.handleDrone).Methods("GET")
	api.HandleFunc("/alerts", s.handleAlerts).Methods("GET")
	api.HandleFunc("/summary", s.handleSummary).Methods("GET")
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("admin server listening", "addr", ln.Addr().String())
	if s.status != nil {
		s.status.SetAdminStatus(true)
		defer s.status.SetAdminStatus(false)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("admin server stopped")
	return nil
}

func (s *Server) snapshot() Snapshot {
	drones, tick := s.Sim.Store().View()
	ts := s.now().UTC()
	alerts := s.Sim.Deriver().Derive(drones, ts)
	return Snapshot{
		ClusterID: s.clusterID,
		Tick:      tick,
		Drones:    drones,
		Alerts:    alerts,
		Summary:   alert.Summarize(alerts),
		Active:    telemetry.ActiveCount(drones),
		Timestamp: ts,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleIndex renders the dashboard focused on ?drone=<all|id>.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	page := dashboard.NewPage(s.clusterID, snap.Tick, snap.Drones, snap.Alerts, snap.Timestamp)
	if filter := r.URL.Query().Get("drone"); filter != "" && filter != fleet.All {
		selected, err := s.Sim.Store().Select(filter)
		page.Focus(filter, selected, err)
	}
	page.Live = true
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboard.Render(w, page); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard failed", "err", err)
	}
}

// handleDrones serves ?drone=<all|id>. An unknown id yields an empty list.
func (s *Server) handleDrones(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("drone")
	drones, err := s.Sim.Store().Select(filter)
	if errors.Is(err, fleet.ErrUnknownDrone) {
		logging.FromContext(r.Context()).Debug("drone filter matched nothing", "drone_id", filter)
	}
	writeJSON(w, http.StatusOK, drones)
}

func (s *Server) handleDrone(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	d, err := s.Sim.Store().Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.snapshot().Alerts
	if r.URL.Query().Get("group") == "severity" {
		writeJSON(w, http.StatusOK, alert.Group(alerts))
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"cluster_id": snap.ClusterID,
		"tick":       snap.Tick,
		"drones":     len(snap.Drones),
		"active":     snap.Active,
		"alerts":     snap.Summary,
	})
}
