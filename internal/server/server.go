// Package server exposes certificate state and metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ivoronin/certexpiry/internal/monitor"
	"github.com/ivoronin/certexpiry/internal/publisher"
)

// Refresher is the part of the monitor the server drives.
type Refresher interface {
	Refresh(ctx context.Context, trigger string) (publisher.Snapshot, error)
	Snapshot() (publisher.Snapshot, bool)
}

// Server is the certexpiry HTTP server.
type Server struct {
	port       int
	httpServer *http.Server
	listener   net.Listener
	log        *zap.Logger
}

// New creates a server on port. Metrics are served from gatherer.
func New(port int, mon Refresher, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	s := &Server{port: port, log: log}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      Handler(mon, gatherer, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the routes of the server.
func Handler(mon Refresher, gatherer prometheus.Gatherer, log *zap.Logger) http.Handler {
	h := &handler{mon: mon, log: log}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("GET /state", h.state)
	mux.HandleFunc("POST /refresh", h.refresh)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Start binds the port and serves in the background.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", zap.Int("port", s.port))

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("http server failed to bind: %w", err)
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

type handler struct {
	mon Refresher
	log *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) state(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.mon.Snapshot()
	if !ok {
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "certificate not refreshed yet"})
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mon.Refresh(r.Context(), monitor.TriggerHTTP)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("Failed to write response", zap.Error(err))
	}
}
