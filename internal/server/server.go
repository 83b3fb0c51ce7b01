package server

import (
	"context"
	"net/http"

	"vibetube/internal/models"
	"vibetube/shared/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// FeedPipeline runs one ingestion pass and assembles the feed.
type FeedPipeline interface {
	Run(ctx context.Context, refresh bool) (*models.FeedResponse, error)
}

// RecordStore is the slice of the store the manual-override and share
// endpoints need.
type RecordStore interface {
	GetByID(ctx context.Context, id string) (*models.VideoRecord, error)
	UpdateVibe(ctx context.Context, id, vibe, reason string) error
	Delete(ctx context.Context, id string) error
}

// Server wires the HTTP surface: the feed endpoint, the manual
// overrides, the share pages, and the health checks.
type Server struct {
	pipeline FeedPipeline
	store    RecordStore
	monitor  *monitoring.Monitor
	baseURL  string
}

func New(pipeline FeedPipeline, store RecordStore, monitor *monitoring.Monitor, baseURL string) *Server {
	return &Server{
		pipeline: pipeline,
		store:    store,
		monitor:  monitor,
		baseURL:  baseURL,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/newsletters", s.handleNewsletters)
	r.Patch("/api/videos/{id}", s.handleUpdateVibe)
	r.Delete("/api/videos/{id}", s.handleDeleteVideo)
	r.Get("/vibetube/{id}", s.handleSharePage)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK - " + s.monitor.GetStatusSummary()))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte("Service unhealthy - " + s.monitor.GetStatusSummary()))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.monitor.GetStatusSummary()))
}
