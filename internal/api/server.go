package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/mdcount/internal/config"
	"github.com/dgallion1/mdcount/internal/counter"
	"github.com/dgallion1/mdcount/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for mdcount.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
	defaultOpts  counter.Options
}

// NewServer creates and configures the HTTP server. cfg must have passed
// Validate.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) (*Server, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
		defaultOpts:  opts,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints, when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/count", s.handleCount)
		r.Post("/api/count/batch", s.handleCountBatch)
		r.Post("/api/jobs", s.handleSubmitJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
