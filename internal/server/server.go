// Package server provides the HTTP REST API for the degree tracker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/catalog"
	"github.com/jonathan/degree-tracker/internal/fetch"
	"github.com/jonathan/degree-tracker/internal/llm"
	"github.com/jonathan/degree-tracker/internal/matching"
	"github.com/jonathan/degree-tracker/internal/metrics"
	"github.com/jonathan/degree-tracker/internal/server/ratelimit"
)

// shutdownGrace bounds how long Run waits for in-flight requests.
const shutdownGrace = 30 * time.Second

// Server serves the degree tracker REST API.
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	logger      *zap.Logger
	fetcher     *fetch.Fetcher
	importer    *catalog.Importer
	registry    *catalog.Registry
	strategy    matching.Strategy
	concurrency int
	llm         llm.Client
	rateLimiter *ratelimit.Limiter
	store       Store
}

// Config configures a Server. Zero values select defaults.
type Config struct {
	Port         int
	Logger       *zap.Logger
	FetchOptions *fetch.Options // nil uses fetch.DefaultOptions
	Strategy     matching.Strategy
	Concurrency  int
	LLM          llm.Client

	// Registry holds the programs served under /programs. nil loads the
	// built-in programs.
	Registry *catalog.Registry

	// RateLimit nil loads limits from the environment.
	RateLimit *ratelimit.Config

	// Store persists reports and imported programs. nil disables /reports.
	Store Store
}

// New builds a Server and loads any stored programs into its registry.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Strategy == nil {
		cfg.Strategy = matching.Fuzzy{}
	}
	if cfg.Registry == nil {
		registry, err := catalog.DefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in programs: %w", err)
		}
		cfg.Registry = registry
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	fetcher := fetch.New(cfg.FetchOptions, cfg.Logger)
	s := &Server{
		logger:      cfg.Logger,
		fetcher:     fetcher,
		importer:    catalog.NewImporter(fetcher, cfg.Logger),
		registry:    cfg.Registry,
		strategy:    cfg.Strategy,
		concurrency: cfg.Concurrency,
		llm:         cfg.LLM,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		store:       cfg.Store,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.loadStoredPrograms(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load stored programs: %w", err)
	}

	metrics.Init()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /courses/parse", s.handleParseCourses)
	mux.HandleFunc("POST /requirements/extract", s.handleExtractRequirements)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/stream", s.handleAnalyzeStream)

	mux.HandleFunc("GET /programs", s.handleListPrograms)
	mux.HandleFunc("GET /programs/{id}", s.handleGetProgram)
	mux.HandleFunc("DELETE /programs/{id}", s.handleDeleteProgram)
	mux.HandleFunc("POST /programs/{id}/evaluate", s.handleEvaluateProgram)
	mux.HandleFunc("POST /programs/import", s.handleImportProgram)

	mux.HandleFunc("GET /reports", s.handleListReports)
	mux.HandleFunc("GET /reports/{id}", s.handleGetReport)
	mux.HandleFunc("DELETE /reports/{id}", s.handleDeleteReport)

	s.handler = chain(mux, s.cors, s.instrument, s.limit)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // browser-rendered catalog fetches
		IdleTimeout:  time.Minute,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errResponse maps err to a status code and writes it. Server-side failures
// are logged.
func (s *Server) errResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}
