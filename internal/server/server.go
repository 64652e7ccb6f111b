// Package server provides the HTTP server and routing for the nanocell API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/openquantum/nanocell/internal/config"
	"github.com/openquantum/nanocell/internal/database"
	"github.com/openquantum/nanocell/internal/modules/nanobot"
	nanobothandlers "github.com/openquantum/nanocell/internal/modules/nanobot/handlers"
	"github.com/openquantum/nanocell/internal/modules/reprogramming"
	reprogramminghandlers "github.com/openquantum/nanocell/internal/modules/reprogramming/handlers"
	"github.com/openquantum/nanocell/internal/modules/runs"
	runshandlers "github.com/openquantum/nanocell/internal/modules/runs/handlers"
)

// Config holds server configuration
type Config struct {
	Log           zerolog.Logger
	RunsDB        *database.DB
	Config        *config.Config
	Reprogramming *reprogramming.Service
	Nanobots      *nanobot.Service
	Runs          *runs.Service // nil disables run history
	Port          int
	DevMode       bool
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	runsDB         *database.DB
	cfg            *config.Config
	reprogramming  *reprogramming.Service
	nanobots       *nanobot.Service
	runs           *runs.Service
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		log:           cfg.Log.With().Str("component", "server").Logger(),
		runsDB:        cfg.RunsDB,
		cfg:           cfg.Config,
		reprogramming: cfg.Reprogramming,
		nanobots:      cfg.Nanobots,
		runs:          cfg.Runs,
	}

	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Config.DataDir, cfg.RunsDB)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// System monitoring
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})

		// Reprogramming module
		var recorder reprogramminghandlers.RunRecorder
		if s.runs != nil {
			recorder = s.runs
		}
		reprogrammingHandler := reprogramminghandlers.NewHandler(s.reprogramming, recorder, s.log)
		reprogrammingHandler.RegisterRoutes(r)

		// Nanobot module
		var deliveryRecorder nanobothandlers.RunRecorder
		if s.runs != nil {
			deliveryRecorder = s.runs
		}
		nanobotHandler := nanobothandlers.NewHandler(s.nanobots, deliveryRecorder, s.log)
		nanobotHandler.RegisterRoutes(r)

		// Live delivery stream (WebSocket)
		streamHandler := NewStreamHandler(s.nanobots, s.log)
		r.Get("/nanobots/delivery/stream", streamHandler.ServeHTTP)

		// Run history
		if s.runs != nil {
			runsHandler := runshandlers.NewHandler(s.runs, s.log)
			runsHandler.RegisterRoutes(r)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
