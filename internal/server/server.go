// Package server exposes the diagnostic assistant over HTTP: a chat
// endpoint with a WebSocket variant, vehicle and trouble-code lookups,
// the diagnose pipeline, and the community submission queue.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Basiic0110/Obdly/internal/assistant"
	"github.com/Basiic0110/Obdly/internal/chatlog"
	"github.com/Basiic0110/Obdly/internal/insights"
	"github.com/Basiic0110/Obdly/internal/obd"
	"github.com/Basiic0110/Obdly/internal/vehicle"
)

// Config holds server configuration.
type Config struct {
	Addr     string
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the OBDly HTTP API.
type Server struct {
	cfg        Config
	assistant  *assistant.Assistant
	vehicles   *vehicle.Client
	sessions   *chatlog.Store
	subs       *insights.Store
	codes      *obd.DB
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. Any dependency except the assistant may be nil;
// the routes that need it then answer 503.
func New(cfg Config, asst *assistant.Assistant, vehicles *vehicle.Client, sessions *chatlog.Store, subs *insights.Store, codes *obd.DB) *Server {
	if codes == nil {
		codes = obd.NewDB(nil)
	}
	s := &Server{
		cfg:       cfg,
		assistant: asst,
		vehicles:  vehicles,
		sessions:  sessions,
		subs:      subs,
		codes:     codes,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat/ws", s.handleWebSocket)
		r.Post("/diagnose", s.handleDiagnose)
		r.Get("/vehicle/{reg}", s.handleVehicle)
		r.Get("/codes/{code}", s.handleCode)
		r.Get("/history", s.handleHistory)
		r.Post("/submissions", s.handleSubmit)
		r.Get("/admin/submissions", s.handlePending)
		r.Post("/admin/submissions/{id}/review", s.handleReview)
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("obdly server listening on %s", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
