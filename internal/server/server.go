// Package server exposes the journal as a read-only JSON API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"geojournal/internal/collection"
	"geojournal/internal/config"
	"geojournal/internal/content"
	"geojournal/internal/journal"
	"geojournal/internal/logging"
)

// Journal is the read side of the collection
type Journal interface {
	Locations() []journal.Aggregate
	Get(id string) (journal.Aggregate, bool)
	Load(ctx context.Context) error
	Err() error
}

var _ Journal = (*collection.Collection)(nil)

// Server is the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer wires the routes over j
func NewServer(cfg config.ServerSettings, j Journal, composer *content.Composer, logger *slog.Logger) *Server {
	log := logging.ForModule(logger, "server")
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handler{journal: j, composer: composer, log: log}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.listLocations)
			r.Get("/{id}", h.getLocation)
			r.Get("/{id}/content", h.getContent)
		})
		r.Get("/overlays", h.getOverlays)
		r.Get("/report", h.getReport)
		r.Get("/export.geojson", h.exportGeoJSON)
		r.Post("/reload", h.reload)
	})

	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router: router,
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
