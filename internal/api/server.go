// Package api provides the HTTP API server and handlers for am2vkdb.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kuwavkdb/am2vkdb/internal/service"
	"github.com/kuwavkdb/am2vkdb/internal/store"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

// Services groups the service dependencies of the API handlers.
type Services struct {
	Rating   *service.RatingService
	Resolver *service.ResolverService
	Settings *service.SettingsService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	registry view.Registry
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// eventsHandler serves the SSE stream; it is mounted outside huma because
// streaming responses do not fit the request/response model.
func NewServer(st *store.Store, services *Services, registry view.Registry, eventsHandler http.Handler, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:    st,
		services: services,
		registry: registry,
		router:   router,
		logger:   logger,
	}

	// Middleware must be attached before humachi registers any routes;
	// chi panics if Use is called after the first route is added.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("am2vkdb API", "1.0.0")
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	// Register routes.
	s.registerHealthRoutes()
	s.registerProductRoutes()
	s.registerAuthorRoutes()
	s.registerSettingsRoutes()
	s.registerViewRoutes()

	if eventsHandler != nil {
		s.router.Get("/api/v1/events", eventsHandler.ServeHTTP)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// Clients are pages rendered on the shop's origin, so every API call
	// is cross-origin.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}
