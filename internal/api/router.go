// Package api provides the HTTP API for Wayvue.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/api/handler"
	"github.com/vbelide9/wayvue/internal/api/middleware"
	"github.com/vbelide9/wayvue/internal/api/response"
	"github.com/vbelide9/wayvue/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Trips runs the leg enrichment pipeline.
	Trips handler.LegProcessor

	// Geocoder serves place-details lookups.
	Geocoder handler.ReverseGeocoder

	// Registry reports upstream health for readiness checks.
	// Defaults to the global registry.
	Registry *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wayvue-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	tripHandler := handler.NewTripHandler(cfg.Trips, cfg.Logger)
	placeHandler := handler.NewPlaceHandler(cfg.Geocoder, cfg.Logger)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.Registry)

	// Rate limit tiers per endpoint cost
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/api", func(r chi.Router) {
		// Ops endpoints (public, unthrottled for orchestrators)
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)

		// Route computation fans out to several upstreams per request
		r.With(expensiveRateLimit).Post("/route", tripHandler.ComputeRoute)

		// Place details is a single cached reverse geocode
		r.With(standardRateLimit).Post("/place-details", placeHandler.PlaceDetails)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, req, "no such endpoint")
	})

	return r
}
