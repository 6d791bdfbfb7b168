// Package main provides the entrypoint for the Wayvue API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vbelide9/wayvue/internal/api"
	"github.com/vbelide9/wayvue/internal/api/middleware"
	"github.com/vbelide9/wayvue/internal/geocode"
	"github.com/vbelide9/wayvue/internal/geocode/nominatim"
	"github.com/vbelide9/wayvue/internal/places"
	"github.com/vbelide9/wayvue/internal/places/overpass"
	"github.com/vbelide9/wayvue/internal/provider/resilience"
	"github.com/vbelide9/wayvue/internal/roadcond"
	"github.com/vbelide9/wayvue/internal/roadcond/camfeed"
	"github.com/vbelide9/wayvue/internal/routing"
	"github.com/vbelide9/wayvue/internal/routing/osrm"
	"github.com/vbelide9/wayvue/internal/telemetry"
	"github.com/vbelide9/wayvue/internal/trip"
	"github.com/vbelide9/wayvue/internal/weather"
	"github.com/vbelide9/wayvue/internal/weather/openmeteo"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	const serviceName = "wayvue-api"

	// Local development loads configuration from .env; missing file is fine.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().Msg("starting Wayvue API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Resilient clients per upstream, registered for readiness reporting
	geocodeClient := resilience.NewClient(
		resilience.UpstreamClientConfig(resilience.UpstreamGeocoding, nominatim.DefaultTimeout))
	routingClient := resilience.NewClient(
		resilience.UpstreamClientConfig(resilience.UpstreamRouting, osrm.DefaultTimeout))
	weatherClient := resilience.NewClient(
		resilience.UpstreamClientConfig(resilience.UpstreamWeather, openmeteo.DefaultTimeout))
	placesClient := resilience.NewClient(
		resilience.UpstreamClientConfig(resilience.UpstreamPlaces, overpass.DefaultTimeout))

	resilience.GlobalRegistry.Register(resilience.UpstreamGeocoding, geocodeClient)
	resilience.GlobalRegistry.Register(resilience.UpstreamRouting, routingClient)
	resilience.GlobalRegistry.Register(resilience.UpstreamWeather, weatherClient)
	resilience.GlobalRegistry.Register(resilience.UpstreamPlaces, placesClient)

	// Geocoding
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatim.NewClient(nominatim.ClientConfig{
			BaseURL:    os.Getenv("NOMINATIM_BASE_URL"),
			HTTPClient: geocodeClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("geocoding service initialized")

	// Routing
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: osrm.NewClient(osrm.ClientConfig{
			BaseURL:    os.Getenv("OSRM_BASE_URL"),
			HTTPClient: routingClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("routing service initialized")

	// Weather
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			BaseURL:    os.Getenv("OPEN_METEO_BASE_URL"),
			HTTPClient: weatherClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("weather service initialized")

	// Traffic cameras are optional; without a feed the road segments fall
	// back to simulated references.
	var cameras roadcond.CameraSource
	if feedURL := os.Getenv("CAMERA_FEED_URL"); feedURL != "" {
		cameraClient := resilience.NewClient(
			resilience.UpstreamClientConfig(resilience.UpstreamCameras, camfeed.DefaultTimeout))
		resilience.GlobalRegistry.Register(resilience.UpstreamCameras, cameraClient)
		cameras = camfeed.NewClient(camfeed.ClientConfig{
			FeedURL:    feedURL,
			HTTPClient: cameraClient,
			Logger:     log,
		})
		log.Info().Msg("traffic camera feed initialized")
	}

	// Road conditions
	roadService := roadcond.NewService(roadcond.ServiceConfig{
		Geocoder: geocodeService,
		Cameras:  cameras,
		Logger:   log,
	})
	log.Info().Msg("road condition service initialized")

	// Stop recommendations
	placesService := places.NewService(places.ServiceConfig{
		Provider: overpass.NewClient(overpass.ClientConfig{
			BaseURL:    os.Getenv("OVERPASS_BASE_URL"),
			HTTPClient: placesClient,
			Logger:     log,
		}),
		Geocoder: geocodeService,
		Logger:   log,
	})
	log.Info().Msg("places service initialized")

	// Leg processor ties the pipeline together
	tripService := trip.NewService(trip.ServiceConfig{
		Geocoder: geocodeService,
		Router:   routingService,
		Weather:  weatherService,
		Roads:    roadService,
		Stops:    placesService,
		Logger:   log,
	})
	log.Info().Msg("trip service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Trips:       tripService,
		Geocoder:    geocodeService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
