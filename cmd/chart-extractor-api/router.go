// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical/chart-extractor/cmd/chart-extractor-api/handlers"
	"github.com/spherical/chart-extractor/cmd/chart-extractor-api/middleware"
	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/observability"
)

// Services are the pipeline stages behind the HTTP surface.
type Services struct {
	Rasterizer domain.Rasterizer
	Extractor  domain.Extractor
}

// AppConfig holds router configuration.
type AppConfig struct {
	AllowedOrigins []string
	MaxUploadBytes int64
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, svc Services, cfg AppConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Trace(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", handlers.Health)

	uploadHandler := handlers.NewUploadHandler(logger, svc.Rasterizer, cfg.MaxUploadBytes)
	extractHandler := handlers.NewExtractHandler(logger, svc.Extractor, cfg.MaxUploadBytes)
	exportHandler := handlers.NewExportHandler(logger, cfg.MaxUploadBytes)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", uploadHandler.Upload)
		r.Post("/extract", extractHandler.Extract)
		r.Post("/export", exportHandler.Export)
	})

	return r
}
