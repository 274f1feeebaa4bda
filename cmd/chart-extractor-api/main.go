// Package main provides the chart extractor API server entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spherical/chart-extractor/internal/config"
	"github.com/spherical/chart-extractor/internal/extract"
	"github.com/spherical/chart-extractor/internal/imaging"
	"github.com/spherical/chart-extractor/internal/llm"
	"github.com/spherical/chart-extractor/internal/observability"
	"github.com/spherical/chart-extractor/internal/pdf"
	"github.com/spherical/chart-extractor/internal/raster"
)

func main() {
	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	model, err := llm.New(cfg.Model)
	if err != nil {
		// Upload and export still work; extraction reports the problem.
		logger.Warn().Err(err).Str("provider", cfg.Model.Provider).Msg("Vision model unavailable")
		model = llm.Unavailable(err)
	}

	normalizer := imaging.NewNormalizer(cfg.Raster.MaxSide, cfg.Raster.JPEGQuality)
	converter := pdf.NewConverter(normalizer, cfg.Raster.PDFMaxPages, cfg.Raster.PDFScale)

	services := Services{
		Rasterizer: raster.New(normalizer, converter, logger),
		Extractor:  extract.NewClient(model, logger),
	}

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("provider", cfg.Model.Provider).
		Str("model", model.Name()).
		Strs("allowed_origins", cfg.CORS.AllowedOrigins).
		Msg("Starting chart extractor API")

	router := NewRouter(logger, services, AppConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	// Create server
	addr := cfg.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt or error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server error")
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}
