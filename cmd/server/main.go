// Package main is the entry point for the travel decision engine service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	enginehttp "github.com/skymind/travel-decision-engine/internal/adapter/http"
	"github.com/skymind/travel-decision-engine/internal/adapter/http/middleware"
	"github.com/skymind/travel-decision-engine/internal/adapter/provider/amadeus"
	"github.com/skymind/travel-decision-engine/internal/adapter/provider/kiwi"
	"github.com/skymind/travel-decision-engine/internal/config"
	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/logger"
	"github.com/skymind/travel-decision-engine/internal/metrics"
	"github.com/skymind/travel-decision-engine/internal/pipeline"
	"github.com/skymind/travel-decision-engine/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.SetGlobal(log)

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Msg("Configuration loaded")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log.Logger)

	if err := setupRoutes(e, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up routes")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, log)
}

// setupRoutes wires the providers, the use case, and the HTTP handlers.
func setupRoutes(e *echo.Echo, cfg *config.Config, log *logger.Logger) error {
	providers := []domain.Provider{
		amadeus.NewAdapter(cfg.Providers.AmadeusFixture),
		kiwi.NewAdapter(cfg.Providers.KiwiFixture),
	}

	trustWeights, err := cfg.Scoring.ParseTrustWeights()
	if err != nil {
		return err
	}
	profiles, err := cfg.Scoring.ParseProfiles()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.New("decision_engine", registry)

	uc := usecase.NewSearchUseCase(providers, usecase.Config{
		GlobalTimeout:   cfg.Timeouts.GlobalSearch,
		ProviderTimeout: cfg.Timeouts.PerProvider,
		Pipeline: pipeline.Config{
			Risk: pipeline.RiskConfig{
				TightConnectionMinutes: cfg.Risk.TightConnectionMinutes,
				OvernightMinHours:      cfg.Risk.OvernightMinHours,
			},
			Profiles:      domain.NewProfileTable(profiles),
			TrustWeights:  trustWeights,
			TradeoffDepth: cfg.Explain.TradeoffDepth,
		},
		CacheTTL:      cfg.Cache.TTL,
		CacheCapacity: cfg.Cache.Capacity,
		Metrics:       engineMetrics,
		Logger:        log,
	})

	handler := enginehttp.NewSearchHandler(uc)
	enginehttp.RegisterRoutes(e, handler, registry)
	return nil
}

// gracefulShutdown drains in-flight requests on SIGINT or SIGTERM.
func gracefulShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
