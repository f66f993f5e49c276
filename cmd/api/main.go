package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/http"
	natsadapter "github.com/alexsanchiss/uas-planner-sub002/internal/adapters/nats"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/postgres"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/temporalclient"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/valkey"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/ports"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/usecases"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/config"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/logging"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/metrics"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("uas-planner-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		pub = nil
	} else {
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Temporal (authorization workflows)
	starter, err := temporalclient.NewStarter(cfg.Temporal.HostPort)
	if err != nil {
		slog.Warn("temporal unavailable, submissions will not start workflows", "error", err)
		starter = nil
	} else {
		defer starter.Close()
	}

	// Repos
	planRepo := postgres.NewPlanRepo(db)
	authRepo := postgres.NewAuthorizationRepo(db)
	telemRepo := postgres.NewTelemetryRepo(db)

	limits := scan.Limits{
		MinAltitude:      cfg.Scan.MinAltitude,
		MaxAltitude:      cfg.Scan.MaxAltitude,
		MaxScanLines:     cfg.Scan.MaxScanLines,
		MaxFlightSeconds: cfg.Scan.MaxFlightSeconds,
	}

	// Wrap nil-able adapters so services see a nil interface, not a
	// typed nil pointer.
	var cachePort ports.CacheService
	if cache != nil {
		cachePort = cache
	}
	var eventsPort ports.EventPublisher
	if pub != nil {
		eventsPort = pub
	}
	var starterPort ports.AuthorizationStarter
	if starter != nil {
		starterPort = starter
	}

	planSvc := usecases.NewPlanService(planRepo, cachePort, eventsPort, limits)
	authSvc := usecases.NewAuthorizationService(planRepo, authRepo, starterPort, eventsPort)
	telemSvc := usecases.NewTelemetryService(telemRepo, planRepo, eventsPort, cachePort, cfg.Tracking.DeviationThresholdM)

	deps := &http.Dependencies{
		Plans:          planSvc,
		Authorizations: authSvc,
		Telemetry:      telemSvc,
		NATS:           natsConn,
		DB:             db,
		Cache:          cache,
	}

	// Keep pool gauges fresh
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "UAS Planner API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
