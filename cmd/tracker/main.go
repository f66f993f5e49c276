package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/alexsanchiss/uas-planner-sub002/internal/adapters/nats"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/postgres"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/valkey"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/ports"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/usecases"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/config"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/logging"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/metrics"
)

// The tracker consumes live position fixes from JetStream, persists
// them, and raises deviation alerts when an aircraft strays from its
// authorized path.
func main() {
	cfg, err := config.Load("uas-planner-tracker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Cache for planned paths
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, path lookups go to the database", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// Publisher for deviation alerts
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	var cachePort ports.CacheService
	if cache != nil {
		cachePort = cache
	}

	planRepo := postgres.NewPlanRepo(db)
	telemRepo := postgres.NewTelemetryRepo(db)
	telemSvc := usecases.NewTelemetryService(telemRepo, planRepo, pub, cachePort, cfg.Tracking.DeviationThresholdM)

	// Subscriber consuming the telemetry work queue
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeTelemetry(ctx, func(ctx context.Context, fix *domain.TelemetryFix) error {
		if fix.Time.IsZero() {
			fix.Time = time.Now().UTC()
		}
		if err := telemSvc.Ingest(ctx, fix); err != nil {
			slog.Warn("ingest failed", "plan_id", fix.PlanID, "error", err)
			return err
		}
		metrics.TelemetryFixesIngested.WithLabelValues("nats").Inc()
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe telemetry: %v", err)
	}

	slog.Info("tracker started",
		"deviation_threshold_m", cfg.Tracking.DeviationThresholdM)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())
}
