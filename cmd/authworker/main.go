package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/alexsanchiss/uas-planner-sub002/internal/adapters/nats"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/postgres"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/temporalclient"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/ports"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/usecases"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/config"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/logging"
	"github.com/alexsanchiss/uas-planner-sub002/internal/workflows"
)

func main() {
	cfg, err := config.Load("uas-planner-authworker")
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

	// Publisher for decision events
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, decisions will not be published", "error", err)
		pub = nil
	} else {
		defer pub.Close()
	}
	var eventsPort ports.EventPublisher
	if pub != nil {
		eventsPort = pub
	}

	planRepo := postgres.NewPlanRepo(db)
	authRepo := postgres.NewAuthorizationRepo(db)
	authSvc := usecases.NewAuthorizationService(planRepo, authRepo, nil, eventsPort)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, temporalclient.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.AuthorizationWorkflow)
	w.RegisterActivity(&workflows.AuthorizationActivities{
		Authorization: authSvc,
		Plans:         planRepo,
		Limits: scan.Limits{
			MinAltitude:      cfg.Scan.MinAltitude,
			MaxAltitude:      cfg.Scan.MaxAltitude,
			MaxScanLines:     cfg.Scan.MaxScanLines,
			MaxFlightSeconds: cfg.Scan.MaxFlightSeconds,
		},
	})

	slog.Info("authorization worker started", "task_queue", temporalclient.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
