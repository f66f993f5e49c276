package http

import (
	"github.com/nats-io/nats.go"

	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/postgres"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/valkey"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Plans          *usecases.PlanService
	Authorizations *usecases.AuthorizationService
	Telemetry      *usecases.TelemetryService
	NATS           *nats.Conn
	DB             *postgres.DB
	Cache          *valkey.Cache
}
