package ports

import (
	"context"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

// FlightPlanRepository persists authored flight plans.
type FlightPlanRepository interface {
	Create(ctx context.Context, plan *domain.FlightPlan) error
	Update(ctx context.Context, plan *domain.FlightPlan) error
	GetByID(ctx context.Context, id string) (*domain.FlightPlan, error)
	List(ctx context.Context, operator string, offset, limit int) ([]domain.FlightPlan, int, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.FlightPlan, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
}

// AuthorizationRepository persists regulatory authorization requests.
type AuthorizationRepository interface {
	Create(ctx context.Context, req *domain.AuthorizationRequest) error
	GetByPlan(ctx context.Context, planID string) (*domain.AuthorizationRequest, error)
	RecordDecision(ctx context.Context, id, status, reason string) error
}

// TelemetryRepository persists live position fixes.
type TelemetryRepository interface {
	Insert(ctx context.Context, fix *domain.TelemetryFix) error
	InsertBatch(ctx context.Context, fixes []domain.TelemetryFix) error
	LatestByPlan(ctx context.Context, planID string, limit int) ([]domain.TelemetryFix, error)
}
