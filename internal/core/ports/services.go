package ports

import (
	"context"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPlanEvent(ctx context.Context, event string, plan *domain.FlightPlan) error
	PublishAuthorizationDecision(ctx context.Context, req *domain.AuthorizationRequest) error
	PublishDeviationAlert(ctx context.Context, alert *domain.DeviationAlert) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeTelemetry(ctx context.Context, handler func(ctx context.Context, fix *domain.TelemetryFix) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// AuthorizationStarter launches the regulatory authorization workflow
// for a submitted plan.
type AuthorizationStarter interface {
	StartAuthorization(ctx context.Context, planID string) (workflowID string, err error)
}

// NotificationService sends notifications (push, email, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, operator, title, body string) error
}
