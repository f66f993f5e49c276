package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/ports"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
)

// PlanService handles flight-plan authoring: CRUD plus waypoint
// generation through the scan engine.
type PlanService struct {
	plans  ports.FlightPlanRepository
	cache  ports.CacheService
	events ports.EventPublisher
	limits scan.Limits
}

// NewPlanService creates a new PlanService. cache and events may be nil.
func NewPlanService(plans ports.FlightPlanRepository, cache ports.CacheService, events ports.EventPublisher, limits scan.Limits) *PlanService {
	return &PlanService{plans: plans, cache: cache, events: events, limits: limits}
}

// ValidateConfig checks a scan configuration against the configured limits.
func (s *PlanService) ValidateConfig(cfg domain.ScanConfig) domain.ScanValidation {
	return scan.Validate(cfg, s.limits)
}

// GenerateWaypoints validates and, when valid, runs the scan engine.
// An invalid config is not an error: the caller receives the full
// validation report and a nil result. Generated results are memoized by
// config hash; the cache is read-through and the engine itself stays pure.
func (s *PlanService) GenerateWaypoints(ctx context.Context, cfg domain.ScanConfig) (*domain.ScanResult, domain.ScanValidation, error) {
	v := scan.Validate(cfg, s.limits)
	if !v.IsValid {
		return nil, v, nil
	}

	cacheKey := "scan:result:" + configHash(cfg)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var res domain.ScanResult
			if err := json.Unmarshal(data, &res); err == nil {
				return &res, v, nil
			}
		}
	}

	res, err := scan.Generate(cfg)
	if err != nil {
		return nil, v, fmt.Errorf("generate scan: %w", err)
	}

	// Cache for 1 hour; generation is deterministic, so staleness is
	// not a concern, only memory.
	if s.cache != nil {
		if data, err := json.Marshal(res); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return res, v, nil
}

// Create stores a new draft plan. The config must pass validation.
func (s *PlanService) Create(ctx context.Context, plan *domain.FlightPlan) error {
	if plan.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if v := scan.Validate(plan.Config, s.limits); !v.IsValid {
		return fmt.Errorf("scan config invalid: %v", v.Errors)
	}

	plan.Status = domain.PlanStatusDraft
	plan.Waypoints = nil
	plan.Statistics = nil

	if err := s.plans.Create(ctx, plan); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.PublishPlanEvent(ctx, "plan.created", plan)
	}
	return nil
}

// GeneratePlan runs the scan engine for a stored plan and persists the
// resulting path, moving the plan to the generated status.
func (s *PlanService) GeneratePlan(ctx context.Context, id string) (*domain.FlightPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res, v, err := s.GenerateWaypoints(ctx, plan.Config)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("scan config invalid: %v", v.Errors)
	}

	plan.Waypoints = res.Waypoints
	plan.Statistics = &res.Statistics
	plan.Status = domain.PlanStatusGenerated

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	if s.events != nil {
		_ = s.events.PublishPlanEvent(ctx, "plan.generated", plan)
	}
	return plan, nil
}

// GetByID returns a single plan.
func (s *PlanService) GetByID(ctx context.Context, id string) (*domain.FlightPlan, error) {
	return s.plans.GetByID(ctx, id)
}

// List returns plans, optionally filtered by operator, with the total count.
func (s *PlanService) List(ctx context.Context, operator string, offset, limit int) ([]domain.FlightPlan, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.plans.List(ctx, operator, offset, limit)
}

// FindNearby returns plans whose takeoff point lies within radiusMeters
// of the given location.
func (s *PlanService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.FlightPlan, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.plans.FindNearby(ctx, lat, lon, radiusMeters, limit)
}

// Update rewrites a plan's name and config. Any previously generated
// path is discarded because it no longer matches the config.
func (s *PlanService) Update(ctx context.Context, plan *domain.FlightPlan) error {
	if plan.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if v := scan.Validate(plan.Config, s.limits); !v.IsValid {
		return fmt.Errorf("scan config invalid: %v", v.Errors)
	}

	plan.Status = domain.PlanStatusDraft
	plan.Waypoints = nil
	plan.Statistics = nil

	if err := s.plans.Update(ctx, plan); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.PublishPlanEvent(ctx, "plan.updated", plan)
	}
	return nil
}

// Delete removes a plan.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}

// configHash produces a stable cache key for one scan configuration.
func configHash(cfg domain.ScanConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "unhashable"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
