package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/ports"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/geospatial"
)

// TelemetryService ingests live position fixes and raises deviation
// alerts when an aircraft strays from its authored path.
type TelemetryService struct {
	telemetry ports.TelemetryRepository
	plans     ports.FlightPlanRepository
	events    ports.EventPublisher
	cache     ports.CacheService

	// DeviationThreshold is the cross-track distance in meters beyond
	// which a fix triggers an alert.
	DeviationThreshold float64
}

// NewTelemetryService creates a new TelemetryService.
func NewTelemetryService(telemetry ports.TelemetryRepository, plans ports.FlightPlanRepository, events ports.EventPublisher, cache ports.CacheService, deviationThreshold float64) *TelemetryService {
	if deviationThreshold <= 0 {
		deviationThreshold = 50
	}
	return &TelemetryService{
		telemetry:          telemetry,
		plans:              plans,
		events:             events,
		cache:              cache,
		DeviationThreshold: deviationThreshold,
	}
}

// Ingest stores a fix and checks it against the planned path.
func (s *TelemetryService) Ingest(ctx context.Context, fix *domain.TelemetryFix) error {
	if fix.PlanID == "" {
		return fmt.Errorf("telemetry fix has no plan id")
	}
	if err := s.telemetry.Insert(ctx, fix); err != nil {
		return err
	}

	waypoints, err := s.planWaypoints(ctx, fix.PlanID)
	if err != nil || len(waypoints) < 2 {
		return nil // no path to deviate from
	}

	dev := minCrossTrack(waypoints, fix.Location)
	if dev > s.DeviationThreshold && s.events != nil {
		_ = s.events.PublishDeviationAlert(ctx, &domain.DeviationAlert{
			Time:      fix.Time,
			PlanID:    fix.PlanID,
			Aircraft:  fix.Aircraft,
			Location:  fix.Location,
			Deviation: dev,
		})
	}
	return nil
}

// IngestBatch stores many fixes at once without deviation checks; the
// tracker daemon uses it for backfill.
func (s *TelemetryService) IngestBatch(ctx context.Context, fixes []domain.TelemetryFix) error {
	if len(fixes) == 0 {
		return nil
	}
	return s.telemetry.InsertBatch(ctx, fixes)
}

// Recent returns the latest fixes for a plan, newest first.
func (s *TelemetryService) Recent(ctx context.Context, planID string, limit int) ([]domain.TelemetryFix, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.telemetry.LatestByPlan(ctx, planID, limit)
}

// planWaypoints loads a plan's path, through the cache when available.
// Authored paths are immutable once generated, so a short TTL only
// bounds memory.
func (s *TelemetryService) planWaypoints(ctx context.Context, planID string) ([]domain.ScanWaypoint, error) {
	cacheKey := "plan:path:" + planID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var wps []domain.ScanWaypoint
			if err := json.Unmarshal(data, &wps); err == nil {
				return wps, nil
			}
		}
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(plan.Waypoints) > 0 {
		if data, err := json.Marshal(plan.Waypoints); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return plan.Waypoints, nil
}

// minCrossTrack returns the smallest distance from p to any leg of the path.
func minCrossTrack(waypoints []domain.ScanWaypoint, p domain.GeoPoint) float64 {
	min := math.Inf(1)
	for i := 1; i < len(waypoints); i++ {
		a := domain.GeoPoint{Lat: waypoints[i-1].Lat, Lon: waypoints[i-1].Lon}
		b := domain.GeoPoint{Lat: waypoints[i].Lat, Lon: waypoints[i].Lon}
		if d := geospatial.CrossTrackDistance(a, b, p); d < min {
			min = d
		}
	}
	return min
}
