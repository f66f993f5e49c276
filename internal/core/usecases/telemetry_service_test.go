package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/usecases"
)

// --- Mock TelemetryRepository ---

type mockTelemetryRepo struct {
	inserted []domain.TelemetryFix
	latestFn func(ctx context.Context, planID string, limit int) ([]domain.TelemetryFix, error)
}

func (m *mockTelemetryRepo) Insert(ctx context.Context, fix *domain.TelemetryFix) error {
	m.inserted = append(m.inserted, *fix)
	return nil
}
func (m *mockTelemetryRepo) InsertBatch(ctx context.Context, fixes []domain.TelemetryFix) error {
	m.inserted = append(m.inserted, fixes...)
	return nil
}
func (m *mockTelemetryRepo) LatestByPlan(ctx context.Context, planID string, limit int) ([]domain.TelemetryFix, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, planID, limit)
	}
	return nil, nil
}

// eastLeg is a plan whose only leg runs ~1113 m due east from the origin.
func eastLeg() *domain.FlightPlan {
	return &domain.FlightPlan{
		ID:     "plan-1",
		Status: domain.PlanStatusAuthorized,
		Waypoints: []domain.ScanWaypoint{
			{Lat: 0, Lon: 0, Altitude: 50, Speed: 5},
			{Lat: 0, Lon: 0.01, Altitude: 50, Speed: 5},
		},
	}
}

func TestTelemetryService_Ingest_OnTrack(t *testing.T) {
	repo := &mockTelemetryRepo{}
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.FlightPlan, error) {
			return eastLeg(), nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewTelemetryService(repo, plans, pub, nil, 50)

	fix := &domain.TelemetryFix{
		Time:     time.Now(),
		PlanID:   "plan-1",
		Aircraft: "uas-7",
		Location: domain.GeoPoint{Lat: 0.0001, Lon: 0.005}, // ~11 m off the leg
	}
	if err := svc.Ingest(context.Background(), fix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatal("fix not stored")
	}
	if len(pub.alerts) != 0 {
		t.Errorf("unexpected alert for an on-track fix: %+v", pub.alerts)
	}
}

func TestTelemetryService_Ingest_Deviation(t *testing.T) {
	repo := &mockTelemetryRepo{}
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.FlightPlan, error) {
			return eastLeg(), nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewTelemetryService(repo, plans, pub, nil, 50)

	fix := &domain.TelemetryFix{
		Time:     time.Now(),
		PlanID:   "plan-1",
		Aircraft: "uas-7",
		Location: domain.GeoPoint{Lat: 0.002, Lon: 0.005}, // ~222 m north of the leg
	}
	if err := svc.Ingest(context.Background(), fix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.alerts) != 1 {
		t.Fatalf("expected 1 deviation alert, got %d", len(pub.alerts))
	}
	if pub.alerts[0].Deviation < 200 || pub.alerts[0].Deviation > 250 {
		t.Errorf("deviation ~222 m expected, got %f", pub.alerts[0].Deviation)
	}
}

func TestTelemetryService_Ingest_RequiresPlanID(t *testing.T) {
	svc := usecases.NewTelemetryService(&mockTelemetryRepo{}, &mockPlanRepo{}, nil, nil, 50)
	if err := svc.Ingest(context.Background(), &domain.TelemetryFix{}); err == nil {
		t.Error("expected error for a fix without a plan id")
	}
}

func TestTelemetryService_Recent_ClampsLimit(t *testing.T) {
	repo := &mockTelemetryRepo{
		latestFn: func(ctx context.Context, planID string, limit int) ([]domain.TelemetryFix, error) {
			if limit != 100 {
				t.Errorf("expected limit clamped to 100, got %d", limit)
			}
			return nil, nil
		},
	}
	svc := usecases.NewTelemetryService(repo, &mockPlanRepo{}, nil, nil, 50)
	_, _ = svc.Recent(context.Background(), "plan-1", 99999)
}
