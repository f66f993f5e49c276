//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	handler "github.com/alexsanchiss/uas-planner-sub002/internal/adapters/http"
	"github.com/alexsanchiss/uas-planner-sub002/internal/adapters/postgres"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/usecases"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/config"
)

// setupTestDB connects to the test database and returns a clean DB instance.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("uas-planner-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Skipf("database not reachable, skipping integration tests: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM flight_plans WHERE name LIKE 'itest-%'`)
		pool.Close()
	})
	return db
}

func setupIntegrationApp(t *testing.T, db *postgres.DB) *handler.Dependencies {
	planRepo := postgres.NewPlanRepo(db)
	authRepo := postgres.NewAuthorizationRepo(db)
	telemRepo := postgres.NewTelemetryRepo(db)

	return &handler.Dependencies{
		Plans:          usecases.NewPlanService(planRepo, nil, nil, scan.DefaultLimits),
		Authorizations: usecases.NewAuthorizationService(planRepo, authRepo, nil, nil),
		Telemetry:      usecases.NewTelemetryService(telemRepo, planRepo, nil, nil, 50),
		DB:             db,
	}
}

func TestIntegration_PlanLifecycle(t *testing.T) {
	db := setupTestDB(t)
	deps := setupIntegrationApp(t, db)
	app := setupApp(deps)

	// Create
	body := `{
		"name": "itest-survey",
		"operator": "itest-op",
		"config": {
			"polygon": [
				{"lat": 0, "lon": 0},
				{"lat": 0, "lon": 0.001},
				{"lat": 0.001, "lon": 0.001},
				{"lat": 0.001, "lon": 0}
			],
			"altitude": 50,
			"spacing": 20,
			"angle": 0,
			"start_point": {"lat": 0, "lon": 0},
			"speed": 5
		}
	}`
	req := httptest.NewRequest("POST", "/v1/plans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}

	var plan domain.FlightPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatal(err)
	}
	if plan.ID == "" {
		t.Fatal("expected plan ID from database")
	}

	// Generate
	req = httptest.NewRequest("POST", "/v1/plans/"+plan.ID+"/generate", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("generate: expected 200, got %d", resp.StatusCode)
	}

	var generated domain.FlightPlan
	json.NewDecoder(resp.Body).Decode(&generated)
	if generated.Status != domain.PlanStatusGenerated {
		t.Errorf("expected generated status, got %s", generated.Status)
	}
	if len(generated.Waypoints) == 0 {
		t.Error("expected waypoints after generation")
	}

	// Fetch round-trips the persisted path
	req = httptest.NewRequest("GET", "/v1/plans/"+plan.ID, nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}

	var fetched domain.FlightPlan
	json.NewDecoder(resp.Body).Decode(&fetched)
	if len(fetched.Waypoints) != len(generated.Waypoints) {
		t.Errorf("expected %d waypoints, got %d", len(generated.Waypoints), len(fetched.Waypoints))
	}

	// Delete
	req = httptest.NewRequest("DELETE", "/v1/plans/"+plan.ID, nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 204 {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/v1/plans/"+plan.ID, nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("get after delete: expected 404, got %d", resp.StatusCode)
	}
}
