package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/geospatial"
)

// PlanRepo implements ports.FlightPlanRepository. The scan config,
// waypoints, and statistics are stored as JSONB; the takeoff point is
// duplicated into plain columns so nearby queries can use an index.
type PlanRepo struct {
	db *DB
}

func NewPlanRepo(db *DB) *PlanRepo { return &PlanRepo{db: db} }

func (r *PlanRepo) Create(ctx context.Context, plan *domain.FlightPlan) error {
	cfg, err := json.Marshal(plan.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO flight_plans (name, operator, status, config, takeoff_lat, takeoff_lon)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, plan.Name, plan.Operator, plan.Status, cfg,
		plan.Config.StartPoint.Lat, plan.Config.StartPoint.Lon,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

func (r *PlanRepo) Update(ctx context.Context, plan *domain.FlightPlan) error {
	cfg, err := json.Marshal(plan.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var waypoints, stats []byte
	if plan.Waypoints != nil {
		if waypoints, err = json.Marshal(plan.Waypoints); err != nil {
			return fmt.Errorf("marshal waypoints: %w", err)
		}
	}
	if plan.Statistics != nil {
		if stats, err = json.Marshal(plan.Statistics); err != nil {
			return fmt.Errorf("marshal statistics: %w", err)
		}
	}

	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE flight_plans
		SET name = $2, operator = $3, status = $4, config = $5,
		    waypoints = $6, statistics = $7,
		    takeoff_lat = $8, takeoff_lon = $9, updated_at = now()
		WHERE id = $1
	`, plan.ID, plan.Name, plan.Operator, plan.Status, cfg, waypoints, stats,
		plan.Config.StartPoint.Lat, plan.Config.StartPoint.Lon)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %s not found", plan.ID)
	}
	return nil
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*domain.FlightPlan, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, operator, status, config, waypoints, statistics, created_at, updated_at
		FROM flight_plans WHERE id = $1
	`, id)
	return scanPlan(row)
}

func (r *PlanRepo) List(ctx context.Context, operator string, offset, limit int) ([]domain.FlightPlan, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM flight_plans WHERE ($1 = '' OR operator = $1)
	`, operator).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, operator, status, config, waypoints, statistics, created_at, updated_at
		FROM flight_plans
		WHERE ($1 = '' OR operator = $1)
		ORDER BY updated_at DESC
		OFFSET $2 LIMIT $3
	`, operator, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []domain.FlightPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, *p)
	}
	return plans, total, rows.Err()
}

// FindNearby prefilters with a bounding box on the indexed takeoff
// columns, then orders by exact haversine distance.
func (r *PlanRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.FlightPlan, error) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusMeters)

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, operator, status, config, waypoints, statistics, created_at, updated_at
		FROM flight_plans
		WHERE takeoff_lat BETWEEN $1 AND $2
		  AND takeoff_lon BETWEEN $3 AND $4
		LIMIT $5
	`, minLat, maxLat, minLon, maxLon, limit*4)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.FlightPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		if geospatial.Haversine(lat, lon, p.Config.StartPoint.Lat, p.Config.StartPoint.Lon) <= radiusMeters {
			plans = append(plans, *p)
		}
		if len(plans) == limit {
			break
		}
	}
	return plans, rows.Err()
}

func (r *PlanRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM flight_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %s not found", id)
	}
	return nil
}

func (r *PlanRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE flight_plans SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %s not found", id)
	}
	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.FlightPlan, error) {
	var p domain.FlightPlan
	var cfg, waypoints, stats []byte

	if err := row.Scan(&p.ID, &p.Name, &p.Operator, &p.Status,
		&cfg, &waypoints, &stats, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(cfg, &p.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(waypoints) > 0 {
		if err := json.Unmarshal(waypoints, &p.Waypoints); err != nil {
			return nil, fmt.Errorf("unmarshal waypoints: %w", err)
		}
	}
	if len(stats) > 0 {
		var s domain.ScanStatistics
		if err := json.Unmarshal(stats, &s); err != nil {
			return nil, fmt.Errorf("unmarshal statistics: %w", err)
		}
		p.Statistics = &s
	}
	return &p, nil
}
