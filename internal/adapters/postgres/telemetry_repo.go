package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

// TelemetryRepo implements ports.TelemetryRepository.
type TelemetryRepo struct {
	db *DB
}

func NewTelemetryRepo(db *DB) *TelemetryRepo { return &TelemetryRepo{db: db} }

func (r *TelemetryRepo) Insert(ctx context.Context, fix *domain.TelemetryFix) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO telemetry_fixes (time, plan_id, aircraft, lat, lon, altitude, speed, heading)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, fix.Time, fix.PlanID, fix.Aircraft,
		fix.Location.Lat, fix.Location.Lon, fix.Altitude, fix.Speed, fix.Heading)
	return err
}

func (r *TelemetryRepo) InsertBatch(ctx context.Context, fixes []domain.TelemetryFix) error {
	batch := &pgx.Batch{}
	for _, f := range fixes {
		batch.Queue(`
			INSERT INTO telemetry_fixes (time, plan_id, aircraft, lat, lon, altitude, speed, heading)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, f.Time, f.PlanID, f.Aircraft,
			f.Location.Lat, f.Location.Lon, f.Altitude, f.Speed, f.Heading)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range fixes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func (r *TelemetryRepo) LatestByPlan(ctx context.Context, planID string, limit int) ([]domain.TelemetryFix, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT time, plan_id, aircraft, lat, lon, altitude, speed, heading
		FROM telemetry_fixes
		WHERE plan_id = $1
		ORDER BY time DESC
		LIMIT $2
	`, planID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixes []domain.TelemetryFix
	for rows.Next() {
		var f domain.TelemetryFix
		if err := rows.Scan(&f.Time, &f.PlanID, &f.Aircraft,
			&f.Location.Lat, &f.Location.Lon, &f.Altitude, &f.Speed, &f.Heading); err != nil {
			return nil, err
		}
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}
