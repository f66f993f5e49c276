package postgres

import (
	"context"
	"fmt"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

// AuthorizationRepo implements ports.AuthorizationRepository.
type AuthorizationRepo struct {
	db *DB
}

func NewAuthorizationRepo(db *DB) *AuthorizationRepo { return &AuthorizationRepo{db: db} }

func (r *AuthorizationRepo) Create(ctx context.Context, req *domain.AuthorizationRequest) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO authorization_requests (plan_id, status, authority, submitted_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, req.PlanID, req.Status, req.Authority, req.SubmittedAt).Scan(&req.ID)
}

// GetByPlan returns the most recent request for a plan.
func (r *AuthorizationRepo) GetByPlan(ctx context.Context, planID string) (*domain.AuthorizationRequest, error) {
	var req domain.AuthorizationRequest
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, plan_id, status, authority, COALESCE(reason, ''), submitted_at, decided_at
		FROM authorization_requests
		WHERE plan_id = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`, planID).Scan(&req.ID, &req.PlanID, &req.Status, &req.Authority,
		&req.Reason, &req.SubmittedAt, &req.DecidedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AuthorizationRepo) RecordDecision(ctx context.Context, id, status, reason string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE authorization_requests
		SET status = $2, reason = NULLIF($3, ''), decided_at = now()
		WHERE id = $1
	`, id, status, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("authorization request %s not found", id)
	}
	return nil
}
