package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/ports"
)

// AuthorizationService handles the regulatory authorization lifecycle
// of a plan: submission, decision recording, and status queries. The
// long-running part (waiting for the authority) runs as a workflow
// behind the AuthorizationStarter port.
type AuthorizationService struct {
	plans   ports.FlightPlanRepository
	auths   ports.AuthorizationRepository
	starter ports.AuthorizationStarter
	events  ports.EventPublisher
}

// NewAuthorizationService creates a new AuthorizationService. starter
// and events may be nil (submission then only records the request).
func NewAuthorizationService(plans ports.FlightPlanRepository, auths ports.AuthorizationRepository, starter ports.AuthorizationStarter, events ports.EventPublisher) *AuthorizationService {
	return &AuthorizationService{plans: plans, auths: auths, starter: starter, events: events}
}

// Submit files an authorization request for a generated plan and starts
// the authorization workflow.
func (s *AuthorizationService) Submit(ctx context.Context, planID, authority string) (*domain.AuthorizationRequest, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanStatusGenerated {
		return nil, fmt.Errorf("plan %s has no generated path (status %s), generate before submitting", planID, plan.Status)
	}
	if authority == "" {
		authority = "AESA"
	}

	req := &domain.AuthorizationRequest{
		PlanID:      planID,
		Status:      domain.AuthorizationPending,
		Authority:   authority,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.auths.Create(ctx, req); err != nil {
		return nil, err
	}
	if err := s.plans.SetStatus(ctx, planID, domain.PlanStatusSubmitted); err != nil {
		return nil, err
	}

	if s.starter != nil {
		if _, err := s.starter.StartAuthorization(ctx, planID); err != nil {
			return nil, fmt.Errorf("start authorization workflow: %w", err)
		}
	}
	return req, nil
}

// Status returns the current authorization request for a plan.
func (s *AuthorizationService) Status(ctx context.Context, planID string) (*domain.AuthorizationRequest, error) {
	return s.auths.GetByPlan(ctx, planID)
}

// Decide records the authority's decision and propagates it to the plan
// status. Called by the workflow activities.
func (s *AuthorizationService) Decide(ctx context.Context, planID, status, reason string) error {
	if status != domain.AuthorizationApproved && status != domain.AuthorizationRejected {
		return fmt.Errorf("unknown decision status: %s", status)
	}

	req, err := s.auths.GetByPlan(ctx, planID)
	if err != nil {
		return err
	}
	if err := s.auths.RecordDecision(ctx, req.ID, status, reason); err != nil {
		return err
	}

	planStatus := domain.PlanStatusAuthorized
	if status == domain.AuthorizationRejected {
		planStatus = domain.PlanStatusRejected
	}
	if err := s.plans.SetStatus(ctx, planID, planStatus); err != nil {
		return err
	}

	if s.events != nil {
		req.Status = status
		req.Reason = reason
		_ = s.events.PublishAuthorizationDecision(ctx, req)
	}
	return nil
}

// Revert rolls a decided request back to pending and the plan back to
// submitted. Used when the decision could not be delivered.
func (s *AuthorizationService) Revert(ctx context.Context, planID string) error {
	req, err := s.auths.GetByPlan(ctx, planID)
	if err != nil {
		return err
	}
	if err := s.auths.RecordDecision(ctx, req.ID, domain.AuthorizationPending, ""); err != nil {
		return err
	}
	return s.plans.SetStatus(ctx, planID, domain.PlanStatusSubmitted)
}
