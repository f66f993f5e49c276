package workflows

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/ports"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/usecases"
)

// AuthorizationActivities holds the activity implementations for the
// authorization workflow.
type AuthorizationActivities struct {
	Authorization *usecases.AuthorizationService
	Plans         ports.FlightPlanRepository
	Notifier      ports.NotificationService
	Limits        scan.Limits
}

// ReviewPlan re-checks a submitted plan against airspace limits and
// returns the authority's verdict. A plan that was edited between
// generation and review is caught here rather than in the air.
func (a *AuthorizationActivities) ReviewPlan(ctx context.Context, planID string) (ReviewOutcome, error) {
	plan, err := a.Plans.GetByID(ctx, planID)
	if err != nil {
		return ReviewOutcome{}, fmt.Errorf("get plan %s: %w", planID, err)
	}
	if len(plan.Waypoints) == 0 {
		return ReviewOutcome{
			Status: domain.AuthorizationRejected,
			Reason: "plan has no generated path",
		}, nil
	}

	v := scan.Validate(plan.Config, a.Limits)
	if !v.IsValid {
		return ReviewOutcome{
			Status: domain.AuthorizationRejected,
			Reason: strings.Join(v.Errors, "; "),
		}, nil
	}

	outcome := ReviewOutcome{Status: domain.AuthorizationApproved}
	if len(v.Warnings) > 0 {
		outcome.Reason = "approved with advisories: " + strings.Join(v.Warnings, "; ")
	}
	return outcome, nil
}

// RecordDecision persists the verdict and moves the plan status.
func (a *AuthorizationActivities) RecordDecision(ctx context.Context, planID string, outcome ReviewOutcome) error {
	if err := a.Authorization.Decide(ctx, planID, outcome.Status, outcome.Reason); err != nil {
		return fmt.Errorf("record decision for plan %s: %w", planID, err)
	}
	return nil
}

// NotifyOperator sends a push notification with the verdict.
func (a *AuthorizationActivities) NotifyOperator(ctx context.Context, planID string, outcome ReviewOutcome) error {
	plan, err := a.Plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("get plan %s: %w", planID, err)
	}
	title := "Flight plan authorized"
	body := fmt.Sprintf("Plan %q is cleared to fly.", plan.Name)
	if outcome.Status == domain.AuthorizationRejected {
		title = "Flight plan rejected"
		body = fmt.Sprintf("Plan %q was rejected: %s", plan.Name, outcome.Reason)
	} else if outcome.Reason != "" {
		body = fmt.Sprintf("Plan %q is cleared to fly. %s", plan.Name, outcome.Reason)
	}
	if a.Notifier == nil {
		log.Printf("PUSH (no notifier) → operator=%s title=%q body=%q", plan.Operator, title, body)
		return nil
	}
	return a.Notifier.SendPush(ctx, plan.Operator, title, body)
}

// RevertDecision rolls a decided plan back to the submitted state
// (saga compensation / rollback).
func (a *AuthorizationActivities) RevertDecision(ctx context.Context, planID string) error {
	if err := a.Authorization.Revert(ctx, planID); err != nil {
		return fmt.Errorf("revert decision for plan %s: %w", planID, err)
	}
	log.Printf("Plan %s decision reverted (saga compensation)", planID)
	return nil
}
