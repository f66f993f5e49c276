package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ReviewOutcome is the authority's verdict on a submitted plan.
type ReviewOutcome struct {
	Status string
	Reason string
}

// AuthorizationWorkflow orchestrates the review of a submitted flight plan:
// the plan is re-checked against airspace limits, a decision is recorded,
// and the operator is notified. If the notification fails after the decision
// was recorded, the decision is rolled back to pending (saga compensation)
// so a retry starts from a consistent state.
func AuthorizationWorkflow(ctx workflow.Context, planID string) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting authorization workflow", "planID", planID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Authority review of the plan
	var outcome ReviewOutcome
	err := workflow.ExecuteActivity(ctx, "ReviewPlan", planID).Get(ctx, &outcome)
	if err != nil {
		return err
	}

	// Authorities take their time; a short durable timer keeps the
	// API response decoupled from the decision.
	if err := workflow.Sleep(ctx, 5*time.Second); err != nil {
		return err
	}

	// Step 2: Record the decision
	err = workflow.ExecuteActivity(ctx, "RecordDecision", planID, outcome).Get(ctx, nil)
	if err != nil {
		return err
	}

	// Step 3: Notify the operator
	err = workflow.ExecuteActivity(ctx, "NotifyOperator", planID, outcome).Get(ctx, nil)
	if err != nil {
		logger.Warn("operator notification failed, compensating", "error", err)
		// Compensate: revert the decision so a resubmission is clean
		_ = workflow.ExecuteActivity(ctx, "RevertDecision", planID).Get(ctx, nil)
		return err
	}

	logger.Info("Authorization decided", "planID", planID, "status", outcome.Status)
	return nil
}
