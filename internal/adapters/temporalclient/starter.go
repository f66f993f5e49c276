package temporalclient

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
)

// TaskQueue is the queue the authorization worker listens on.
const TaskQueue = "authorization-queue"

// Starter implements ports.AuthorizationStarter by launching the
// authorization workflow on a Temporal cluster.
type Starter struct {
	c client.Client
}

// NewStarter dials the Temporal frontend.
func NewStarter(hostPort string) (*Starter, error) {
	c, err := client.Dial(client.Options{HostPort: hostPort})
	if err != nil {
		return nil, fmt.Errorf("temporal client: %w", err)
	}
	return &Starter{c: c}, nil
}

// StartAuthorization launches one workflow per plan. The deterministic
// workflow ID makes resubmission of the same plan idempotent while a
// run is in flight.
func (s *Starter) StartAuthorization(ctx context.Context, planID string) (string, error) {
	run, err := s.c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "authorization-" + planID,
		TaskQueue: TaskQueue,
	}, "AuthorizationWorkflow", planID)
	if err != nil {
		return "", fmt.Errorf("start workflow: %w", err)
	}
	return run.GetID(), nil
}

// Close releases the client.
func (s *Starter) Close() {
	s.c.Close()
}
