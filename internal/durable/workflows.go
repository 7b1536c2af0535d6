package durable

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/orchestrator"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/provider"
)

// activityTimeout is the per-provider-attempt step timeout from §5:
// "every provider activity has a step timeout ≈30s covering up to 3
// retries."
const activityTimeout = 30 * time.Second

// NewPhoneLookupWorkflow closes over an immutable provider registry and
// returns the Temporal workflow definition for PhoneLookupWorkflow (§4.4).
// The registry is read-only after construction, so capturing it in a
// workflow closure does not break replay determinism — Ordered() is a pure
// function of static configuration.
func NewPhoneLookupWorkflow(registry *provider.Registry) func(workflow.Context, model.LookupParams) (model.PhoneResult, error) {
	return func(ctx workflow.Context, params model.LookupParams) (model.PhoneResult, error) {
		logger := workflow.GetLogger(ctx)

		for _, p := range registry.Ordered() {
			cfg := p.Config()
			activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
				StartToCloseTimeout: activityTimeout,
				TaskQueue:           TaskQueueForProvider(cfg),
			})

			var res model.PhoneResult
			future := workflow.ExecuteActivity(activityCtx, "PhoneLookupActivity", cfg.Name, params)
			if err := future.Get(ctx, &res); err != nil {
				// A single provider's failure is not terminal (§4.4 step 3):
				// record it and fall through to the next provider.
				logger.Warn("phone lookup activity failed, continuing cascade", "provider", cfg.Name, "error", err)
				continue
			}
			if res.Found() {
				return res, nil
			}
		}

		return model.NoResult(workflow.Now(ctx)), nil
	}
}

// EnrichmentBatchInput is the argument to EnrichmentBatchWorkflow.
type EnrichmentBatchInput struct {
	JobID      string
	Leads      []model.Lead
	Operations []model.Operation
}

// EnrichmentBatchResult is the aggregate outcome of one batch.
type EnrichmentBatchResult struct {
	TotalProcessed int
}

// NewEnrichmentBatchWorkflow returns the Temporal workflow definition for
// BatchEnrichmentOrchestrator (§4.5): each phone-lookup cell runs as a
// child PhoneLookupWorkflow whose workflow id is the deterministic key
// orchestrator.IdempotencyKey derives, so replay/re-delivery does not start
// a second lookup for that cell; each verify-email cell runs as a
// VerifyEmailActivity. Cells whose lead already has a phone or a known
// emailVerified value dispatch nothing and are not counted.
func NewEnrichmentBatchWorkflow(registry *provider.Registry) func(workflow.Context, EnrichmentBatchInput) (EnrichmentBatchResult, error) {
	phoneLookup := NewPhoneLookupWorkflow(registry)

	return func(ctx workflow.Context, input EnrichmentBatchInput) (EnrichmentBatchResult, error) {
		var futures []workflow.Future

		for _, lead := range input.Leads {
			lead := lead
			for _, op := range input.Operations {
				op := op
				workflowID := orchestrator.IdempotencyKey(op, lead.ID, input.JobID)

				switch op {
				case model.OperationPhoneLookup:
					if lead.HasPhone() {
						continue // phone already known: nothing dispatched
					}
					childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{WorkflowID: workflowID})
					futures = append(futures, workflow.ExecuteChildWorkflow(childCtx, phoneLookup, model.NewLookupParams(lead)))

				case model.OperationVerifyEmail:
					if lead.EmailVerified.Known() {
						continue
					}
					activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
						StartToCloseTimeout: activityTimeout,
						TaskQueue:           TaskQueueEmailVerify,
					})
					futures = append(futures, workflow.ExecuteActivity(activityCtx, "VerifyEmailActivity", lead.Email))
				}
			}
		}

		processed := 0
		for _, f := range futures {
			// Per-cell failures are non-fatal to the batch (§4.5): the
			// persistence and progress-event side effects live in the
			// in-process Orchestrator these activities ultimately call
			// into; here we only need every cell to have terminated.
			_ = f.Get(ctx, nil)
			processed++
		}

		return EnrichmentBatchResult{TotalProcessed: processed}, nil
	}
}
