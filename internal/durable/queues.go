// Package durable implements the durable-workflow-engine contract (§6)
// on top of go.temporal.io/sdk: startChildWorkflow/handle.result() becomes
// client.ExecuteWorkflow/WorkflowRun.Get, and each provider attempt runs
// as a separately timed activity (§4.4's durability contract).
package durable

import "github.com/Genesy-AI/backend-technical-task-joe/internal/provider"

// Task queues bound worker concurrency independently per provider tier, per
// §6: Orion gets its own queue since it's the highest-priority provider,
// the remaining providers share a second queue, and email
// verification is isolated on a third so a slow mail check can't starve
// phone lookups.
const (
	TaskQueuePrimaryPhone   = "phone-verify-1"
	TaskQueueSecondaryPhone = "phone-verify-2"
	TaskQueueEmailVerify    = "email-verification-queue"
)

// TaskQueueForProvider routes a provider by priority: the highest-priority
// (lowest numeric Priority) provider gets the dedicated primary queue,
// everything else shares the secondary queue.
func TaskQueueForProvider(cfg provider.Config) string {
	if cfg.Priority == 1 {
		return TaskQueuePrimaryPhone
	}
	return TaskQueueSecondaryPhone
}
