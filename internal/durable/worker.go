package durable

import (
	"github.com/rotisserie/eris"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/email"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/provider"
)

// NewClient dials the Temporal frontend at hostPort for namespace.
func NewClient(hostPort, namespace string) (client.Client, error) {
	c, err := client.Dial(client.Options{HostPort: hostPort, Namespace: namespace})
	if err != nil {
		return nil, eris.Wrap(err, "durable: dial temporal")
	}
	return c, nil
}

// RunWorkers starts one worker per task queue (§6's routing) and blocks
// until interrupted. Each worker registers the same workflow/activity set;
// Temporal itself load-balances by task queue, not by worker identity.
func RunWorkers(c client.Client, registry *provider.Registry, verifier email.Verifier) error {
	activities := NewActivities(registry, verifier)
	phoneLookup := NewPhoneLookupWorkflow(registry)
	enrichmentBatch := NewEnrichmentBatchWorkflow(registry)

	queues := []string{TaskQueuePrimaryPhone, TaskQueueSecondaryPhone, TaskQueueEmailVerify}
	workers := make([]worker.Worker, 0, len(queues))

	for _, q := range queues {
		w := worker.New(c, q, worker.Options{})
		w.RegisterWorkflowWithOptions(phoneLookup, workflowRegisterOptions("PhoneLookupWorkflow"))
		w.RegisterWorkflowWithOptions(enrichmentBatch, workflowRegisterOptions("EnrichmentBatchWorkflow"))
		w.RegisterActivity(activities)
		workers = append(workers, w)
	}

	// Run the first worker in the foreground until InterruptCh fires; the
	// rest are started in the background and stopped by the deferred Stop
	// calls when it returns, so a single SIGINT/SIGTERM stops all of them.
	interrupt := worker.InterruptCh()
	for _, w := range workers[1:] {
		if err := w.Start(); err != nil {
			return eris.Wrap(err, "durable: start worker")
		}
		defer w.Stop()
	}

	if err := workers[0].Run(interrupt); err != nil {
		return eris.Wrap(err, "durable: run worker")
	}
	return nil
}

func workflowRegisterOptions(name string) workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: name}
}
