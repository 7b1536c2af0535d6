// Package orchestrator implements BatchEnrichmentOrchestrator (§4.5):
// fan-out across (lead, operation) cells with bounded concurrency,
// persisting results and emitting progress events as each cell completes.
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/email"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/jobs"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/progress"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/store"
)

// PhoneLookuper is the subset of waterfall.Executor the orchestrator
// depends on, narrowed to an interface so tests can fake it without
// standing up a real provider registry.
type PhoneLookuper interface {
	Lookup(ctx context.Context, lead model.Lead) (model.PhoneResult, error)
}

// Orchestrator runs BatchEnrichmentOrchestrator. Every dependency is
// injected so the durable-workflow activities (internal/durable) can wrap
// the same cell logic instead of duplicating it.
type Orchestrator struct {
	store       store.Store
	waterfall   PhoneLookuper
	verifier    email.Verifier
	bus         *progress.Bus
	tracker     *jobs.Tracker
	concurrency int
}

// New constructs an Orchestrator. concurrency bounds the number of cells
// run at once — rate governance beyond that is left entirely to the
// providers' own QueuedRateLimiters (§4.5's "Rate governance" note).
func New(st store.Store, wf PhoneLookuper, verifier email.Verifier, bus *progress.Bus, tracker *jobs.Tracker, concurrency int) *Orchestrator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Orchestrator{store: st, waterfall: wf, verifier: verifier, bus: bus, tracker: tracker, concurrency: concurrency}
}

// IdempotencyKey derives the deterministic id a durable workflow engine
// would use for one dispatched external call, per §4.5's idempotency note:
// "(operation, lead.id, jobId)".
func IdempotencyKey(operation model.Operation, leadID int64, jobID string) string {
	return fmt.Sprintf("%s-%d-%s", operation, leadID, jobID)
}

// Submit creates a job for the given leads and operations and runs it to
// completion, blocking until every (lead, operation) cell has terminated.
// Callers that want fire-and-forget semantics (the HTTP `POST /jobs`
// handler) should use SubmitAsync instead.
func (o *Orchestrator) Submit(ctx context.Context, leads []model.Lead, operations []model.Operation) (string, error) {
	jobID := o.tracker.CreateEnrichmentJob(len(leads)*len(operations), operations)
	if err := o.run(ctx, jobID, leads, operations); err != nil {
		return jobID, err
	}
	return jobID, nil
}

// SubmitAsync creates a job and returns its id immediately, running the
// batch in the background. This is what lets a caller (the HTTP `POST
// /jobs` handler) subscribe to the returned jobId's progress room, or poll
// it, before the first cell has even started — satisfying §7's "returns a
// jobId synchronously" while still letting the ProgressBus be observed.
// The batch's context is detached from ctx's cancellation so that a
// request-scoped context going away when the handler returns does not
// kill work still in flight.
func (o *Orchestrator) SubmitAsync(ctx context.Context, leads []model.Lead, operations []model.Operation) string {
	jobID := o.tracker.CreateEnrichmentJob(len(leads)*len(operations), operations)

	go func() {
		if err := o.run(context.WithoutCancel(ctx), jobID, leads, operations); err != nil {
			zap.L().Error("orchestrator: async batch failed", zap.String("jobId", jobID), zap.Error(err))
		}
	}()

	return jobID
}

// run fans the batch out across (lead, operation) cells with bounded
// concurrency and publishes the terminal job-complete event once every
// cell has reported in.
func (o *Orchestrator) run(ctx context.Context, jobID string, leads []model.Lead, operations []model.Operation) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	var succeeded atomic.Int64

	for _, lead := range leads {
		lead := lead
		for _, op := range operations {
			op := op
			g.Go(func() error {
				if o.runCell(gctx, jobID, lead, op) {
					succeeded.Add(1)
				}
				return nil // a cell failure is reported via progress events, never aborts siblings
			})
		}
	}

	// errgroup.Wait only returns an error if one of the cells returned a
	// non-nil error, which runCell never does by design — ctx cancellation
	// still propagates through gctx to in-flight cells.
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "orchestrator: batch wait")
	}

	// TotalProcessed counts successful cells only (§7/§8): a batch where
	// every cell errors still fires job-complete, but with 0, not W.
	o.bus.Publish(jobID, progress.EventJobComplete, progress.JobCompleteData{
		JobID:          jobID,
		Type:           string(model.JobTypeEnrichment),
		TotalProcessed: int(succeeded.Load()),
	})
	o.tracker.Cleanup(jobID)

	return nil
}

// runCell executes exactly one (lead, operation) cell: dispatch, persist,
// emit a progress event, and increment the job counter exactly once.
// Returns true iff the cell succeeded.
func (o *Orchestrator) runCell(ctx context.Context, jobID string, lead model.Lead, op model.Operation) bool {
	log := zap.L().With(
		zap.String("jobId", jobID),
		zap.Int64("leadId", lead.ID),
		zap.String("operation", string(op)),
	)

	var data any
	var cellErr error

	switch op {
	case model.OperationVerifyEmail:
		data, cellErr = o.runVerifyEmail(ctx, lead)
	case model.OperationPhoneLookup:
		data, cellErr = o.runPhoneLookup(ctx, lead)
	default:
		cellErr = eris.Errorf("orchestrator: unknown operation %q", op)
	}

	job, _ := o.tracker.IncrementProgress(jobID)

	if cellErr != nil {
		log.Warn("cell failed", zap.Error(cellErr))
		o.bus.Publish(jobID, progress.EventOperationError, progress.OperationErrorData{
			LeadID:    lead.ID,
			Operation: string(op),
			Error:     cellErr.Error(),
		})
		return false
	}

	o.bus.Publish(jobID, progress.EventOperationComplete, progress.OperationCompleteData{
		LeadID:    lead.ID,
		Operation: string(op),
		Data:      data,
		Progress:  progress.Progress{Completed: job.ProcessedLeads, Total: job.TotalLeads},
	})
	return true
}

type verifyEmailData struct {
	EmailVerified bool `json:"emailVerified"`
}

func (o *Orchestrator) runVerifyEmail(ctx context.Context, lead model.Lead) (verifyEmailData, error) {
	if lead.EmailVerified.Known() {
		return verifyEmailData{EmailVerified: lead.EmailVerified.Bool()}, nil
	}

	verified, err := o.verifier.Verify(ctx, lead.Email)
	if err != nil {
		return verifyEmailData{}, eris.Wrapf(err, "orchestrator: verify email for lead %d", lead.ID)
	}

	triState := model.TriStateFromBool(verified)
	if err := o.store.UpdateFields(ctx, lead.ID, store.Fields{EmailVerified: &triState}); err != nil {
		return verifyEmailData{}, eris.Wrapf(err, "orchestrator: persist email_verified for lead %d", lead.ID)
	}

	return verifyEmailData{EmailVerified: verified}, nil
}

type phoneLookupData struct {
	Phone    string  `json:"phone"`
	Provider string  `json:"provider"`
	Cost     float64 `json:"cost"`
}

func (o *Orchestrator) runPhoneLookup(ctx context.Context, lead model.Lead) (phoneLookupData, error) {
	if lead.HasPhone() {
		return phoneLookupData{Phone: lead.PhoneNumber, Provider: "Existing", Cost: 0}, nil
	}

	res, err := o.waterfall.Lookup(ctx, lead)
	if err != nil {
		return phoneLookupData{}, eris.Wrapf(err, "orchestrator: phone lookup for lead %d", lead.ID)
	}

	if res.Found() {
		phone := res.Phone
		if err := o.store.UpdateFields(ctx, lead.ID, store.Fields{PhoneNumber: &phone}); err != nil {
			return phoneLookupData{}, eris.Wrapf(err, "orchestrator: persist phone for lead %d", lead.ID)
		}
	}

	return phoneLookupData{Phone: res.Phone, Provider: res.Provider, Cost: res.Cost}, nil
}
