// Package jobs implements JobTracker (§4.6): per-process job records keyed
// by an opaque id, with progress counters and delayed cleanup.
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

// Tracker maintains job records for the lifetime of the process. All
// mutations go through a single mutex — the map and the delayed-cleanup
// timers are the shared state §5 calls out.
type Tracker struct {
	mu           sync.Mutex
	jobs         map[string]*model.Job
	cleanupDelay time.Duration
	now          func() time.Time
}

// New creates a Tracker whose cleanup fires cleanupDelay after a job
// completes.
func New(cleanupDelay time.Duration) *Tracker {
	return &Tracker{
		jobs:         make(map[string]*model.Job),
		cleanupDelay: cleanupDelay,
		now:          time.Now,
	}
}

// CreateJob registers a new job of the given type and returns its id.
func (t *Tracker) CreateJob(jobType model.JobType, totalLeads int) string {
	return t.create(jobType, totalLeads, nil)
}

// CreateEnrichmentJob registers a new enrichment job with the given
// operation set and returns its id.
func (t *Tracker) CreateEnrichmentJob(totalLeads int, operations []model.Operation) string {
	return t.create(model.JobTypeEnrichment, totalLeads, operations)
}

func (t *Tracker) create(jobType model.JobType, totalLeads int, operations []model.Operation) string {
	id := uuid.NewString()
	job := &model.Job{
		ID:         id,
		Type:       jobType,
		Operations: operations,
		TotalLeads: totalLeads,
		StartedAt:  t.now(),
	}

	t.mu.Lock()
	t.jobs[id] = job
	t.mu.Unlock()

	return id
}

// IncrementProgress increments processedLeads for jobId. When it reaches
// totalLeads, completedAt is stamped exactly once and the duration is
// logged. Returns the updated snapshot, or false if jobId is unknown (it
// may already have been cleaned up).
func (t *Tracker) IncrementProgress(jobId string) (model.Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[jobId]
	if !ok {
		return model.Job{}, false
	}

	job.ProcessedLeads++
	if job.ProcessedLeads >= job.TotalLeads && job.CompletedAt == nil {
		completedAt := t.now()
		job.CompletedAt = &completedAt
		zap.L().Info("jobs: job complete",
			zap.String("jobId", jobId),
			zap.Duration("duration", completedAt.Sub(job.StartedAt)),
			zap.Int("totalLeads", job.TotalLeads),
		)
	}

	return *job, true
}

// GetJob returns a snapshot of jobId, or false if absent.
func (t *Tracker) GetJob(jobId string) (model.Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[jobId]
	if !ok {
		return model.Job{}, false
	}
	return *job, true
}

// IsComplete reports whether jobId has completed. Unknown ids report false.
func (t *Tracker) IsComplete(jobId string) bool {
	job, ok := t.GetJob(jobId)
	return ok && job.IsComplete()
}

// Cleanup schedules removal of jobId after the tracker's cleanup delay,
// giving late subscribers (§4.7) time to observe the final state.
func (t *Tracker) Cleanup(jobId string) {
	time.AfterFunc(t.cleanupDelay, func() {
		t.mu.Lock()
		delete(t.jobs, jobId)
		t.mu.Unlock()
	})
}
