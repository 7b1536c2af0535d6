package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

func TestCreateJob_UniqueIds(t *testing.T) {
	tr := New(time.Minute)
	id1 := tr.CreateJob(model.JobTypePhoneLookup, 5)
	id2 := tr.CreateJob(model.JobTypePhoneLookup, 5)
	assert.NotEqual(t, id1, id2)

	job, ok := tr.GetJob(id1)
	require.True(t, ok)
	assert.Equal(t, model.JobTypePhoneLookup, job.Type)
	assert.Equal(t, 5, job.TotalLeads)
	assert.Equal(t, 0, job.ProcessedLeads)
	assert.Nil(t, job.CompletedAt)
}

func TestCreateEnrichmentJob_CarriesOperations(t *testing.T) {
	tr := New(time.Minute)
	ops := []model.Operation{model.OperationVerifyEmail, model.OperationPhoneLookup}
	id := tr.CreateEnrichmentJob(3, ops)

	job, ok := tr.GetJob(id)
	require.True(t, ok)
	assert.Equal(t, model.JobTypeEnrichment, job.Type)
	assert.ElementsMatch(t, ops, job.Operations)
}

func TestIncrementProgress_StampsCompletedAtExactlyOnce(t *testing.T) {
	tr := New(time.Minute)
	id := tr.CreateJob(model.JobTypePhoneLookup, 2)

	job, ok := tr.IncrementProgress(id)
	require.True(t, ok)
	assert.Equal(t, 1, job.ProcessedLeads)
	assert.Nil(t, job.CompletedAt)

	job, ok = tr.IncrementProgress(id)
	require.True(t, ok)
	assert.Equal(t, 2, job.ProcessedLeads)
	require.NotNil(t, job.CompletedAt)
	firstCompletedAt := *job.CompletedAt

	// Incrementing further (shouldn't normally happen) must not restamp.
	job, ok = tr.IncrementProgress(id)
	require.True(t, ok)
	assert.Equal(t, firstCompletedAt, *job.CompletedAt)
}

func TestIncrementProgress_UnknownJob(t *testing.T) {
	tr := New(time.Minute)
	_, ok := tr.IncrementProgress("missing")
	assert.False(t, ok)
}

func TestIsComplete(t *testing.T) {
	tr := New(time.Minute)
	id := tr.CreateJob(model.JobTypePhoneLookup, 1)
	assert.False(t, tr.IsComplete(id))

	tr.IncrementProgress(id)
	assert.True(t, tr.IsComplete(id))
}

func TestCleanup_RemovesJobAfterDelay(t *testing.T) {
	tr := New(20 * time.Millisecond)
	id := tr.CreateJob(model.JobTypePhoneLookup, 1)
	tr.Cleanup(id)

	_, ok := tr.GetJob(id)
	assert.True(t, ok, "job should still be present before the delay elapses")

	assert.Eventually(t, func() bool {
		_, ok := tr.GetJob(id)
		return !ok
	}, time.Second, 5*time.Millisecond)
}
