package durable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/provider"
)

func TestTaskQueueForProvider_PriorityOneGetsPrimary(t *testing.T) {
	assert.Equal(t, TaskQueuePrimaryPhone, TaskQueueForProvider(provider.Config{Priority: 1}))
}

func TestTaskQueueForProvider_OthersGetSecondary(t *testing.T) {
	assert.Equal(t, TaskQueueSecondaryPhone, TaskQueueForProvider(provider.Config{Priority: 2}))
	assert.Equal(t, TaskQueueSecondaryPhone, TaskQueueForProvider(provider.Config{Priority: 3}))
}
