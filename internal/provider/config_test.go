package provider

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
providers:
  - name: orion
    priority: 1
    cost_per_request: 0.02
    rate_limit: 5
    time_window_ms: 1000
    max_concurrent: 3
    enabled: true
    timeout_ms: 10000
  - name: astra
    priority: 2
    cost_per_request: 0.01
    rate_limit: 10
    time_window_ms: 1000
    max_concurrent: 10
    enabled: false
    timeout_ms: 10000
`

func TestParseConfigs_ParsesFieldsAndDurations(t *testing.T) {
	cfgs, err := ParseConfigs([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, cfgs, 2)

	assert.Equal(t, "orion", cfgs[0].Name)
	assert.Equal(t, 1, cfgs[0].Priority)
	assert.Equal(t, 0.02, cfgs[0].CostPerRequest)
	assert.Equal(t, 5, cfgs[0].RateLimit)
	assert.Equal(t, time.Second, cfgs[0].TimeWindow)
	assert.Equal(t, 3, cfgs[0].MaxConcurrent)
	assert.True(t, cfgs[0].Enabled)
	assert.Equal(t, 10*time.Second, cfgs[0].Timeout)

	assert.False(t, cfgs[1].Enabled)
}

func TestParseConfigs_RejectsDuplicateNames(t *testing.T) {
	dup := `
providers:
  - name: orion
    priority: 1
  - name: orion
    priority: 2
`
	_, err := ParseConfigs([]byte(dup))
	assert.Error(t, err)
}

func TestLoadConfigs_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfgs, err := LoadConfigs(path)
	require.NoError(t, err)
	assert.Len(t, cfgs, 2)
}

func TestLoadConfigs_MissingFile(t *testing.T) {
	_, err := LoadConfigs(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfigs_MatchesShippedValues(t *testing.T) {
	cfgs := DefaultConfigs()
	require.Len(t, cfgs, 3)

	assert.Equal(t, "Orion Connect", cfgs[0].Name)
	assert.Equal(t, 1, cfgs[0].Priority)
	assert.Equal(t, "Astra Dialer", cfgs[1].Name)
	assert.Equal(t, 2, cfgs[1].Priority)
	assert.Equal(t, "Nimbus Lookup", cfgs[2].Name)
	assert.Equal(t, 3, cfgs[2].Priority)

	for _, c := range cfgs {
		assert.True(t, c.Enabled)
	}
}
