package provider

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with YAML-friendly duration fields.
type fileConfig struct {
	Name           string  `yaml:"name"`
	Priority       int     `yaml:"priority"`
	CostPerRequest float64 `yaml:"cost_per_request"`
	RateLimit      int     `yaml:"rate_limit"`
	TimeWindowMS   int     `yaml:"time_window_ms"`
	MaxConcurrent  int     `yaml:"max_concurrent"`
	Enabled        bool    `yaml:"enabled"`
	TimeoutMS      int     `yaml:"timeout_ms"`
}

// LoadConfigs reads a YAML file of the form:
//
//	providers:
//	  - name: orion
//	    priority: 1
//	    ...
//
// and returns the parsed Config values in file order. Names must be
// unique (§3's invariant); LoadConfigs enforces that.
func LoadConfigs(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "provider: read config %s", path)
	}
	return ParseConfigs(data)
}

// ParseConfigs parses raw YAML bytes into Config values, enforcing unique
// names. Exposed separately from LoadConfigs so callers (and tests) can
// supply in-memory YAML without touching the filesystem.
func ParseConfigs(data []byte) ([]Config, error) {
	var wrapper struct {
		Providers []fileConfig `yaml:"providers"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "provider: parse config")
	}

	seen := make(map[string]bool, len(wrapper.Providers))
	cfgs := make([]Config, 0, len(wrapper.Providers))
	for _, fc := range wrapper.Providers {
		if seen[fc.Name] {
			return nil, eris.Errorf("provider: duplicate provider name %q", fc.Name)
		}
		seen[fc.Name] = true

		cfgs = append(cfgs, Config{
			Name:           fc.Name,
			Priority:       fc.Priority,
			CostPerRequest: fc.CostPerRequest,
			RateLimit:      fc.RateLimit,
			TimeWindow:     time.Duration(fc.TimeWindowMS) * time.Millisecond,
			MaxConcurrent:  fc.MaxConcurrent,
			Enabled:        fc.Enabled,
			Timeout:        time.Duration(fc.TimeoutMS) * time.Millisecond,
		})
	}
	return cfgs, nil
}

// DefaultConfigs returns the three shipped provider configs exactly as
// specified in §6 — the defaults used when no providers.yaml is present.
func DefaultConfigs() []Config {
	return []Config{
		{
			Name:           "Orion Connect",
			Priority:       1,
			CostPerRequest: 0.02,
			RateLimit:      5,
			TimeWindow:     time.Second,
			MaxConcurrent:  3,
			Enabled:        true,
			Timeout:        10 * time.Second,
		},
		{
			Name:           "Astra Dialer",
			Priority:       2,
			CostPerRequest: 0.01,
			RateLimit:      10,
			TimeWindow:     time.Second,
			MaxConcurrent:  10,
			Enabled:        true,
			Timeout:        10 * time.Second,
		},
		{
			Name:           "Nimbus Lookup",
			Priority:       3,
			CostPerRequest: 0.015,
			RateLimit:      2,
			TimeWindow:     time.Second,
			MaxConcurrent:  2,
			Enabled:        true,
			Timeout:        10 * time.Second,
		},
	}
}
