package provider

import "sort"

// Registry owns the full set of provider instances, sorted by ascending
// priority (§4.3). Disabled configs are filtered out at construction; the
// registry is immutable thereafter.
type Registry struct {
	ordered []Provider
	byName  map[string]Provider
}

// NewRegistry builds an immutable registry from already-constructed
// providers, keeping only the enabled ones and sorting by priority
// ascending (lowest numeric priority first).
func NewRegistry(providers ...Provider) *Registry {
	enabled := make([]Provider, 0, len(providers))
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		cfg := p.Config()
		if !cfg.Enabled {
			continue
		}
		enabled = append(enabled, p)
		byName[cfg.Name] = p
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Config().Priority < enabled[j].Config().Priority
	})
	return &Registry{ordered: enabled, byName: byName}
}

// Ordered returns the enabled providers sorted by ascending priority.
func (r *Registry) Ordered() []Provider {
	return append([]Provider(nil), r.ordered...)
}

// Get looks up a provider by name. Returns nil if absent or disabled.
func (r *Registry) Get(name string) Provider {
	return r.byName[name]
}

// Stats returns the live stats for every enabled provider, in priority
// order — the basis for the `providers` CLI command and the `GET
// /providers` HTTP endpoint (SPEC_FULL's supplemental features).
func (r *Registry) Stats() []Stats {
	out := make([]Stats, 0, len(r.ordered))
	for _, p := range r.ordered {
		out = append(out, p.Stats())
	}
	return out
}
