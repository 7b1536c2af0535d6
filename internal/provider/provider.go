// Package provider implements the PhoneProvider abstraction (§4.2) and the
// ProviderRegistry (§4.3): priority-ordered external phone-lookup backends,
// each gated through its own QueuedRateLimiter.
package provider

import (
	"context"
	"time"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/ratelimit"
)

// Config is the static, immutable configuration for one provider (§3).
// Config values are set once at process start and never mutated.
type Config struct {
	Name           string
	Priority       int
	CostPerRequest float64
	RateLimit      int
	TimeWindow     time.Duration
	MaxConcurrent  int
	Enabled        bool
	Timeout        time.Duration
}

// Stats merges live limiter state with static provider metadata (§4.2).
type Stats struct {
	Provider        string
	CostPerRequest  float64
	Priority        int
	Enabled         bool
	QueueLength     int
	ActiveRequests  int
	AvailableTokens int
}

// Lookuper is the provider-specific capability: turn LookupParams into a
// phone number (or "" when not found) by calling exactly one external
// backend. Implementations vary only in request shape, auth placement, and
// result extraction (§4.2's table).
type Lookuper interface {
	Lookup(ctx context.Context, params model.LookupParams) (string, error)
}

// Provider is the full capability exposed to the waterfall: Execute runs a
// lookup under the owned rate limiter and decorates the result with cost
// and provenance; Lookup is the raw capability; Config/Stats are
// observability accessors.
type Provider interface {
	Lookuper
	Execute(ctx context.Context, params model.LookupParams) (model.PhoneResult, error)
	Config() Config
	Stats() Stats
}

// base is the shared "execute combinator" from §9: it owns the rate
// limiter and the cost/timestamp decoration so each concrete provider only
// has to implement Lookuper.
type base struct {
	cfg     Config
	limiter *ratelimit.Limiter
	lookup  Lookuper
	now     func() time.Time
}

func newBase(cfg Config, lookup Lookuper) *base {
	return &base{
		cfg:     cfg,
		limiter: ratelimit.New(cfg.Name, cfg.RateLimit, cfg.TimeWindow, cfg.MaxConcurrent),
		lookup:  lookup,
		now:     time.Now,
	}
}

// Lookup delegates to the concrete implementation, bypassing the rate
// limiter — this is the raw capability used internally by Execute, and by
// tests that want to exercise extraction logic directly.
func (b *base) Lookup(ctx context.Context, params model.LookupParams) (string, error) {
	return b.lookup.Lookup(ctx, params)
}

// Execute runs one rate-limited attempt and decorates it into a
// PhoneResult. Cost is charged per attempt regardless of whether a phone
// was found, per §4.2's "Open question" note in §9 — this mirrors how the
// upstream APIs bill.
func (b *base) Execute(ctx context.Context, params model.LookupParams) (model.PhoneResult, error) {
	phone, err := ratelimit.Execute(ctx, b.limiter, func(ctx context.Context) (string, error) {
		return b.lookup.Lookup(ctx, params)
	})
	if err != nil {
		return model.PhoneResult{}, err
	}

	return model.PhoneResult{
		Phone:     phone,
		Provider:  b.cfg.Name,
		Cost:      b.cfg.CostPerRequest,
		Timestamp: b.now(),
	}, nil
}

// Config returns a defensive copy of the immutable provider config.
func (b *base) Config() Config {
	return b.cfg
}

// Stats merges limiter stats with static provider metadata.
func (b *base) Stats() Stats {
	ls := b.limiter.Stats()
	return Stats{
		Provider:        b.cfg.Name,
		CostPerRequest:  b.cfg.CostPerRequest,
		Priority:        b.cfg.Priority,
		Enabled:         b.cfg.Enabled,
		QueueLength:     ls.QueueLength,
		ActiveRequests:  ls.ActiveRequests,
		AvailableTokens: ls.AvailableTokens,
	}
}
