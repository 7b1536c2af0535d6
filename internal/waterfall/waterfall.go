// Package waterfall implements PhoneLookupWorkflow (§4.4): cascading
// through a provider.Registry in priority order, stopping at the first
// non-empty phone result.
package waterfall

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/provider"
)

// titleCaser normalizes CSV-sourced names of inconsistent case ("JOHN
// SMITH", "john smith") to a single title-cased form before they reach a
// provider's wire format.
var titleCaser = cases.Title(language.Und)

func normalizeFullName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

// Executor runs the waterfall cascade against a provider registry.
type Executor struct {
	registry *provider.Registry
	now      func() time.Time
}

// NewExecutor creates a waterfall executor over the given registry.
func NewExecutor(registry *provider.Registry) *Executor {
	return &Executor{registry: registry, now: time.Now}
}

// WithNow overrides the clock for testing.
func (e *Executor) WithNow(now func() time.Time) *Executor {
	e.now = now
	return e
}

// Run tries each provider in registry order and returns at the first
// success. A provider failure is recorded and logged but is not terminal —
// the cascade continues with the next provider (§4.4 step 3). If every
// provider is exhausted without a phone, the terminal "none" result is
// returned.
func (e *Executor) Run(ctx context.Context, params model.LookupParams) (model.PhoneResult, error) {
	params.FullName = normalizeFullName(params.FullName)

	for _, p := range e.registry.Ordered() {
		res, err := p.Execute(ctx, params)
		if err != nil {
			zap.L().Warn("waterfall: provider attempt failed, continuing cascade",
				zap.String("provider", p.Config().Name),
				zap.Error(err),
			)
			continue
		}
		if res.Found() {
			return res, nil
		}
	}
	return model.NoResult(e.now()), nil
}

// Lookup is the convenience entry point used by the orchestrator: it
// normalizes a lead into LookupParams and runs the cascade. (The CLI
// `lookup` subcommand builds its own LookupParams and calls Run.)
func (e *Executor) Lookup(ctx context.Context, lead model.Lead) (model.PhoneResult, error) {
	return e.Run(ctx, model.NewLookupParams(lead))
}
