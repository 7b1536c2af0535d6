package durable

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/email"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/provider"
)

// Activities bundles the side-effecting calls the workflows delegate to.
// Each method is registered as a Temporal activity; the provider's own
// retry policy (internal/httpx) governs attempts within the activity —
// the workflow itself performs no retries at the outer level (§4.4).
type Activities struct {
	registry *provider.Registry
	verifier email.Verifier
}

// NewActivities builds an Activities bundle over the given registry and
// email verifier.
func NewActivities(registry *provider.Registry, verifier email.Verifier) *Activities {
	return &Activities{registry: registry, verifier: verifier}
}

// PhoneLookupActivity runs exactly one provider attempt — the unit
// PhoneLookupWorkflow fans out across, one per provider, each under its
// own ActivityOptions.StartToCloseTimeout.
func (a *Activities) PhoneLookupActivity(ctx context.Context, providerName string, params model.LookupParams) (model.PhoneResult, error) {
	p := a.registry.Get(providerName)
	if p == nil {
		return model.PhoneResult{}, eris.Errorf("durable: unknown provider %q", providerName)
	}
	return p.Execute(ctx, params)
}

// VerifyEmailActivity runs the email-verification side effect.
func (a *Activities) VerifyEmailActivity(ctx context.Context, address string) (bool, error) {
	return a.verifier.Verify(ctx, address)
}
