// Package email implements the email-verification activity the
// orchestrator dispatches for the verify-email operation (§4.5). Its
// implementation is intentionally opaque to the rest of the core — the
// spec treats it as a boolean-returning external call, the same shape as
// a provider lookup but without the waterfall's cascade or cost model.
package email

import "context"

// Verifier turns an email address into a verified/unverified boolean.
type Verifier interface {
	Verify(ctx context.Context, address string) (bool, error)
}

// stub is the default Verifier: it has no real mail-server integration in
// scope, so it deterministically reports every syntactically non-empty
// address as verified. Swap in a real implementation (e.g. an SMTP
// handshake or a third-party verification API) in place of NewStubVerifier.
type stub struct{}

// NewStubVerifier returns the default Verifier used when no other
// implementation is configured.
func NewStubVerifier() Verifier {
	return stub{}
}

func (stub) Verify(ctx context.Context, address string) (bool, error) {
	return address != "", nil
}
