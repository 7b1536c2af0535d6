package waterfall

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/provider"
)

// fakeProvider implements provider.Provider directly, bypassing rate
// limiting entirely, so the waterfall's own cascade logic can be tested in
// isolation from internal/provider's concerns.
type fakeProvider struct {
	cfg    provider.Config
	result model.PhoneResult
	err    error
	calls  int
}

func (f *fakeProvider) Lookup(ctx context.Context, params model.LookupParams) (string, error) {
	return f.result.Phone, f.err
}

func (f *fakeProvider) Execute(ctx context.Context, params model.LookupParams) (model.PhoneResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeProvider) Config() provider.Config { return f.cfg }

func (f *fakeProvider) Stats() provider.Stats {
	return provider.Stats{Provider: f.cfg.Name, Priority: f.cfg.Priority, Enabled: f.cfg.Enabled}
}

// capturingProvider records the LookupParams it was called with, so tests
// can assert on normalization applied upstream of the provider.
type capturingProvider struct {
	cfg    provider.Config
	result model.PhoneResult
	err    error
	seen   model.LookupParams
}

func (c *capturingProvider) Lookup(ctx context.Context, params model.LookupParams) (string, error) {
	return c.result.Phone, c.err
}

func (c *capturingProvider) Execute(ctx context.Context, params model.LookupParams) (model.PhoneResult, error) {
	c.seen = params
	return c.result, c.err
}

func (c *capturingProvider) Config() provider.Config { return c.cfg }

func (c *capturingProvider) Stats() provider.Stats {
	return provider.Stats{Provider: c.cfg.Name, Priority: c.cfg.Priority, Enabled: c.cfg.Enabled}
}

func fakeCfg(name string, priority int) provider.Config {
	return provider.Config{Name: name, Priority: priority, Enabled: true}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRun_FirstProviderSucceeds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p1 := &fakeProvider{cfg: fakeCfg("orion", 1), result: model.PhoneResult{Phone: "+1-555-0001", Provider: "orion", Cost: 0.02}}
	p2 := &fakeProvider{cfg: fakeCfg("astra", 2), result: model.PhoneResult{Phone: "+1-555-0002", Provider: "astra", Cost: 0.01}}

	ex := NewExecutor(provider.NewRegistry(p1, p2)).WithNow(fixedClock(now))
	res, err := ex.Run(context.Background(), model.LookupParams{})

	require.NoError(t, err)
	assert.Equal(t, "+1-555-0001", res.Phone)
	assert.Equal(t, "orion", res.Provider)
	assert.Equal(t, 1, p1.calls)
	assert.Equal(t, 0, p2.calls, "second provider must not be tried once the first succeeds")
}

func TestRun_FallsThroughOnEmptyResult(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p1 := &fakeProvider{cfg: fakeCfg("orion", 1), result: model.PhoneResult{Phone: "", Provider: "orion"}}
	p2 := &fakeProvider{cfg: fakeCfg("astra", 2), result: model.PhoneResult{Phone: "+1-555-0002", Provider: "astra", Cost: 0.01}}

	ex := NewExecutor(provider.NewRegistry(p1, p2)).WithNow(fixedClock(now))
	res, err := ex.Run(context.Background(), model.LookupParams{})

	require.NoError(t, err)
	assert.Equal(t, "+1-555-0002", res.Phone)
	assert.Equal(t, 1, p1.calls)
	assert.Equal(t, 1, p2.calls)
}

func TestRun_ContinuesPastProviderFailure(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p1 := &fakeProvider{cfg: fakeCfg("orion", 1), err: assert.AnError}
	p2 := &fakeProvider{cfg: fakeCfg("astra", 2), result: model.PhoneResult{Phone: "+1-555-0002", Provider: "astra", Cost: 0.01}}

	ex := NewExecutor(provider.NewRegistry(p1, p2)).WithNow(fixedClock(now))
	res, err := ex.Run(context.Background(), model.LookupParams{})

	require.NoError(t, err)
	assert.Equal(t, "+1-555-0002", res.Phone)
	assert.Equal(t, 1, p1.calls)
	assert.Equal(t, 1, p2.calls)
}

func TestRun_AllExhaustedReturnsNoResult(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p1 := &fakeProvider{cfg: fakeCfg("orion", 1), result: model.PhoneResult{Phone: ""}}
	p2 := &fakeProvider{cfg: fakeCfg("astra", 2), err: assert.AnError}

	ex := NewExecutor(provider.NewRegistry(p1, p2)).WithNow(fixedClock(now))
	res, err := ex.Run(context.Background(), model.LookupParams{})

	require.NoError(t, err)
	assert.Equal(t, model.NoResult(now), res)
}

func TestRun_NormalizesMalformedFullNameCasing(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	capture := &capturingProvider{cfg: fakeCfg("orion", 1), result: model.PhoneResult{Phone: "+1-555-0004"}}

	ex := NewExecutor(provider.NewRegistry(capture)).WithNow(fixedClock(now))

	_, err := ex.Run(context.Background(), model.LookupParams{FullName: "  jOHN   sMITH  "})
	require.NoError(t, err)

	assert.Equal(t, "John Smith", capture.seen.FullName)
}

func TestLookup_NormalizesLeadIntoParams(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p1 := &capturingProvider{cfg: fakeCfg("orion", 1)}
	p1.result = model.PhoneResult{Phone: "+1-555-0003"}

	ex := NewExecutor(provider.NewRegistry(p1)).WithNow(fixedClock(now))
	lead := model.Lead{FirstName: "Ada", LastName: "Lovelace"}

	res, err := ex.Lookup(context.Background(), lead)
	require.NoError(t, err)
	assert.Equal(t, "+1-555-0003", res.Phone)
	assert.Equal(t, model.LookupParams{
		FullName:       "Ada Lovelace",
		CompanyWebsite: model.DefaultCompanyWebsite,
		JobTitle:       model.DefaultJobTitle,
	}, p1.seen)
}
