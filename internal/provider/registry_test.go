package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegistry_OrdersByPriorityAscending(t *testing.T) {
	low := newBase(testConfig("low-priority", 5), &fakeLookup{})
	high := newBase(testConfig("high-priority", 1), &fakeLookup{})
	mid := newBase(testConfig("mid-priority", 3), &fakeLookup{})

	reg := NewRegistry(low, high, mid)
	ordered := reg.Ordered()

	assert.Len(t, ordered, 3)
	assert.Equal(t, "high-priority", ordered[0].Config().Name)
	assert.Equal(t, "mid-priority", ordered[1].Config().Name)
	assert.Equal(t, "low-priority", ordered[2].Config().Name)
}

func TestNewRegistry_FiltersDisabled(t *testing.T) {
	enabledCfg := testConfig("enabled", 1)
	disabledCfg := testConfig("disabled", 2)
	disabledCfg.Enabled = false

	reg := NewRegistry(
		newBase(enabledCfg, &fakeLookup{}),
		newBase(disabledCfg, &fakeLookup{}),
	)

	ordered := reg.Ordered()
	assert.Len(t, ordered, 1)
	assert.Equal(t, "enabled", ordered[0].Config().Name)
	assert.Nil(t, reg.Get("disabled"))
}

func TestRegistry_Get(t *testing.T) {
	p := newBase(testConfig("orion", 1), &fakeLookup{})
	reg := NewRegistry(p)

	assert.Equal(t, p, reg.Get("orion"))
	assert.Nil(t, reg.Get("absent"))
}

func TestRegistry_OrderedReturnsDefensiveCopy(t *testing.T) {
	p := newBase(testConfig("orion", 1), &fakeLookup{})
	reg := NewRegistry(p)

	ordered := reg.Ordered()
	ordered[0] = nil
	assert.NotNil(t, reg.Ordered()[0], "mutating the returned slice must not affect the registry")
}

func TestRegistry_Stats(t *testing.T) {
	a := newBase(testConfig("a", 1), &fakeLookup{})
	b := newBase(testConfig("b", 2), &fakeLookup{})
	reg := NewRegistry(b, a)

	stats := reg.Stats()
	assert.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].Provider)
	assert.Equal(t, "b", stats[1].Provider)
}
