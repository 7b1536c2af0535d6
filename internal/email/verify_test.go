package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubVerifier_NonEmptyAddress(t *testing.T) {
	v := NewStubVerifier()
	ok, err := v.Verify(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStubVerifier_EmptyAddress(t *testing.T) {
	v := NewStubVerifier()
	ok, err := v.Verify(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
