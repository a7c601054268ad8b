package signer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveAuthTypePrefersFirstRegisteredTrait(t *testing.T) {
	r := NewRegistry()

	tag, err := r.ResolveAuthType([]string{TraitSigV4, TraitHTTPBearer})
	require.NoError(t, err)
	require.Equal(t, SchemeV4, tag)
}

// TestResolveAuthTypeSkipsUnmappedScheme covers the SigV4a case: the
// trait is recognized, but its scheme carries no constructor in this
// pure-Go core, so resolution must keep scanning rather than stop.
func TestResolveAuthTypeSkipsUnmappedScheme(t *testing.T) {
	r := NewRegistry()

	tag, err := r.ResolveAuthType([]string{TraitSigV4A, TraitHTTPBearer})
	require.NoError(t, err)
	require.Equal(t, SchemeBearer, tag)
}

func TestResolveAuthTypeUnknownTraitFails(t *testing.T) {
	r := NewRegistry()

	_, err := r.ResolveAuthType([]string{"some.other#trait"})
	require.ErrorIs(t, err, ErrUnknownSignatureVersion)
}

func TestResolveAuthTypeExhaustedListFails(t *testing.T) {
	r := NewRegistry()

	// noAuth maps to a scheme this core never registers a constructor
	// for, so an all-noAuth list is exhausted without a match.
	_, err := r.ResolveAuthType([]string{TraitNoAuth})
	require.ErrorIs(t, err, ErrUnsupportedSignatureVersion)
}

func TestRegistryNewUnknownSchemeFails(t *testing.T) {
	r := NewRegistry()

	_, err := r.New(SchemeV4A, Config{})
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestRegistryCapabilitiesReportsRequirements(t *testing.T) {
	r := NewRegistry()

	caps, ok := r.Capabilities(SchemeV4S3Express)
	require.True(t, ok)
	require.True(t, caps.RequiresRegion)
	require.True(t, caps.RequiresIdentityCache)

	caps, ok = r.Capabilities(SchemeBearer)
	require.True(t, ok)
	require.True(t, caps.RequiresToken)
	require.False(t, caps.RequiresRegion)
}
