package signer

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBearerReplacesAuthorizationHeader(t *testing.T) {
	u, _ := url.Parse("https://api.example.com/resource")
	r := NewRequest("GET", u)
	r.Header.Set("Authorization", "stale-value")

	s := NewBearer(Config{Token: "eyJhbGciOi"})
	require.NoError(t, s.AddAuth(r))
	require.Equal(t, "Bearer eyJhbGciOi", r.Header.Get("Authorization"))
	require.Len(t, r.Header["Authorization"], 1)
}

func TestBearerFailsWithoutToken(t *testing.T) {
	u, _ := url.Parse("https://api.example.com/resource")
	r := NewRequest("GET", u)

	s := NewBearer(Config{})
	require.ErrorIs(t, s.AddAuth(r), ErrNoAuthToken)
}
