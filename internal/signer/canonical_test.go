package signer

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/a/b/../c":  "/a/c",
		"/a/./b":     "/a/b",
		"":           "/",
		"/":          "/",
		"/a/b/":      "/a/b/",
		"/../../etc": "/etc",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizePath(in), "input %q", in)
	}
}

func TestAWSQueryEscapePreservesUnreserved(t *testing.T) {
	require.Equal(t, "a-b_c.d~e", awsQueryEscape("a-b_c.d~e"))
	require.Equal(t, "a%20b", awsQueryEscape("a b"))
	require.Equal(t, "%2F", awsQueryEscape("/"))
}

func TestSynthesizeHostOmitsDefaultPort(t *testing.T) {
	u, _ := url.Parse("https://Example.com:443/x")
	require.Equal(t, "example.com", synthesizeHost(u))

	u2, _ := url.Parse("https://example.com:8443/x")
	require.Equal(t, "example.com:8443", synthesizeHost(u2))
}

func TestSynthesizeHostBracketsIPv6(t *testing.T) {
	u, _ := url.Parse("http://[::1]:9000/x")
	require.Equal(t, "[::1]:9000", synthesizeHost(u))
}

func TestCanonicalQueryOrderKeyCase(t *testing.T) {
	u, _ := url.Parse("https://example.com/?b=2&a=1&A=0")
	r := NewRequest("GET", u)
	require.Equal(t, "A=0&a=1&b=2", canonicalQuery(r))
}

func TestHashReaderRestoresPosition(t *testing.T) {
	data := []byte("the quick brown fox")
	rs := bytes.NewReader(data)

	// Advance the cursor before hashing, as a caller that already peeked
	// at the body might.
	_, err := rs.Seek(4, 0)
	require.NoError(t, err)

	sum, err := hashReader(rs)
	require.NoError(t, err)
	require.Equal(t, hashBytes(data), sum)

	pos, err := rs.Seek(0, 1)
	require.NoError(t, err)
	require.EqualValues(t, 4, pos)
}

func TestPayloadHashDecisionTable(t *testing.T) {
	u, _ := url.Parse("https://example.com/")

	t.Run("empty body signed", func(t *testing.T) {
		r := NewRequest("GET", u)
		hash, err := payloadHash(r, false)
		require.NoError(t, err)
		require.Equal(t, emptyStringSHA256, hash)
	})

	t.Run("signing disabled yields UNSIGNED-PAYLOAD", func(t *testing.T) {
		r := NewRequest("GET", u)
		r.Context[CtxPayloadSigningEnabled] = false
		hash, err := payloadHash(r, false)
		require.NoError(t, err)
		require.Equal(t, unsignedPayload, hash)
	})

	t.Run("trailer checksum overrides everything", func(t *testing.T) {
		r := NewRequest("PUT", u)
		r.Context[CtxChecksum] = &Checksum{RequestAlgorithm: &ChecksumAlgorithm{Name: "CRC32", In: "trailer"}}
		hash, err := payloadHash(r, false)
		require.NoError(t, err)
		require.Equal(t, streamingUnsignedPayloadTrailer, hash)
	})

	t.Run("bytes body hashed", func(t *testing.T) {
		r := NewRequest("PUT", u)
		r.Body = Payload{Bytes: []byte("hello")}
		hash, err := payloadHash(r, false)
		require.NoError(t, err)
		require.Equal(t, hashBytes([]byte("hello")), hash)
	})
}
