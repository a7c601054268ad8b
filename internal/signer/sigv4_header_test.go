package signer

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// TestSigV4HeaderVanilla reproduces spec §8 scenario 1: a GET request
// against IAM's ListUsers action, signed with the well-known AKIDEXAMPLE
// credentials. The expected signature is the one spec.md states directly
// and is independent of this implementation.
func TestSigV4HeaderVanilla(t *testing.T) {
	u, err := url.Parse("https://iam.amazonaws.com/?Action=ListUsers&Version=2010-05-08")
	require.NoError(t, err)

	r := NewRequest("GET", u)
	r.Header.Set("Host", "iam.amazonaws.com")

	cfg := Config{
		Credentials: Credentials{
			AccessKey: "AKIDEXAMPLE",
			SecretKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		},
		Region:  "us-east-1",
		Service: "iam",
		Clock:   fixedClock(time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC)),
	}

	s := NewSigV4Header(cfg)
	require.NoError(t, s.AddAuth(r))

	require.Equal(t, "20150830T123600Z", r.Header.Get("X-Amz-Date"))
	require.Equal(t,
		"AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/iam/aws4_request, "+
			"SignedHeaders=host;x-amz-date, "+
			"Signature=5d672d79c15b13162d9279b0855cfba6789a8edb4c82c400e06b5924a6f2b5d7",
		r.Header.Get("Authorization"))
}

// TestSigV4HeaderDateHeaderExclusivity checks spec's rule that a
// caller-supplied Date header suppresses X-Amz-Date rather than
// coexisting with it.
func TestSigV4HeaderDateHeaderExclusivity(t *testing.T) {
	u, _ := url.Parse("https://example.amazonaws.com/")
	r := NewRequest("GET", u)
	r.Header.Set("Date", "ignored, will be rewritten")

	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret"},
		Region:      "us-east-1",
		Service:     "service",
		Clock:       fixedClock(time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC)),
	}

	require.NoError(t, NewSigV4Header(cfg).AddAuth(r))
	require.Empty(t, r.Header.Get("X-Amz-Date"))
	require.Equal(t, "Sun, 30 Aug 2015 12:36:00 GMT", r.Header.Get("Date"))
}

// TestS3HeaderSignerPathNotNormalized verifies the S3 overlay passes "."
// and ".." path segments through untouched, unlike the generic signer.
func TestS3HeaderSignerPathNotNormalized(t *testing.T) {
	u, _ := url.Parse("https://bucket.s3.amazonaws.com/a/./b/../c")
	r := NewRequest("GET", u)

	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret"},
		Region:      "us-east-1",
		Service:     "s3",
		Clock:       fixedClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, NewS3SigV4Header(cfg).AddAuth(r))
	require.Contains(t, r.Header.Get("Authorization"), "SignedHeaders=host;x-amz-content-sha256;x-amz-date")
	require.NotEmpty(t, r.Header.Get("X-Amz-Content-Sha256"))

	generic := canonicalPath(u, true)
	s3 := canonicalPath(u, false)
	require.NotEqual(t, generic, s3)
	require.Equal(t, "/a/./b/../c", s3)
	require.Equal(t, "/a/c", generic)
}

func TestS3ExpressHeaderUsesSessionTokenName(t *testing.T) {
	u, _ := url.Parse("https://bucket.s3express-use1-az4.amazonaws.com/key")
	r := NewRequest("PUT", u)

	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret", Token: "sessiontoken"},
		Region:      "us-east-1",
		Service:     "s3express",
		Clock:       fixedClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	require.NoError(t, NewS3ExpressHeader(cfg).AddAuth(r))
	require.Equal(t, "sessiontoken", r.Header.Get("X-Amz-S3session-Token"))
	require.Empty(t, r.Header.Get("X-Amz-Security-Token"))
}
