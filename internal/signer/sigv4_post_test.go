package signer

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/prn-tf/alexander-sigkit/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestS3PostSignerBuildsPolicyAndSignature(t *testing.T) {
	u, _ := url.Parse("https://examplebucket.s3.amazonaws.com/")
	r := NewRequest("POST", u)
	r.Context[CtxPresignPostPolicy] = map[string]any{
		"expiration": "2020-01-02T00:00:00Z",
		"conditions": []any{
			map[string]string{"bucket": "examplebucket"},
		},
	}

	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret"},
		Region:      "us-east-1",
		Service:     "s3",
		Clock:       fixedClock(now),
	}

	require.NoError(t, NewS3Post(cfg).AddAuth(r))

	fields, ok := r.Context[CtxPresignPostFields].(map[string]string)
	require.True(t, ok)
	require.Equal(t, "AWS4-HMAC-SHA256", fields["x-amz-algorithm"])
	require.Equal(t, "AKID/20200101/us-east-1/s3/aws4_request", fields["x-amz-credential"])
	require.Equal(t, "20200101T000000Z", fields["x-amz-date"])
	require.NotEmpty(t, fields["policy"])
	require.NotEmpty(t, fields["x-amz-signature"])

	policyBytes, err := base64.StdEncoding.DecodeString(fields["policy"])
	require.NoError(t, err)
	var policy map[string]any
	require.NoError(t, json.Unmarshal(policyBytes, &policy))
	conditions, ok := policy["conditions"].([]any)
	require.True(t, ok)
	// Original condition plus the three fields added by AddAuth.
	require.Len(t, conditions, 4)

	signingKey := auth.GetSigningKey("secret", now, "us-east-1", "s3")
	wantSig := auth.GetSignature(signingKey, fields["policy"])
	require.Equal(t, wantSig, fields["x-amz-signature"])
}

func TestS3ExpressPostUsesSessionTokenField(t *testing.T) {
	u, _ := url.Parse("https://bucket.s3express-use1-az4.amazonaws.com/")
	r := NewRequest("POST", u)

	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret", Token: "sessiontoken"},
		Region:      "us-east-1",
		Service:     "s3express",
		Clock:       fixedClock(time.Now().UTC()),
	}

	require.NoError(t, NewS3ExpressPost(cfg).AddAuth(r))
	fields := r.Context[CtxPresignPostFields].(map[string]string)
	require.Equal(t, "sessiontoken", fields["X-Amz-S3session-Token"])
	_, hasGeneric := fields["x-amz-security-token"]
	require.False(t, hasGeneric)
}
