package signer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/stretchr/testify/require"
)

// TestSigV4HeaderAgreesWithSDK cross-validates sigv4HeaderSigner against
// the published aws-sdk-go-v2 SigV4 implementation: the core must not
// import the SDK it reimplements (spec §1), but a test confirming the
// two agree on the same request is a legitimate, test-only use of it.
func TestSigV4HeaderAgreesWithSDK(t *testing.T) {
	signingTime := time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC)
	rawURL := "https://example.amazonaws.com/widgets/42?list-type=2"
	akid := "AKIDEXAMPLE"
	secret := "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
	region := "us-west-2"
	service := "widgets"

	emptyHash := sha256.Sum256(nil)
	payloadHash := hex.EncodeToString(emptyHash[:])

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	ours := NewRequest(http.MethodGet, u)
	s := NewSigV4Header(Config{
		Credentials: Credentials{AccessKey: akid, SecretKey: secret},
		Region:      region,
		Service:     service,
		Clock:       fixedClock(signingTime),
	})
	require.NoError(t, s.AddAuth(ours))

	sdkReq, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	sdkReq.Header.Set("X-Amz-Date", signingTime.Format("20060102T150405Z"))

	sdkSigner := v4.NewSigner()
	err = sdkSigner.SignHTTP(context.Background(), aws.Credentials{
		AccessKeyID:     akid,
		SecretAccessKey: secret,
	}, sdkReq, payloadHash, service, region, signingTime)
	require.NoError(t, err)

	require.Equal(t, sdkReq.Header.Get("Authorization"), ours.Header.Get("Authorization"))
}
