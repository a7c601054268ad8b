package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSigV2EncodesReservedCharactersInValues exercises spec §4.8's
// asymmetric percent-encoding note: values containing reserved
// characters must appear escaped in the string to sign.
func TestSigV2EncodesReservedCharactersInValues(t *testing.T) {
	u, _ := url.Parse("https://sqs.us-east-1.amazonaws.com/")
	r := NewRequest("GET", u)
	r.Params = map[string]string{
		"Action": "SendMessage",
		// Reserved characters (space, "/", "+") must come back escaped.
		"MessageBody": "hello world/plus+sign",
	}

	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret"},
		Clock:       fixedClock(now),
	}

	require.NoError(t, NewSigV2(cfg).AddAuth(r))

	require.Equal(t, "AKID", r.Params["AWSAccessKeyId"])
	require.Equal(t, "2", r.Params["SignatureVersion"])
	require.Equal(t, "HmacSHA256", r.Params["SignatureMethod"])
	require.Equal(t, "2020-01-01T00:00:00Z", r.Params["Timestamp"])
	require.NotEmpty(t, r.Params["Signature"])

	host := synthesizeHost(u)
	encoded := sigv2EncodedParams(map[string]string{
		"Action":           "SendMessage",
		"MessageBody":      "hello world/plus+sign",
		"AWSAccessKeyId":   "AKID",
		"SignatureVersion": "2",
		"SignatureMethod":  "HmacSHA256",
		"Timestamp":        "2020-01-01T00:00:00Z",
	})
	require.Contains(t, encoded, "MessageBody=hello%20world%2Fplus%2Bsign")

	sts := "GET\n" + host + "\n/\n" + encoded
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(sts))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	require.Equal(t, want, r.Params["Signature"])
}

func TestSigV2UsesDataForPOST(t *testing.T) {
	u, _ := url.Parse("https://sqs.us-east-1.amazonaws.com/")
	r := NewRequest("POST", u)
	r.Data = map[string]string{"Action": "SendMessage"}

	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret"},
		Clock:       fixedClock(time.Now().UTC()),
	}

	require.NoError(t, NewSigV2(cfg).AddAuth(r))
	require.Nil(t, r.Params)
	form, ok := r.Data.(map[string]string)
	require.True(t, ok)
	require.NotEmpty(t, form["Signature"])
}
