package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSigV3SignsDateHeader(t *testing.T) {
	u, _ := url.Parse("https://importexport.amazonaws.com/")
	r := NewRequest("POST", u)

	now := time.Date(2020, 6, 15, 10, 30, 0, 0, time.UTC)
	cfg := Config{
		Credentials: Credentials{AccessKey: "AKID", SecretKey: "secret", Token: "tok"},
		Clock:       fixedClock(now),
	}

	require.NoError(t, NewSigV3(cfg).AddAuth(r))

	httpDate := now.Format(http.TimeFormat)
	require.Equal(t, httpDate, r.Header.Get("Date"))
	require.Equal(t, "tok", r.Header.Get("X-Amz-Security-Token"))

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(httpDate))
	wantSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	want := "AWS3-HTTPS AWSAccessKeyId=AKID,Algorithm=HmacSHA256,Signature=" + wantSig
	require.Equal(t, want, r.Header.Get("X-Amzn-Authorization"))
}
