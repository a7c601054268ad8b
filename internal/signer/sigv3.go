package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/prn-tf/alexander-sigkit/internal/auth"
)

// xAmznAuthorizationHeader carries the SigV3 auth material.
const xAmznAuthorizationHeader = "X-Amzn-Authorization"

// sigv3Signer implements the minimal scheme used by a narrow set of
// services (spec §4.9).
type sigv3Signer struct {
	cfg Config
}

// NewSigV3 builds a SigV3 signer.
func NewSigV3(cfg Config) Signer {
	return &sigv3Signer{cfg: cfg}
}

func (s *sigv3Signer) AddAuth(r *Request) error {
	if s.cfg.Credentials.Empty() {
		return ErrNoCredentials
	}

	now := s.cfg.clock()()
	r.Context[CtxTimestamp] = now

	httpDate := now.Format(http.TimeFormat)
	r.Header.Set("Date", httpDate)

	if s.cfg.Credentials.HasToken() {
		r.Header.Set(auth.XAmzSecurityTokenHeader, s.cfg.Credentials.Token)
	}

	mac := hmac.New(sha256.New, []byte(s.cfg.Credentials.SecretKey))
	mac.Write([]byte(httpDate))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	value := fmt.Sprintf("AWS3-HTTPS AWSAccessKeyId=%s,Algorithm=HmacSHA256,Signature=%s",
		s.cfg.Credentials.AccessKey, signature)
	r.Header.Del(xAmznAuthorizationHeader)
	r.Header.Set(xAmznAuthorizationHeader, value)

	logDiagnostics(s.cfg, httpDate, httpDate, signature)
	return nil
}
