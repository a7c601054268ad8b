package signer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prn-tf/alexander-sigkit/internal/auth"
)

// s3SessionTokenHeader is the S3 Express alternate to the generic
// X-Amz-Security-Token header (spec §4.7).
const s3SessionTokenHeader = "X-Amz-S3session-Token"

// headerPolicy parameterizes the single SigV4 header-signing algorithm
// across its generic, S3, and S3-Express variants (spec §4.3-§4.4,
// §4.7), avoiding three near-duplicate implementations.
type headerPolicy struct {
	// s3 selects S3's non-normalized path and payload-signing overlay.
	s3 bool
	// tokenHeader names the session-token header to write.
	tokenHeader string
}

// sigv4HeaderSigner implements AddAuth for SigV4Header, S3HeaderSigner,
// and the S3 Express header variant, selected by policy.
type sigv4HeaderSigner struct {
	cfg    Config
	policy headerPolicy
}

// NewSigV4Header builds the generic SigV4 header signer (spec §4.3).
func NewSigV4Header(cfg Config) Signer {
	return &sigv4HeaderSigner{cfg: cfg, policy: headerPolicy{tokenHeader: auth.XAmzSecurityTokenHeader}}
}

// NewS3SigV4Header builds the S3 overlay (spec §4.4): path is not
// normalized and X-Amz-Content-SHA256 is always recomputed and set.
func NewS3SigV4Header(cfg Config) Signer {
	return &sigv4HeaderSigner{cfg: cfg, policy: headerPolicy{s3: true, tokenHeader: auth.XAmzSecurityTokenHeader}}
}

// NewS3ExpressHeader builds the S3 Express header variant (spec §4.7):
// same as the S3 overlay, but the session token rides on
// x-amz-s3session-token instead of the generic security-token header,
// which must stay absent.
func NewS3ExpressHeader(cfg Config) Signer {
	return &sigv4HeaderSigner{cfg: cfg, policy: headerPolicy{s3: true, tokenHeader: s3SessionTokenHeader}}
}

func (s *sigv4HeaderSigner) AddAuth(r *Request) error {
	if s.cfg.Credentials.Empty() {
		return ErrNoCredentials
	}

	now := s.cfg.clock()()
	ts := now.Format(auth.ISO8601BasicFormat)
	r.Context[CtxTimestamp] = now

	deleteHeader(r.Header, auth.AuthorizationHeader)
	setDateHeader(r, now)

	if s.cfg.Credentials.HasToken() {
		r.Header.Del(s.policy.tokenHeader)
		r.Header.Set(s.policy.tokenHeader, s.cfg.Credentials.Token)
	}

	hash, err := payloadHash(r, s.policy.s3)
	if err != nil {
		return err
	}

	switch {
	case s.policy.s3:
		// S3 always includes and expects X-Amz-Content-SHA256 to match
		// (spec §4.4).
		r.Header.Del(auth.XAmzContentSHA256Header)
		r.Header.Set(auth.XAmzContentSHA256Header, hash)
	case !payloadSigningPolicy(r):
		r.Header.Del(auth.XAmzContentSHA256Header)
		r.Header.Set(auth.XAmzContentSHA256Header, hash)
	}

	names := signedHeaderNames(r)
	uri := canonicalPath(r.URL, !s.policy.s3)
	query := canonicalQuery(r)
	headerBlock, signedHeaders := canonicalHeaderBlock(r, names)
	canonicalRequest := buildCanonicalRequest(r.Method, uri, query, headerBlock, signedHeaders, hash)

	scope := auth.CredentialScope{Date: now, Region: s.cfg.Region, Service: s.cfg.Service}
	sts := stringToSign(ts, scope, canonicalRequest)
	signingKey := auth.GetSigningKey(s.cfg.Credentials.SecretKey, now, s.cfg.Region, s.cfg.Service)
	signature := auth.GetSignature(signingKey, sts)

	authHeader := fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		auth.SignV4Algorithm, s.cfg.Credentials.AccessKey, scope.String(), signedHeaders, signature)
	r.Header.Set(auth.AuthorizationHeader, authHeader)

	logDiagnostics(s.cfg, canonicalRequest, sts, signature)
	return nil
}

// setDateHeader implements spec §4.3's date-header rule: if the caller
// already set Date, keep only Date (rewritten to an HTTP-date from the
// fixed timestamp); otherwise use only X-Amz-Date.
func setDateHeader(r *Request, now time.Time) {
	if r.Header.Get("Date") != "" {
		r.Header.Del(auth.XAmzDateHeader)
		r.Header.Set("Date", now.Format(http.TimeFormat))
		return
	}
	r.Header.Del("Date")
	r.Header.Set(auth.XAmzDateHeader, now.Format(auth.ISO8601BasicFormat))
}
