package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

// iso8601Extended is SigV2's timestamp format (spec §6), distinct from
// SigV4's basic form.
const iso8601Extended = "2006-01-02T15:04:05Z"

// sigv2Signer implements the legacy HMAC-SHA256 scheme (spec §4.8).
type sigv2Signer struct {
	cfg Config
}

// NewSigV2 builds a SigV2 signer.
func NewSigV2(cfg Config) Signer {
	return &sigv2Signer{cfg: cfg}
}

func (s *sigv2Signer) AddAuth(r *Request) error {
	if s.cfg.Credentials.Empty() {
		return ErrNoCredentials
	}

	now := s.cfg.clock()()
	r.Context[CtxTimestamp] = now

	params, writeBack := sigv2ParamSource(r)

	params["AWSAccessKeyId"] = s.cfg.Credentials.AccessKey
	params["SignatureVersion"] = "2"
	params["SignatureMethod"] = "HmacSHA256"
	params["Timestamp"] = now.Format(iso8601Extended)
	if s.cfg.Credentials.HasToken() {
		params["SecurityToken"] = s.cfg.Credentials.Token
	}
	// Retry safety: a prior Signature, if present from an earlier
	// AddAuth call, is excluded rather than signed over.
	delete(params, "Signature")

	host := r.URL.Host
	if host == "" {
		host = synthesizeHost(r.URL)
	}
	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	sts := r.Method + "\n" + host + "\n" + path + "\n" + sigv2EncodedParams(params)

	mac := hmac.New(sha256.New, []byte(s.cfg.Credentials.SecretKey))
	mac.Write([]byte(sts))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	params["Signature"] = signature

	writeBack(params)

	logDiagnostics(s.cfg, sts, sts, signature)
	return nil
}

// sigv2ParamSource returns the mutable param map SigV2 signs over
// (request.data for POST, request.params for GET, per spec §4.8) and a
// closure that writes the final map back to the right field.
func sigv2ParamSource(r *Request) (map[string]string, func(map[string]string)) {
	if r.Method == http.MethodPost {
		form, _ := dataMap(r.Data)
		if form == nil {
			form = make(map[string]string)
		}
		return form, func(m map[string]string) { r.Data = m }
	}
	if r.Params == nil {
		r.Params = make(map[string]string)
	}
	return r.Params, func(m map[string]string) { r.Params = m }
}

// sigv2EncodedParams percent-encodes and sorts the param set, excluding
// Signature (spec §4.8). Keys use a "safe=''" charset and values a
// "safe='-_~'" charset in the source implementation; both reduce to the
// same RFC 3986 unreserved set once letters, digits, and "-_.~" are
// accounted for, so one escaper serves both (scenario in spec §8.4).
func sigv2EncodedParams(params map[string]string) string {
	pairs := make([]kv, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, kv{awsQueryEscape(k), awsQueryEscape(v)})
	}
	return canonicalQueryFromPairs(pairs)
}
