package signer

import (
	"net/url"
	"sort"
	"strings"

	"github.com/prn-tf/alexander-sigkit/internal/auth"
)

const autoFormContentType = "application/x-www-form-urlencoded; charset=utf-8"

// queryPolicy parameterizes the presigned-URL signing algorithm across
// its generic and S3/S3-Express variants (spec §4.5, §4.7).
type queryPolicy struct {
	s3         bool
	tokenParam string
}

// sigv4QuerySigner implements AddAuth for SigV4Query, the S3 query
// overlay, and the S3 Express query variant.
type sigv4QuerySigner struct {
	cfg    Config
	policy queryPolicy
}

// NewSigV4Query builds the generic presigned-URL signer (spec §4.5).
func NewSigV4Query(cfg Config) Signer {
	return &sigv4QuerySigner{cfg: cfg, policy: queryPolicy{tokenParam: auth.XAmzSecurityTokenHeader}}
}

// NewS3SigV4Query builds the S3 overlay: path is not normalized and the
// payload hash is UNSIGNED-PAYLOAD unconditionally, since the presigner
// cannot know the future body.
func NewS3SigV4Query(cfg Config) Signer {
	return &sigv4QuerySigner{cfg: cfg, policy: queryPolicy{s3: true, tokenParam: auth.XAmzSecurityTokenHeader}}
}

// NewS3ExpressQuery builds the S3 Express query variant: the session
// token rides on X-Amz-S3session-Token instead of the generic param.
func NewS3ExpressQuery(cfg Config) Signer {
	return &sigv4QuerySigner{cfg: cfg, policy: queryPolicy{s3: true, tokenParam: s3SessionTokenHeader}}
}

func (s *sigv4QuerySigner) AddAuth(r *Request) error {
	if s.cfg.Credentials.Empty() {
		return ErrNoCredentials
	}

	now := s.cfg.clock()()
	ts := now.Format(auth.ISO8601BasicFormat)
	r.Context[CtxTimestamp] = now

	if r.Header.Get("Content-Type") == autoFormContentType {
		r.Header.Del("Content-Type")
	}

	signedNames := signedHeaderNames(r)
	headerBlock, signedHeaders := canonicalHeaderBlock(r, signedNames)

	scope := auth.CredentialScope{Date: now, Region: s.cfg.Region, Service: s.cfg.Service}
	credential := s.cfg.Credentials.AccessKey + "/" + scope.String()

	authPairs := []kv{
		{auth.XAmzAlgorithmHeader, auth.SignV4Algorithm},
		{auth.XAmzCredentialHeader, credential},
		{auth.XAmzDateHeader, ts},
		{auth.XAmzExpiresHeader, quoteExpires(int64(s.cfg.expires().Seconds()))},
		{auth.XAmzSignedHeadersHeader, signedHeaders},
	}
	if s.cfg.Credentials.HasToken() {
		authPairs = append(authPairs, kv{s.policy.tokenParam, s.cfg.Credentials.Token})
	}

	operationPairs := relocateBodyToQuery(r)

	merged := make(map[string]string, len(operationPairs)+len(authPairs))
	for _, p := range operationPairs {
		merged[p.k] = p.v
	}
	for _, p := range authPairs {
		merged[p.k] = p.v
	}
	r.Params = merged

	var hash string
	var err error
	if s.policy.s3 {
		hash = unsignedPayload
	} else {
		hash, err = payloadHash(r, false)
		if err != nil {
			return err
		}
	}

	uri := canonicalPath(r.URL, !s.policy.s3)
	query := canonicalQuery(r)
	canonicalRequest := buildCanonicalRequest(r.Method, uri, query, headerBlock, signedHeaders, hash)

	sts := stringToSign(ts, scope, canonicalRequest)
	signingKey := auth.GetSigningKey(s.cfg.Credentials.SecretKey, now, s.cfg.Region, s.cfg.Service)
	signature := auth.GetSignature(signingKey, sts)

	sort.Slice(operationPairs, func(i, j int) bool { return operationPairs[i].k < operationPairs[j].k })

	var b strings.Builder
	writePairs(&b, operationPairs)
	writePairs(&b, authPairs)
	b.WriteString(auth.XAmzSignatureHeader)
	b.WriteString("=")
	b.WriteString(awsQueryEscape(signature))

	r.URL.RawQuery = b.String()
	r.Params = nil

	logDiagnostics(s.cfg, canonicalRequest, sts, signature)
	return nil
}

// writePairs appends AWS-escaped "k=v&" pairs to b.
func writePairs(b *strings.Builder, pairs []kv) {
	for _, p := range pairs {
		b.WriteString(awsQueryEscape(p.k))
		b.WriteString("=")
		b.WriteString(awsQueryEscape(p.v))
		b.WriteString("&")
	}
}

// relocateBodyToQuery implements spec §4.5 step 4: parse the URL's
// existing query (decoded, blanks preserved), merge request.Params or a
// form-encoded request.Data on top, and clear both so the body no longer
// carries them.
func relocateBodyToQuery(r *Request) []kv {
	existing, _ := url.ParseQuery(r.URL.RawQuery)
	merged := make(map[string]string, len(existing))
	for k, vs := range existing {
		if len(vs) > 0 {
			merged[k] = vs[0]
		} else {
			merged[k] = ""
		}
	}

	for k, v := range r.Params {
		merged[k] = v
	}
	if form, ok := dataMap(r.Data); ok {
		for k, v := range form {
			merged[k] = v
		}
		r.Data = nil
	}

	pairs := make([]kv, 0, len(merged))
	for k, v := range merged {
		pairs = append(pairs, kv{k, v})
	}
	return pairs
}
