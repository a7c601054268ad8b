package signer

import (
	"encoding/base64"
	"encoding/json"

	"github.com/prn-tf/alexander-sigkit/internal/auth"
)

// s3PostPolicy parameterizes the presigned-POST signer across its S3 and
// S3 Express variants (spec §4.6-§4.7).
type s3PostPolicy struct {
	tokenField string
}

// s3PostSigner implements S3PostAuth (spec §4.6): it never builds a
// canonical request, it signs the base64 policy document directly.
type s3PostSigner struct {
	cfg    Config
	policy s3PostPolicy
}

// NewS3Post builds the presigned POST signer.
func NewS3Post(cfg Config) Signer {
	return &s3PostSigner{cfg: cfg, policy: s3PostPolicy{tokenField: "x-amz-security-token"}}
}

// NewS3ExpressPost builds the S3 Express presigned POST variant: the
// session token field is X-Amz-S3session-Token instead of the generic
// one (spec §4.7).
func NewS3ExpressPost(cfg Config) Signer {
	return &s3PostSigner{cfg: cfg, policy: s3PostPolicy{tokenField: s3SessionTokenHeader}}
}

func (s *s3PostSigner) AddAuth(r *Request) error {
	if s.cfg.Credentials.Empty() {
		return ErrNoCredentials
	}

	now := s.cfg.clock()()
	ts := now.Format(auth.ISO8601BasicFormat)
	r.Context[CtxTimestamp] = now

	fields, _ := r.Context[CtxPresignPostFields].(map[string]string)
	if fields == nil {
		fields = make(map[string]string)
	}

	policy, _ := r.Context[CtxPresignPostPolicy].(map[string]any)
	if policy == nil {
		policy = make(map[string]any)
	}
	conditions, _ := policy["conditions"].([]any)

	scope := auth.CredentialScope{Date: now, Region: s.cfg.Region, Service: s.cfg.Service}
	credential := s.cfg.Credentials.AccessKey + "/" + scope.String()

	add := func(key, value string) {
		fields[key] = value
		conditions = append(conditions, map[string]string{key: value})
	}
	add("x-amz-algorithm", auth.SignV4Algorithm)
	add("x-amz-credential", credential)
	add("x-amz-date", ts)
	if s.cfg.Credentials.HasToken() {
		add(s.policy.tokenField, s.cfg.Credentials.Token)
	}

	policy["conditions"] = conditions

	policyJSON, err := json.Marshal(policy)
	if err != nil {
		return err
	}
	policyB64 := base64.StdEncoding.EncodeToString(policyJSON)
	fields["policy"] = policyB64

	signingKey := auth.GetSigningKey(s.cfg.Credentials.SecretKey, now, s.cfg.Region, s.cfg.Service)
	signature := auth.GetSignature(signingKey, policyB64)
	fields["x-amz-signature"] = signature

	r.Context[CtxPresignPostFields] = fields
	r.Context[CtxPresignPostPolicy] = policy

	logDiagnostics(s.cfg, policyB64, policyB64, signature)
	return nil
}
