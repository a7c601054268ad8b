package signproxy

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/prn-tf/alexander-sigkit/internal/credentials"
	"github.com/prn-tf/alexander-sigkit/internal/signer"
)

// signRequest is the common JSON shape POSTed to /v1/sign, /v1/presign,
// and /v1/presign-post: a request description plus the scheme and
// identity to sign it with.
type signRequest struct {
	AccessKeyID string            `json:"access_key_id"`
	Token       string            `json:"token,omitempty"`
	Scheme      string            `json:"scheme"`
	Region      string            `json:"region,omitempty"`
	Service     string            `json:"service,omitempty"`
	ExpiresSecs int64             `json:"expires_seconds,omitempty"`
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Headers     map[string]string `json:"headers,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	BodyBase64  string            `json:"body_base64,omitempty"`

	// PostPolicy carries the conditions document for /v1/presign-post;
	// ignored by the other two endpoints.
	PostPolicy map[string]any `json:"post_policy,omitempty"`
}

// signResponse reports the signed request back to the caller: the
// (possibly rewritten) URL, the final header set, and, for presigned
// POST, the form fields the caller must submit alongside the file.
type signResponse struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	s.sign(w, r)
}

func (s *Server) handlePresign(w http.ResponseWriter, r *http.Request) {
	s.sign(w, r)
}

func (s *Server) handlePresignPost(w http.ResponseWriter, r *http.Request) {
	s.sign(w, r)
}

// sign decodes the request body, resolves credentials, runs the named
// scheme's signer, and writes back the mutated request. The three
// handlers share this path because spec §2's signers all implement the
// same AddAuth(*Request) error contract regardless of which surface
// (header, query, POST-policy) they mutate.
func (s *Server) sign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sreq, err := req.toSignerRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	region := req.Region
	if region == "" {
		region = s.defaultRegion
	}
	service := req.Service
	if service == "" {
		service = s.defaultService
	}

	creds, err := s.resolver.ResolveWithToken(r.Context(), req.AccessKeyID, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrAccessKeyNotFound):
			writeError(w, http.StatusNotFound, "access key not found")
		case errors.Is(err, credentials.ErrAccessKeyInactive), errors.Is(err, credentials.ErrAccessKeyExpired):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			s.logger.Error().Err(err).Msg("credential resolution failed")
			writeError(w, http.StatusInternalServerError, "credential resolution failed")
		}
		return
	}

	cfg := signer.Config{
		Credentials:   creds,
		Token:         req.Token,
		Region:        region,
		Service:       service,
		IdentityCache: s.identityCache,
		Logger:        s.logger,
	}
	if req.ExpiresSecs > 0 {
		cfg.Expires = time.Duration(req.ExpiresSecs) * time.Second
	}

	if req.Scheme == signer.SchemeS3V4PresignPost || req.Scheme == signer.SchemeV4S3ExpressPresignPost {
		sreq.Context[signer.CtxPresignPostPolicy] = req.PostPolicy
	}

	sgnr, err := s.registry.New(req.Scheme, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown scheme: "+req.Scheme)
		return
	}

	if err := sgnr.AddAuth(sreq); err != nil {
		switch {
		case errors.Is(err, signer.ErrNoCredentials), errors.Is(err, signer.ErrNoAuthToken):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			s.logger.Error().Err(err).Msg("signing failed")
			writeError(w, http.StatusInternalServerError, "signing failed")
		}
		return
	}

	resp := signResponse{
		Method:  sreq.Method,
		URL:     sreq.URL.String(),
		Headers: flattenHeader(sreq.Header),
	}
	if fields, ok := sreq.Context[signer.CtxPresignPostFields].(map[string]string); ok {
		resp.Fields = fields
	}

	writeJSON(w, http.StatusOK, resp)
}

// toSignerRequest builds a signer.Request from the wire shape.
func (r *signRequest) toSignerRequest() (*signer.Request, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, errors.New("invalid url")
	}

	sreq := signer.NewRequest(r.Method, u)
	for k, v := range r.Headers {
		sreq.Header.Set(k, v)
	}
	if len(r.Params) > 0 {
		sreq.Params = r.Params
	}
	if len(r.Data) > 0 {
		sreq.Data = r.Data
	}
	if r.BodyBase64 != "" {
		body, err := base64.StdEncoding.DecodeString(r.BodyBase64)
		if err != nil {
			return nil, errors.New("invalid body_base64")
		}
		sreq.Body = signer.Payload{Bytes: body}
	}
	return sreq, nil
}

func flattenHeader(h signer.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
