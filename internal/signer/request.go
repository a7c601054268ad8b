package signer

import (
	"io"
	"net/url"
	"time"
)

// Context keys recognized by the signing core (spec §3). The context map
// itself stays an open bag — collaborators are free to stash additional
// keys the signer never looks at — but these are the ones AddAuth reads
// or writes.
const (
	// CtxTimestamp holds the time.Time fixed once at the start of AddAuth
	// and reused for every date field the signer writes.
	CtxTimestamp = "timestamp"

	// CtxPayloadSigningEnabled holds a bool; false disables payload
	// hashing in favor of UNSIGNED-PAYLOAD (generic policy, spec §4.1).
	CtxPayloadSigningEnabled = "payload_signing_enabled"

	// CtxHasStreamingInput holds a bool consulted by the S3 payload
	// policy overlay.
	CtxHasStreamingInput = "has_streaming_input"

	// CtxChecksum holds a *Checksum describing an in-header or
	// in-trailer checksum algorithm.
	CtxChecksum = "checksum"

	// CtxClientConfig holds a *ClientConfig carrying S3-specific
	// signing configuration.
	CtxClientConfig = "client_config"

	// CtxPresignPostFields holds the map.StringAny of fields accumulated
	// for a presigned POST policy document.
	CtxPresignPostFields = "s3-presign-post-fields"

	// CtxPresignPostPolicy holds the map.StringAny policy document
	// (conditions, expiration) for a presigned POST.
	CtxPresignPostPolicy = "s3-presign-post-policy"
)

// Checksum describes the request_algorithm sub-map read from
// context[CtxChecksum] by the S3 payload-hash decision table.
type Checksum struct {
	// RequestAlgorithm names the checksum algorithm and where it is
	// carried: "header" or "trailer".
	RequestAlgorithm *ChecksumAlgorithm
}

// ChecksumAlgorithm is the request_algorithm sub-map.
type ChecksumAlgorithm struct {
	// Name is the algorithm name (e.g. "CRC32").
	Name string
	// In is "header" or "trailer".
	In string
}

// S3Config is the s3 sub-map of ClientConfig.
type S3Config struct {
	// PayloadSigningEnabled, when non-nil, overrides the generic and S3
	// payload-signing policies unconditionally.
	PayloadSigningEnabled *bool

	// ChecksumHeaderName names the header an in-header checksum is
	// carried under; defaults to "Content-MD5" when unset.
	ChecksumHeaderName string
}

// ClientConfig is the opaque carrier of S3 configuration read from
// context[CtxClientConfig].
type ClientConfig struct {
	S3 S3Config
}

// Payload is the tagged union of body shapes spec §9 calls for: absent,
// a byte sequence, or a re-seekable reader. At most one of Bytes/Reader
// is set; neither set means the payload is absent.
type Payload struct {
	Bytes  []byte
	Reader io.ReadSeeker
}

// Empty reports whether the payload carries no bytes at all.
func (p Payload) Empty() bool {
	return p.Bytes == nil && p.Reader == nil
}

// Request is the mutable view the signer reads from and writes to. It
// models spec §3's data model directly rather than wrapping *http.Request,
// because presigning needs to manipulate params/data before a wire
// request exists. Header uses net/http.Header, which already gives the
// case-insensitive, order-preserving-per-name multimap semantics spec §9
// calls for.
type Request struct {
	Method string
	URL    *url.URL
	Header Header

	// Params is an alternative carrier for query parameters, used by
	// callers that haven't yet serialized a query string.
	Params map[string]string

	// Data is the request body in form-encoded (map[string]string),
	// byte ([]byte), or text (string) shape. Presigning may relocate it
	// into the query string and clear it.
	Data any

	// Body is the effective payload used for hashing.
	Body Payload

	// Context is the side-channel between collaborators and the signer.
	Context map[string]any
}

// NewRequest builds a Request ready for signing.
func NewRequest(method string, u *url.URL) *Request {
	return &Request{
		Method:  method,
		URL:     u,
		Header:  make(Header),
		Context: make(map[string]any),
	}
}

func (r *Request) ctxBool(key string) (bool, bool) {
	v, ok := r.Context[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (r *Request) ctxTimestamp() (time.Time, bool) {
	v, ok := r.Context[CtxTimestamp]
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

func (r *Request) checksum() *Checksum {
	v, ok := r.Context[CtxChecksum]
	if !ok {
		return nil
	}
	c, _ := v.(*Checksum)
	return c
}

func (r *Request) clientConfig() *ClientConfig {
	v, ok := r.Context[CtxClientConfig]
	if !ok {
		return nil
	}
	c, _ := v.(*ClientConfig)
	return c
}

// dataMap coerces request.Data into a string-keyed map when it is
// form-encoded, the shape query-string relocation (spec §4.5 step 4) and
// SigV2 (spec §4.8) need.
func dataMap(data any) (map[string]string, bool) {
	switch v := data.(type) {
	case map[string]string:
		return v, true
	case nil:
		return nil, false
	default:
		return nil, false
	}
}
