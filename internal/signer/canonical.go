package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/prn-tf/alexander-sigkit/internal/auth"
)

// emptyStringSHA256 is the hex SHA-256 of the empty string, reused from
// internal/auth so both the signer and the verifier agree on the literal.
const emptyStringSHA256 = auth.EmptyStringSHA256

// unsignedPayload is the literal substituted for a body hash when
// signing the body is unnecessary or impossible (spec §4.1 and GLOSSARY).
const unsignedPayload = auth.UnsignedPayload

// streamingUnsignedPayloadTrailer is written when the checksum is carried
// in a trailer (spec §4.1 decision table, step 1).
const streamingUnsignedPayloadTrailer = "STREAMING-UNSIGNED-PAYLOAD-TRAILER"

// canonicalPath extracts and normalizes the URL path. Generic SigV4
// resolves "." and ".." segments and collapses duplicate slashes; S3
// signers pass normalize=false because S3 treats keys literally (spec
// §4.1, scenario 2 in spec §8).
func canonicalPath(u *url.URL, normalize bool) string {
	p := u.Path
	if p == "" {
		p = "/"
	}
	if normalize {
		p = normalizePath(p)
	}
	return encodePath(p)
}

// normalizePath resolves "." and ".." segments and collapses duplicate
// slashes, preserving a trailing slash if one was present.
func normalizePath(p string) string {
	trailingSlash := strings.HasSuffix(p, "/") && p != "/"
	cleaned := path.Clean(p)
	if cleaned == "." {
		cleaned = "/"
	}
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	if trailingSlash && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}

// encodePath percent-encodes each path segment, preserving "/" and "~" as
// unreserved (spec §4.1).
func encodePath(p string) string {
	if p == "" {
		return "/"
	}
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = awsPathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func awsPathEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedAWS(c) || c == '/' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// isUnreservedAWS reports whether c is unreserved per RFC 3986 plus the
// AWS SigV4 extension set {-_.~}.
func isUnreservedAWS(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '~':
		return true
	}
	return false
}

// awsQueryEscape percent-encodes a query-string component, preserving
// "-_.~" as unreserved. This differs from net/url's QueryEscape (which
// encodes space as "+" and handles a different reserved set), so spec
// §8's golden vectors require this custom escaper.
func awsQueryEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedAWS(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

type kv struct{ k, v string }

// canonicalQueryFromPairs sorts (already percent-encoded) key/value pairs
// lexicographically by key, tie-breaking by value, and joins them.
func canonicalQueryFromPairs(pairs []kv) string {
	sorted := append([]kv(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].k != sorted[j].k {
			return sorted[i].k < sorted[j].k
		}
		return sorted[i].v < sorted[j].v
	})
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = p.k + "=" + p.v
	}
	return strings.Join(parts, "&")
}

// canonicalQuery builds the canonical query string (spec §4.1). Params is
// the preferred source when non-empty; otherwise the URL's existing query
// is split on "&" and "=" without further decoding, matching what a
// caller that built request.params never populated.
func canonicalQuery(r *Request) string {
	if len(r.Params) > 0 {
		pairs := make([]kv, 0, len(r.Params))
		for k, v := range r.Params {
			pairs = append(pairs, kv{awsQueryEscape(k), awsQueryEscape(v)})
		}
		return canonicalQueryFromPairs(pairs)
	}

	raw := r.URL.RawQuery
	if raw == "" {
		return ""
	}
	fragments := strings.Split(raw, "&")
	pairs := make([]kv, 0, len(fragments))
	for _, frag := range fragments {
		if frag == "" {
			continue
		}
		k, v, _ := strings.Cut(frag, "=")
		pairs = append(pairs, kv{k, v})
	}
	return canonicalQueryFromPairs(pairs)
}

// synthesizeHost builds the Host header value from the URL when no Host
// header is already present: lowercase hostname, bracket IPv6 literals,
// and append ":port" only when it differs from the scheme default.
func synthesizeHost(u *url.URL) string {
	host := u.Hostname()
	port := u.Port()

	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	host = strings.ToLower(host)

	if port == "" {
		return host
	}
	defaultPort := "80"
	if u.Scheme == "https" {
		defaultPort = "443"
	}
	if port == defaultPort {
		return host
	}
	return net.JoinHostPort(host, port)
}

// signedHeaderNames returns the sorted, lowercased, blacklist-excluded
// header names that will be included in SignedHeaders, synthesizing the
// host header if absent.
func signedHeaderNames(r *Request) []string {
	names := lowerHeaderNames(r.Header)
	hasHost := false
	for _, n := range names {
		if n == "host" {
			hasHost = true
			break
		}
	}
	if !hasHost {
		names = append(names, "host")
		sort.Strings(names)
	}
	return names
}

// canonicalHeaderBlock builds the canonical header block and joins the
// signed-header list, per spec §4.1. It shares TrimAll with internal/auth
// so both directions of the wire agree on whitespace normalization.
func canonicalHeaderBlock(r *Request, names []string) (block string, signedHeaders string) {
	host := synthesizeHost(r.URL)
	var b strings.Builder
	for _, name := range names {
		var values []string
		if name == "host" {
			if hv := headerValues(r.Header, "host"); len(hv) > 0 {
				values = hv
			} else {
				values = []string{host}
			}
		} else {
			values = headerValues(r.Header, name)
		}
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(auth.TrimAll(strings.Join(values, ",")))
		b.WriteString("\n")
	}
	return b.String(), strings.Join(names, ";")
}

// hashBytes returns the hex SHA-256 of b.
func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// hashReader consumes r in 1 MiB chunks computing its SHA-256, then seeks
// back to the position it started at, restoring it on every exit path
// (spec §3 invariant, §5 resource model).
func hashReader(rs io.ReadSeeker) (string, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	buf := make([]byte, 1<<20)
	restore := func() error {
		_, serr := rs.Seek(pos, io.SeekStart)
		return serr
	}

	for {
		n, rerr := rs.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = restore()
			return "", rerr
		}
	}

	if err := restore(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// payloadSigningPolicy is the generic policy (spec §4.1): sign unless the
// URL is https and the caller explicitly disabled payload signing.
func payloadSigningPolicy(r *Request) bool {
	if r.URL.Scheme != "https" {
		return true
	}
	if enabled, ok := r.ctxBool(CtxPayloadSigningEnabled); ok {
		return enabled
	}
	return true
}

// s3PayloadSigningPolicy is the S3 overlay (spec §4.1).
func s3PayloadSigningPolicy(r *Request) bool {
	if cfg := r.clientConfig(); cfg != nil && cfg.S3.PayloadSigningEnabled != nil {
		return *cfg.S3.PayloadSigningEnabled
	}

	checksumHeader := "Content-Md5"
	if cfg := r.clientConfig(); cfg != nil && cfg.S3.ChecksumHeaderName != "" {
		checksumHeader = cfg.S3.ChecksumHeaderName
	} else if cs := r.checksum(); cs != nil && cs.RequestAlgorithm != nil && cs.RequestAlgorithm.In == "header" {
		checksumHeader = cs.RequestAlgorithm.Name
	}

	if r.URL.Scheme != "https" || r.Header.Get(checksumHeader) == "" {
		return true
	}

	if streaming, ok := r.ctxBool(CtxHasStreamingInput); ok && streaming {
		return false
	}

	return payloadSigningPolicy(r)
}

// payloadHash implements spec §4.1's decision table. s3 selects the S3
// payload-signing policy overlay instead of the generic one.
func payloadHash(r *Request, s3 bool) (string, error) {
	if cs := r.checksum(); cs != nil && cs.RequestAlgorithm != nil && cs.RequestAlgorithm.In == "trailer" {
		return streamingUnsignedPayloadTrailer, nil
	}

	signingEnabled := payloadSigningPolicy(r)
	if s3 {
		signingEnabled = s3PayloadSigningPolicy(r)
	}
	if !signingEnabled {
		return unsignedPayload, nil
	}

	switch {
	case r.Body.Reader != nil:
		return hashReader(r.Body.Reader)
	case r.Body.Bytes != nil:
		return hashBytes(r.Body.Bytes), nil
	default:
		return emptyStringSHA256, nil
	}
}

// buildCanonicalRequest assembles the five-line canonical request (spec
// §4.1). The trailing blank line the spec calls out falls naturally out
// of headerBlock already ending in "\n" followed by the "\n" join.
func buildCanonicalRequest(method, uri, query, headerBlock, signedHeaders, hash string) string {
	return strings.Join([]string{
		method,
		uri,
		query,
		headerBlock,
		signedHeaders,
		hash,
	}, "\n")
}

// stringToSign builds the four-line SigV4 string to sign (spec §4.2).
func stringToSign(ts string, scope auth.CredentialScope, canonicalRequest string) string {
	sts := auth.StringToSign{
		Algorithm:            auth.SignV4Algorithm,
		RequestDateTime:      ts,
		CredentialScope:      scope.String(),
		CanonicalRequestHash: hashBytes([]byte(canonicalRequest)),
	}
	return sts.String()
}

// quoteExpires renders an expiry duration in seconds as used by
// X-Amz-Expires.
func quoteExpires(seconds int64) string {
	return strconv.FormatInt(seconds, 10)
}
