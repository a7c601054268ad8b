package signer

import (
	"net/http"
	"sort"
	"strings"
)

// Header is the request's mutable header multimap. net/http.Header
// already canonicalizes names case-insensitively and preserves insertion
// order per name (Add appends), which is exactly what spec §9's header
// container requirement calls for, so it is reused directly rather than
// reinvented.
type Header = http.Header

// blacklistedSigningHeaders are excluded from SignedHeaders regardless of
// scheme (spec §4.1).
var blacklistedSigningHeaders = map[string]struct{}{
	"expect":          {},
	"user-agent":      {},
	"x-amzn-trace-id": {},
}

func isBlacklistedHeader(lowerName string) bool {
	_, ok := blacklistedSigningHeaders[lowerName]
	return ok
}

// lowerHeaderNames returns the distinct, lowercased header names present
// on h, excluding the signing blacklist.
func lowerHeaderNames(h Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		lower := strings.ToLower(name)
		if isBlacklistedHeader(lower) {
			continue
		}
		names = append(names, lower)
	}
	sort.Strings(names)
	return names
}

// headerValues returns all values for a lowercased header name, looking
// the canonical-cased key up in h.
func headerValues(h Header, lowerName string) []string {
	return h[http.CanonicalHeaderKey(lowerName)]
}

// deleteHeader removes a header regardless of casing.
func deleteHeader(h Header, name string) {
	h.Del(name)
}
