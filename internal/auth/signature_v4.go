// Package auth provides AWS Signature Version 4 authentication for Alexander Storage.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// =============================================================================
// Signing Key Generation
// =============================================================================

// GetSigningKey derives the signing key for AWS v4 signatures.
// This implements the key derivation: HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), service), "aws4_request")
func GetSigningKey(secretKey string, date time.Time, region, service string) []byte {
	// Step 1: kDate = HMAC("AWS4" + secretKey, date)
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(date.Format(YYYYMMDD)))

	// Step 2: kRegion = HMAC(kDate, region)
	kRegion := hmacSHA256(kDate, []byte(region))

	// Step 3: kService = HMAC(kRegion, service)
	kService := hmacSHA256(kRegion, []byte(service))

	// Step 4: kSigning = HMAC(kService, "aws4_request")
	kSigning := hmacSHA256(kService, []byte(AWS4Request))

	return kSigning
}

// GetSignature calculates the signature using the signing key.
func GetSignature(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))
}

// hmacSHA256 computes HMAC-SHA256.
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// =============================================================================
// Header Normalization
// =============================================================================

// TrimAll strips leading/trailing whitespace and collapses internal
// whitespace runs to a single space. Shared with internal/signer's
// canonicalizer, so both sides of a v4 signature agree on header
// normalization.
func TrimAll(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
