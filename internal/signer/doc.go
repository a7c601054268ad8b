// Package signer implements the request-signing core of the Alexander
// client tooling: it takes a prepared request and augments it with
// cryptographically derived authentication material so that an endpoint
// running the alexander-storage auth middleware (or any SigV2/SigV3/SigV4
// compatible service) will accept it.
//
// The package never performs I/O, never mutates credentials, and never
// retries. It is a pure transformation from (request, credentials, clock)
// to a signed request, modulo the request's context map. Canonicalization
// and key derivation are shared with internal/auth, which verifies the
// signatures this package produces.
package signer
