package signer

import "errors"

// Error kinds surfaced by the signing core (spec §7). All are raised
// synchronously before any mutation of the request becomes observable
// externally: AddAuth prefers to fail before injecting partial state.
var (
	// ErrNoCredentials is returned by a credential-based signer's AddAuth
	// when constructed or invoked without access key / secret key.
	ErrNoCredentials = errors.New("signer: no credentials provided")

	// ErrNoAuthToken is returned by the bearer signer when invoked
	// without a token.
	ErrNoAuthToken = errors.New("signer: no auth token provided")

	// ErrUnknownSignatureVersion is returned by the resolver when a trait
	// in the candidate list is not recognized at all.
	ErrUnknownSignatureVersion = errors.New("signer: unknown signature version")

	// ErrUnsupportedSignatureVersion is returned by the resolver when
	// every trait in the candidate list is recognized but none maps to a
	// registered scheme.
	ErrUnsupportedSignatureVersion = errors.New("signer: unsupported signature version")

	// ErrUnknownScheme is returned by the registry when asked to
	// construct a signer for a scheme tag it does not carry.
	ErrUnknownScheme = errors.New("signer: unknown scheme")
)
