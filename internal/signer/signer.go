package signer

// Signer is the uniform contract every scheme satisfies (spec §6): one
// operation, taking a request and returning it authenticated or an
// error. All mutation happens in place on r; the caller retains
// ownership of the Request value across the call.
type Signer interface {
	AddAuth(r *Request) error
}

// logDiagnostics emits the canonical request, string-to-sign, and
// signature at debug level (spec §7). Never called with secret key
// material.
func logDiagnostics(cfg Config, canonicalRequest, sts, signature string) {
	cfg.Logger.Debug().
		Str("canonical_request", canonicalRequest).
		Str("string_to_sign", sts).
		Str("signature", signature).
		Msg("signer: computed SigV4 signature")
}
