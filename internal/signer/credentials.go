package signer

// Credentials holds the access key pair (and optional session token) used
// to derive a signing key. Credentials are immutable for the lifetime of
// a signer: a signer is constructed once per (service, region, credentials)
// triple and may sign many requests.
type Credentials struct {
	AccessKey string
	SecretKey string

	// Token is the optional session token issued alongside temporary
	// credentials. Its presence changes which security-token header (or
	// S3 Express session-token header) gets written.
	Token string
}

// Empty reports whether no access key pair was supplied.
func (c Credentials) Empty() bool {
	return c.AccessKey == "" || c.SecretKey == ""
}

// HasToken reports whether a session token should be attached.
func (c Credentials) HasToken() bool {
	return c.Token != ""
}

// AuthToken is the bearer-auth credential: a single opaque token string.
type AuthToken struct {
	Token string
}

// Empty reports whether no bearer token was supplied.
func (t AuthToken) Empty() bool {
	return t.Token == ""
}
