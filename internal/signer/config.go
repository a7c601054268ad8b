package signer

import (
	"time"

	"github.com/rs/zerolog"
)

// defaultExpires is the default presigned-URL lifetime when a query
// signer's Config.Expires is zero (spec §4.5).
const defaultExpires = 3600 * time.Second

// IdentityCache is the opaque collaborator spec §4.7 calls for: S3
// Express signers consult it to avoid re-deriving a session identity on
// every request. Concrete implementations live under
// internal/signer/identitycache; this interface only names the shape the
// signer needs so the core stays decoupled from any particular backend.
type IdentityCache interface {
	Get(key string) (any, bool)
	Put(key string, value any)
}

// Clock returns the current time; signers call it exactly once per
// AddAuth invocation. Tests inject a fixed clock to make golden vectors
// reproducible (spec §5).
type Clock func() time.Time

// RealClock is the production clock: naive UTC, matching what spec §9
// notes the original source used.
func RealClock() time.Time { return time.Now().UTC() }

// Config constructs a Signer. Not every field applies to every scheme;
// unused fields are ignored by constructors that don't need them.
type Config struct {
	// Credentials is required by every scheme except Bearer.
	Credentials Credentials

	// Token is the bearer-auth credential, required only by the Bearer
	// scheme.
	Token string

	// Service and Region name the credential scope. Region is required
	// by every SigV4 family member; Service by all of them.
	Service string
	Region  string

	// Expires is the presigned-URL lifetime for query/POST signers.
	// Zero means defaultExpires.
	Expires time.Duration

	// IdentityCache is required by the S3 Express overlays.
	IdentityCache IdentityCache

	// Clock is the time source; nil means RealClock.
	Clock Clock

	// Logger receives debug-level diagnostics: the canonical request,
	// string-to-sign, and signature (spec §7). Never logs key material.
	// The zero value is zerolog's documented no-op logger.
	Logger zerolog.Logger
}

func (c Config) clock() Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return RealClock
}

func (c Config) expires() time.Duration {
	if c.Expires > 0 {
		return c.Expires
	}
	return defaultExpires
}

// Capabilities are static flags a registered scheme declares so callers
// can tell what a constructor will need before invoking it (spec §6).
type Capabilities struct {
	RequiresRegion        bool
	RequiresToken         bool
	RequiresIdentityCache bool
}
