package signer

// Scheme tags recognized by the registry (spec §4.11). v4a, s3v4a and
// s3v4a-query name the CRT-backed asymmetric SigV4a signers, which spec
// §1 treats as opaque peers outside this core's scope: they are known
// scheme tags (so the resolver doesn't fail with UnknownSignatureVersion
// when it sees them) but carry no constructor here.
const (
	SchemeV2                     = "v2"
	SchemeV3                     = "v3"
	SchemeV3HTTPS                = "v3https"
	SchemeV4                     = "v4"
	SchemeV4Query                = "v4-query"
	SchemeS3V4                   = "s3v4"
	SchemeS3V4Query              = "s3v4-query"
	SchemeS3V4PresignPost        = "s3v4-presign-post"
	SchemeV4S3Express            = "v4-s3express"
	SchemeV4S3ExpressQuery       = "v4-s3express-query"
	SchemeV4S3ExpressPresignPost = "v4-s3express-presign-post"
	SchemeV4A                    = "v4a"
	SchemeS3V4A                  = "s3v4a"
	SchemeS3V4AQuery             = "s3v4a-query"
	SchemeBearer                 = "bearer"
	schemeNone                   = "none"
)

// Auth traits recognized by the resolver (spec §4.11).
const (
	TraitSigV4      = "aws.auth#sigv4"
	TraitSigV4A     = "aws.auth#sigv4a"
	TraitHTTPBearer = "smithy.api#httpBearerAuth"
	TraitNoAuth     = "smithy.api#noAuth"
)

// Constructor builds a Signer for a registered scheme.
type Constructor func(Config) Signer

// registryEntry pairs a constructor with the capability flags callers use
// to decide what Config fields they must supply (spec §6).
type registryEntry struct {
	New          Constructor
	Capabilities Capabilities
}

// Registry is the static scheme-tag -> constructor map plus the
// trait-to-scheme resolver (spec §4.11).
type Registry struct {
	schemes map[string]registryEntry
	// traits maps a model-level auth trait to the scheme tag it selects.
	traits map[string]string
}

// NewRegistry builds the default registry (spec §4.11).
func NewRegistry() *Registry {
	r := &Registry{
		schemes: map[string]registryEntry{
			SchemeV2:                     {New: NewSigV2, Capabilities: Capabilities{}},
			SchemeV3:                     {New: NewSigV3, Capabilities: Capabilities{}},
			SchemeV3HTTPS:                {New: NewSigV3, Capabilities: Capabilities{}},
			SchemeV4:                     {New: NewSigV4Header, Capabilities: Capabilities{RequiresRegion: true}},
			SchemeV4Query:                {New: NewSigV4Query, Capabilities: Capabilities{RequiresRegion: true}},
			SchemeS3V4:                   {New: NewS3SigV4Header, Capabilities: Capabilities{RequiresRegion: true}},
			SchemeS3V4Query:              {New: NewS3SigV4Query, Capabilities: Capabilities{RequiresRegion: true}},
			SchemeS3V4PresignPost:        {New: NewS3Post, Capabilities: Capabilities{RequiresRegion: true}},
			SchemeV4S3Express:            {New: NewS3ExpressHeader, Capabilities: Capabilities{RequiresRegion: true, RequiresIdentityCache: true}},
			SchemeV4S3ExpressQuery:       {New: NewS3ExpressQuery, Capabilities: Capabilities{RequiresRegion: true, RequiresIdentityCache: true}},
			SchemeV4S3ExpressPresignPost: {New: NewS3ExpressPost, Capabilities: Capabilities{RequiresRegion: true, RequiresIdentityCache: true}},
			SchemeBearer:                 {New: NewBearer, Capabilities: Capabilities{RequiresToken: true}},
		},
		traits: map[string]string{
			TraitSigV4:      SchemeV4,
			TraitSigV4A:     SchemeV4A,
			TraitHTTPBearer: SchemeBearer,
			TraitNoAuth:     schemeNone,
		},
	}
	return r
}

// New constructs the signer registered under tag, or ErrUnknownScheme if
// none is registered (including the opaque v4a family and "none").
func (r *Registry) New(tag string, cfg Config) (Signer, error) {
	entry, ok := r.schemes[tag]
	if !ok {
		return nil, ErrUnknownScheme
	}
	return entry.New(cfg), nil
}

// Capabilities reports the static flags for a registered scheme.
func (r *Registry) Capabilities(tag string) (Capabilities, bool) {
	entry, ok := r.schemes[tag]
	return entry.Capabilities, ok
}

// ResolveAuthType walks an ordered list of model-level auth traits and
// returns the first whose scheme tag is registered (spec §4.11):
//   - a trait absent from the trait map fails with
//     ErrUnknownSignatureVersion immediately.
//   - a trait present in the trait map but whose scheme tag has no
//     constructor is skipped; resolution keeps scanning.
//   - an exhausted list fails with ErrUnsupportedSignatureVersion.
func (r *Registry) ResolveAuthType(traits []string) (string, error) {
	for _, trait := range traits {
		tag, ok := r.traits[trait]
		if !ok {
			return "", ErrUnknownSignatureVersion
		}
		if _, ok := r.schemes[tag]; ok {
			return tag, nil
		}
	}
	return "", ErrUnsupportedSignatureVersion
}
