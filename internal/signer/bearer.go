package signer

import "github.com/prn-tf/alexander-sigkit/internal/auth"

// bearerSigner implements the bearer-token scheme (spec §4.10).
type bearerSigner struct {
	token string
}

// NewBearer builds a bearer-token signer.
func NewBearer(cfg Config) Signer {
	return &bearerSigner{token: cfg.Token}
}

func (s *bearerSigner) AddAuth(r *Request) error {
	if s.token == "" {
		return ErrNoAuthToken
	}
	r.Header.Del(auth.AuthorizationHeader)
	r.Header.Set(auth.AuthorizationHeader, "Bearer "+s.token)
	return nil
}
