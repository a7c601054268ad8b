// Package credentials adapts the access-key store to the signing core's
// Credentials shape, so a caller can go from "I have an access key ID"
// to "I have a signer.Config ready to sign with" in one call.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-sigkit/internal/domain"
	"github.com/prn-tf/alexander-sigkit/internal/pkg/crypto"
	"github.com/prn-tf/alexander-sigkit/internal/repository"
	"github.com/prn-tf/alexander-sigkit/internal/signer"
)

// ErrAccessKeyNotFound is returned when no active access key matches.
var ErrAccessKeyNotFound = errors.New("credentials: access key not found")

// ErrAccessKeyInactive is returned when the matched key is deactivated.
var ErrAccessKeyInactive = errors.New("credentials: access key inactive")

// ErrAccessKeyExpired is returned when the matched key has expired.
var ErrAccessKeyExpired = errors.New("credentials: access key expired")

// Resolver looks up an access key ID in the store and decrypts its
// secret, producing signer.Credentials ready to hand to a Config. It
// mirrors the decrypt-and-validate sequence IAMService.VerifyAccessKey
// already runs for the server's verification path, reused here for the
// client-signing path instead.
type Resolver struct {
	accessKeyRepo repository.AccessKeyRepository
	encryptor     *crypto.Encryptor
	logger        zerolog.Logger
}

// NewResolver builds a Resolver.
func NewResolver(accessKeyRepo repository.AccessKeyRepository, encryptor *crypto.Encryptor, logger zerolog.Logger) *Resolver {
	return &Resolver{
		accessKeyRepo: accessKeyRepo,
		encryptor:     encryptor,
		logger:        logger.With().Str("component", "credentials_resolver").Logger(),
	}
}

// Resolve decrypts and validates the access key, returning credentials
// with no session token. Use ResolveWithToken when the caller also holds
// a temporary-session security token to attach.
func (r *Resolver) Resolve(ctx context.Context, accessKeyID string) (signer.Credentials, error) {
	return r.ResolveWithToken(ctx, accessKeyID, "")
}

// ResolveWithToken is Resolve plus an explicit session token, for callers
// signing on behalf of an STS-issued temporary credential set.
func (r *Resolver) ResolveWithToken(ctx context.Context, accessKeyID, token string) (signer.Credentials, error) {
	key, err := r.accessKeyRepo.GetActiveByAccessKeyID(ctx, accessKeyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return signer.Credentials{}, ErrAccessKeyNotFound
		}
		return signer.Credentials{}, fmt.Errorf("credentials: lookup failed: %w", err)
	}

	if !key.IsValid() {
		if key.Status != domain.AccessKeyStatusActive {
			return signer.Credentials{}, ErrAccessKeyInactive
		}
		return signer.Credentials{}, ErrAccessKeyExpired
	}

	secret, err := r.encryptor.DecryptString(key.EncryptedSecret)
	if err != nil {
		r.logger.Error().Err(err).Str("access_key_id", accessKeyID).Msg("failed to decrypt secret key")
		return signer.Credentials{}, fmt.Errorf("credentials: decrypt failed: %w", err)
	}

	return signer.Credentials{
		AccessKey: key.AccessKeyID,
		SecretKey: secret,
		Token:     token,
	}, nil
}
