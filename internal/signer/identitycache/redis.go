package identitycache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisOpTimeout bounds each Get/Put round trip; signer.IdentityCache's
// synchronous, error-less shape gives callers no way to propagate a
// context of their own.
const redisOpTimeout = 500 * time.Millisecond

// Redis is a distributed identity cache, for signer processes sharing
// one credential pool across instances (spec §4.7's identity-cache
// collaborator, backed by a broker instead of an in-process map).
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedis builds a Redis-backed identity cache. ttl of zero uses
// defaultTTL.
func NewRedis(client *redis.Client, keyPrefix string, ttl time.Duration, logger zerolog.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
		logger: logger.With().Str("component", "identitycache_redis").Logger(),
	}
}

// Get implements signer.IdentityCache. A marshal, network, or
// unmarshal failure is logged and reported as a cache miss rather than
// propagated, since a miss only costs a re-derivation, not correctness.
func (r *Redis) Get(key string) (any, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("key", key).Msg("identity cache get failed")
		}
		return nil, false
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("identity cache value undecodable")
		return nil, false
	}
	return value, true
}

// Put implements signer.IdentityCache.
func (r *Redis) Put(key string, value any) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("identity cache value unencodable")
		return
	}

	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("identity cache put failed")
	}
}
