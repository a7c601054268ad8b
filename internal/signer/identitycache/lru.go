// Package identitycache provides concrete signer.IdentityCache
// implementations. The S3 Express signers call Get/Put once per request
// to avoid re-deriving a session identity (spec §4.7); both
// implementations here are safe for concurrent use across goroutines
// sharing one signer.Config.
package identitycache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// defaultTTL bounds how long an S3 Express session identity stays cached
// when the caller doesn't override it; S3 Express session credentials
// themselves expire after five minutes.
const defaultTTL = 5 * time.Minute

// LRU is an in-process, size- and time-bounded identity cache backed by
// hashicorp/golang-lru's expirable variant.
type LRU struct {
	cache *expirable.LRU[string, any]
}

// NewLRU builds an LRU identity cache holding at most size entries, each
// evicted after ttl. A zero ttl uses defaultTTL; a zero size uses 128.
func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &LRU{cache: expirable.NewLRU[string, any](size, nil, ttl)}
}

// Get implements signer.IdentityCache.
func (l *LRU) Get(key string) (any, bool) {
	return l.cache.Get(key)
}

// Put implements signer.IdentityCache.
func (l *LRU) Put(key string, value any) {
	l.cache.Add(key, value)
}
